package robot

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
)

// A ModeSource decides which mode the robot is in.
type ModeSource interface {
	Mode() Mode
}

// FixedMode stays in one mode until told otherwise.
type FixedMode struct {
	mode *atomic.Int32
}

// NewFixedMode returns a FixedMode starting in m.
func NewFixedMode(m Mode) *FixedMode {
	return &FixedMode{mode: atomic.NewInt32(int32(m))}
}

// Mode returns the current mode.
func (f *FixedMode) Mode() Mode {
	return Mode(f.mode.Load())
}

// Set switches to m.
func (f *FixedMode) Set(m Mode) {
	f.mode.Store(int32(m))
}

// Default match period lengths.
const (
	DefaultAutonomousPeriod = 15 * time.Second
	DefaultTeleopPeriod     = 135 * time.Second
)

// MatchSchedule runs autonomous then teleop for fixed periods, then disables the robot. It is
// disabled until started.
type MatchSchedule struct {
	clk        clock.Clock
	autonomous time.Duration
	teleop     time.Duration

	mu      sync.Mutex
	started bool
	start   time.Time
}

// NewMatchSchedule returns a schedule with the given period lengths. Zero lengths take the
// defaults.
func NewMatchSchedule(clk clock.Clock, autonomous, teleop time.Duration) *MatchSchedule {
	if autonomous == 0 {
		autonomous = DefaultAutonomousPeriod
	}
	if teleop == 0 {
		teleop = DefaultTeleopPeriod
	}
	return &MatchSchedule{clk: clk, autonomous: autonomous, teleop: teleop}
}

// Start begins the match now. Starting a started match restarts it.
func (s *MatchSchedule) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.start = s.clk.Now()
}

// Mode returns the mode for the time since the match started.
func (s *MatchSchedule) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return Disabled
	}
	elapsed := s.clk.Since(s.start)
	switch {
	case elapsed < s.autonomous:
		return Autonomous
	case elapsed < s.autonomous+s.teleop:
		return Teleop
	default:
		return Disabled
	}
}
