package robot

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/utils"
)

// DefaultPeriod is how often the runner ticks unless configured otherwise.
const DefaultPeriod = 20 * time.Millisecond

// A Runner drives a Robot's hooks from a fixed period loop. All hooks run on one goroutine.
type Runner struct {
	robot  Robot
	modes  ModeSource
	clk    clock.Clock
	period time.Duration
	logger logging.Logger

	// mu keeps steps from overlapping.
	mu          sync.Mutex
	initialized bool
	hasMode     bool
	current     Mode
	ticks       int

	workers utils.StoppableWorkers
}

// NewRunner returns a runner for the robot. A zero period uses DefaultPeriod.
func NewRunner(robot Robot, modes ModeSource, clk clock.Clock, period time.Duration, logger logging.Logger) *Runner {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Runner{
		robot:  robot,
		modes:  modes,
		clk:    clk,
		period: period,
		logger: logger,
	}
}

// Period returns the loop period.
func (r *Runner) Period() time.Duration {
	return r.period
}

// Mode returns the mode of the last step and whether a step has run.
func (r *Runner) Mode() (Mode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.hasMode
}

// Ticks returns how many steps have run.
func (r *Runner) Ticks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Step runs a single tick: RobotInit on the first tick, the mode's Init hook when the mode changed,
// the mode's Periodic hook and then RobotPeriodic. Hook errors are logged and the tick carries on.
func (r *Runner) Step(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		r.call(ctx, "RobotInit", r.robot.RobotInit)
		r.initialized = true
	}

	mode := r.modes.Mode()
	if !r.hasMode || mode != r.current {
		if r.hasMode {
			r.logger.Infow("mode changed", "from", r.current.String(), "to", mode.String())
		} else {
			r.logger.Infow("entering mode", "mode", mode.String())
		}
		r.current = mode
		r.hasMode = true
		r.call(ctx, mode.String()+"Init", initHook(r.robot, mode))
	}
	r.call(ctx, mode.String()+"Periodic", periodicHook(r.robot, mode))
	r.call(ctx, "RobotPeriodic", r.robot.RobotPeriodic)
	r.ticks++
}

func (r *Runner) call(ctx context.Context, hook string, f func(context.Context) error) {
	if err := f(ctx); err != nil {
		r.logger.Errorw("robot hook failed", "hook", hook, "error", err)
	}
}

// timedStep runs a step and warns when it took longer than the period.
func (r *Runner) timedStep(ctx context.Context) {
	start := r.clk.Now()
	r.Step(ctx)
	if elapsed := r.clk.Since(start); elapsed > r.period {
		r.logger.Warnw("loop time overrun", "period", r.period, "elapsed", elapsed)
	}
}

// Run steps the robot once per period until the context is done.
func (r *Runner) Run(ctx context.Context) {
	ticker := r.clk.Ticker(r.period)
	defer ticker.Stop()

	r.timedStep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return
		}
		r.timedStep(ctx)
	}
}

// Start runs the loop in the background until Stop is called.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.workers != nil {
		return
	}
	r.workers = utils.NewStoppableWorkers(r.Run)
}

// Stop stops a loop started with Start and waits for it to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	workers := r.workers
	r.workers = nil
	r.mu.Unlock()
	if workers != nil {
		workers.Stop()
	}
}
