package robot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/timedrobot/logging"
)

type recordingRobot struct {
	Base

	mu       sync.Mutex
	calls    []string
	failures map[string]error
	onTeleop func()
}

func (r *recordingRobot) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	return r.failures[name]
}

func (r *recordingRobot) takeCalls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	calls := r.calls
	r.calls = nil
	return calls
}

func (r *recordingRobot) RobotInit(ctx context.Context) error     { return r.record("RobotInit") }
func (r *recordingRobot) RobotPeriodic(ctx context.Context) error { return r.record("RobotPeriodic") }
func (r *recordingRobot) DisabledInit(ctx context.Context) error  { return r.record("DisabledInit") }
func (r *recordingRobot) DisabledPeriodic(ctx context.Context) error {
	return r.record("DisabledPeriodic")
}
func (r *recordingRobot) AutonomousInit(ctx context.Context) error { return r.record("AutonomousInit") }
func (r *recordingRobot) AutonomousPeriodic(ctx context.Context) error {
	return r.record("AutonomousPeriodic")
}
func (r *recordingRobot) TeleopInit(ctx context.Context) error { return r.record("TeleopInit") }
func (r *recordingRobot) TeleopPeriodic(ctx context.Context) error {
	if r.onTeleop != nil {
		r.onTeleop()
	}
	return r.record("TeleopPeriodic")
}

// TestInit and TestPeriodic are left to Base.

func TestRunnerStep(t *testing.T) {
	ctx := context.Background()
	rob := &recordingRobot{}
	modes := NewFixedMode(Disabled)
	runner := NewRunner(rob, modes, clock.NewMock(), 0, logging.NewTestLogger(t))
	test.That(t, runner.Period(), test.ShouldEqual, 20*time.Millisecond)

	_, started := runner.Mode()
	test.That(t, started, test.ShouldBeFalse)

	runner.Step(ctx)
	test.That(t, rob.takeCalls(), test.ShouldResemble,
		[]string{"RobotInit", "DisabledInit", "DisabledPeriodic", "RobotPeriodic"})
	mode, started := runner.Mode()
	test.That(t, started, test.ShouldBeTrue)
	test.That(t, mode, test.ShouldEqual, Disabled)

	runner.Step(ctx)
	test.That(t, rob.takeCalls(), test.ShouldResemble, []string{"DisabledPeriodic", "RobotPeriodic"})

	modes.Set(Autonomous)
	runner.Step(ctx)
	test.That(t, rob.takeCalls(), test.ShouldResemble,
		[]string{"AutonomousInit", "AutonomousPeriodic", "RobotPeriodic"})

	modes.Set(Teleop)
	runner.Step(ctx)
	runner.Step(ctx)
	test.That(t, rob.takeCalls(), test.ShouldResemble,
		[]string{"TeleopInit", "TeleopPeriodic", "RobotPeriodic", "TeleopPeriodic", "RobotPeriodic"})

	// hooks a robot leaves out fall back to Base
	modes.Set(Test)
	runner.Step(ctx)
	test.That(t, rob.takeCalls(), test.ShouldResemble, []string{"RobotPeriodic"})

	modes.Set(Disabled)
	runner.Step(ctx)
	test.That(t, rob.takeCalls(), test.ShouldResemble,
		[]string{"DisabledInit", "DisabledPeriodic", "RobotPeriodic"})
	test.That(t, runner.Ticks(), test.ShouldEqual, 7)
}

func TestRunnerHookErrors(t *testing.T) {
	ctx := context.Background()
	rob := &recordingRobot{failures: map[string]error{
		"TeleopInit":     errors.New("gear jammed"),
		"TeleopPeriodic": errors.New("gear jammed"),
	}}
	logger, logs := logging.NewObservedTestLogger(t)
	runner := NewRunner(rob, NewFixedMode(Teleop), clock.NewMock(), 0, logger)

	runner.Step(ctx)
	runner.Step(ctx)
	// failures are reported and the tick carries on
	test.That(t, rob.takeCalls(), test.ShouldResemble, []string{
		"RobotInit", "TeleopInit", "TeleopPeriodic", "RobotPeriodic", "TeleopPeriodic", "RobotPeriodic",
	})
	test.That(t, logs.FilterMessage("robot hook failed").Len(), test.ShouldEqual, 3)
}

func TestRunnerOverrun(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	rob := &recordingRobot{}
	logger, logs := logging.NewObservedTestLogger(t)
	runner := NewRunner(rob, NewFixedMode(Teleop), clk, 0, logger)

	runner.timedStep(ctx)
	test.That(t, logs.FilterMessage("loop time overrun").Len(), test.ShouldEqual, 0)

	rob.onTeleop = func() { clk.Add(30 * time.Millisecond) }
	runner.timedStep(ctx)
	test.That(t, logs.FilterMessage("loop time overrun").Len(), test.ShouldEqual, 1)
}

func TestRunnerRun(t *testing.T) {
	clk := clock.NewMock()
	rob := &recordingRobot{}
	runner := NewRunner(rob, NewFixedMode(Autonomous), clk, 10*time.Millisecond, logging.NewTestLogger(t))

	runner.Start()
	runner.Start()
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		clk.Add(10 * time.Millisecond)
		test.That(tb, runner.Ticks(), test.ShouldBeGreaterThanOrEqualTo, 3)
	})
	runner.Stop()
	runner.Stop()

	ticks := runner.Ticks()
	clk.Add(time.Second)
	test.That(t, runner.Ticks(), test.ShouldEqual, ticks)

	calls := rob.takeCalls()
	test.That(t, calls[:3], test.ShouldResemble, []string{"RobotInit", "AutonomousInit", "AutonomousPeriodic"})
}

func TestRunnerRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(&recordingRobot{}, NewFixedMode(Disabled), clock.NewMock(), 0, logging.NewTestLogger(t))
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
	test.That(t, runner.Ticks(), test.ShouldEqual, 1)
}
