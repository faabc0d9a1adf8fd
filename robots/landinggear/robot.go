// Package landinggear is a competition robot with an arcade drive, a pair of landing gear motors
// that extend and retract on operator button presses, and a pneumatic valve with its compressor.
//
// Teleop runs the landing gear for a short pulse after each press of the extend or retract button
// and keeps it running while a button is held. Autonomous drives forward for a fixed time. Test
// mode works the pneumatics from the operator buttons.
package landinggear

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/timedrobot/components/base"
	"go.viam.com/timedrobot/components/compressor"
	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/components/solenoid"
	"go.viam.com/timedrobot/control"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
	"go.viam.com/timedrobot/robot"
)

// Robot owns every component the program uses.
type Robot struct {
	robot.Base

	cfg    Config
	logger logging.Logger

	drive      base.Base
	gear       motor.Motor
	driver     input.Controller
	operator   input.Controller
	valve      solenoid.DoubleSolenoid
	compressor compressor.Compressor

	autoTimer *control.Timer
	gearPulse *control.PulseHold
}

var _ robot.Robot = (*Robot)(nil)

// NewRobot looks the configured components up in deps.
func NewRobot(deps resource.Dependencies, cfg Config, clk clock.Clock, logger logging.Logger) (*Robot, error) {
	cfg.setDefaults()
	if err := cfg.Validate("robot"); err != nil {
		return nil, err
	}

	r := &Robot{cfg: cfg, logger: logger, autoTimer: control.NewTimer(clk)}
	var err error
	if r.drive, err = base.FromDependencies(deps, cfg.Drive); err != nil {
		return nil, errors.Wrap(err, "drive")
	}
	if r.gear, err = motor.FromDependencies(deps, cfg.LandingGear); err != nil {
		return nil, errors.Wrap(err, "landing gear")
	}
	if r.driver, err = input.FromDependencies(deps, cfg.Driver); err != nil {
		return nil, errors.Wrap(err, "driver controller")
	}
	if r.operator, err = input.FromDependencies(deps, cfg.Operator); err != nil {
		return nil, errors.Wrap(err, "operator controller")
	}
	if r.valve, err = solenoid.FromDependencies(deps, cfg.Solenoid); err != nil {
		return nil, errors.Wrap(err, "solenoid")
	}
	if r.compressor, err = compressor.FromDependencies(deps, cfg.Compressor); err != nil {
		return nil, errors.Wrap(err, "compressor")
	}
	if r.gearPulse, err = control.NewPulseHold(r.gear, clk, *cfg.pulseConfig(), logger.Sublogger("gear")); err != nil {
		return nil, err
	}
	return r, nil
}

// sample is the state of the controls for one tick.
type sample struct {
	extend, retract bool
	forward, turn   float64
	driverOK        bool

	solenoidForward, solenoidReverse, solenoidOff bool
}

// sampleTeleop reads both controllers. A controller that cannot be read leaves its part of the
// sample released and centered, and its error is returned alongside the rest of the sample.
func (r *Robot) sampleTeleop(ctx context.Context) (sample, error) {
	var s sample
	var errs error
	ops, err := r.operator.Events(ctx, nil)
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "reading operator controller"))
	} else {
		s.extend = input.IsPressed(ops, r.cfg.ExtendButton)
		s.retract = input.IsPressed(ops, r.cfg.RetractButton)
	}
	drv, err := r.driver.Events(ctx, nil)
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "reading driver controller"))
	} else {
		s.forward = input.AxisValue(drv, r.cfg.ForwardAxis)
		s.turn = input.AxisValue(drv, r.cfg.TurnAxis)
		s.driverOK = true
	}
	return s, errs
}

func (r *Robot) sampleTest(ctx context.Context) (sample, error) {
	var s sample
	ops, err := r.operator.Events(ctx, nil)
	if err != nil {
		return s, errors.Wrap(err, "reading operator controller")
	}
	s.solenoidForward = input.IsPressed(ops, r.cfg.SolenoidForwardButton)
	s.solenoidReverse = input.IsPressed(ops, r.cfg.SolenoidReverseButton)
	s.solenoidOff = input.IsPressed(ops, r.cfg.SolenoidOffButton)
	return s, nil
}

// RobotInit logs the configuration the robot runs with.
func (r *Robot) RobotInit(ctx context.Context) error {
	r.logger.Infow("robot initialized",
		"drive", r.cfg.Drive,
		"landing_gear", r.cfg.LandingGear,
		"gear_pulse", r.cfg.GearPulse,
	)
	return nil
}

// DisabledInit stops everything that moves.
func (r *Robot) DisabledInit(ctx context.Context) error {
	return r.Stop(ctx)
}

// AutonomousInit ends any landing gear pulse and restarts the autonomous timer.
func (r *Robot) AutonomousInit(ctx context.Context) error {
	r.autoTimer.Reset()
	r.autoTimer.Start()
	return r.stopGear(ctx)
}

// AutonomousPeriodic drives forward until the autonomous duration is up, then stops.
func (r *Robot) AutonomousPeriodic(ctx context.Context) error {
	if r.autoTimer.Get() < r.cfg.AutonomousDuration {
		return r.drive.SetPower(ctx, r3.Vector{Y: r.cfg.AutonomousSpeed}, r3.Vector{}, nil)
	}
	return r.drive.Stop(ctx, nil)
}

// TeleopPeriodic runs the landing gear from the operator buttons and drives from the driver axes.
// The landing gear ticks even when a controller cannot be read so a running pulse still expires.
func (r *Robot) TeleopPeriodic(ctx context.Context) error {
	s, err := r.sampleTeleop(ctx)
	err = multierr.Combine(err, r.gearPulse.Tick(ctx, s.extend, s.retract))
	if !s.driverOK {
		return multierr.Combine(err, r.drive.Stop(ctx, nil))
	}
	return multierr.Combine(err, r.drive.SetPower(ctx, r3.Vector{Y: s.forward}, r3.Vector{Z: s.turn}, nil))
}

// TestInit ends any landing gear pulse left over from teleop.
func (r *Robot) TestInit(ctx context.Context) error {
	return r.stopGear(ctx)
}

// TestPeriodic works the valve from the operator buttons. With none of them pressed it flips
// compressor closed loop control to the opposite of whether the compressor is running.
func (r *Robot) TestPeriodic(ctx context.Context) error {
	s, err := r.sampleTest(ctx)
	if err != nil {
		return err
	}
	switch {
	case s.solenoidForward:
		return r.valve.Set(ctx, solenoid.Forward, nil)
	case s.solenoidReverse:
		return r.valve.Set(ctx, solenoid.Reverse, nil)
	case s.solenoidOff:
		return r.valve.Set(ctx, solenoid.Off, nil)
	default:
		enabled, err := r.compressor.Enabled(ctx)
		if err != nil {
			return err
		}
		return r.compressor.SetClosedLoopControl(ctx, !enabled)
	}
}

// Stop stops the drive and the landing gear.
func (r *Robot) Stop(ctx context.Context) error {
	return multierr.Combine(
		r.drive.Stop(ctx, nil),
		r.gearPulse.Stop(ctx),
	)
}

// stopGear stops the landing gear if a pulse is running or a command is outstanding.
func (r *Robot) stopGear(ctx context.Context) error {
	if r.gearPulse.State() == control.Idle && r.gearPulse.Command() == 0 {
		return nil
	}
	return r.gearPulse.Stop(ctx)
}

// GearCommand returns the power last sent to the landing gear.
func (r *Robot) GearCommand() float64 {
	return r.gearPulse.Command()
}
