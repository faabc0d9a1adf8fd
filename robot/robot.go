// Package robot runs a robot program: a set of per mode hooks called at a fixed period.
package robot

import "context"

// A Robot is a robot program. RobotInit is called once before anything else. When the robot
// enters a mode that mode's Init hook is called, then on every tick the current mode's Periodic
// hook followed by RobotPeriodic.
type Robot interface {
	RobotInit(ctx context.Context) error
	RobotPeriodic(ctx context.Context) error

	DisabledInit(ctx context.Context) error
	DisabledPeriodic(ctx context.Context) error

	AutonomousInit(ctx context.Context) error
	AutonomousPeriodic(ctx context.Context) error

	TeleopInit(ctx context.Context) error
	TeleopPeriodic(ctx context.Context) error

	TestInit(ctx context.Context) error
	TestPeriodic(ctx context.Context) error
}

// Base implements every Robot hook as a no-op. Robots embed it and override what they need.
type Base struct{}

// RobotInit does nothing.
func (Base) RobotInit(ctx context.Context) error { return nil }

// RobotPeriodic does nothing.
func (Base) RobotPeriodic(ctx context.Context) error { return nil }

// DisabledInit does nothing.
func (Base) DisabledInit(ctx context.Context) error { return nil }

// DisabledPeriodic does nothing.
func (Base) DisabledPeriodic(ctx context.Context) error { return nil }

// AutonomousInit does nothing.
func (Base) AutonomousInit(ctx context.Context) error { return nil }

// AutonomousPeriodic does nothing.
func (Base) AutonomousPeriodic(ctx context.Context) error { return nil }

// TeleopInit does nothing.
func (Base) TeleopInit(ctx context.Context) error { return nil }

// TeleopPeriodic does nothing.
func (Base) TeleopPeriodic(ctx context.Context) error { return nil }

// TestInit does nothing.
func (Base) TestInit(ctx context.Context) error { return nil }

// TestPeriodic does nothing.
func (Base) TestPeriodic(ctx context.Context) error { return nil }

func initHook(r Robot, m Mode) func(context.Context) error {
	switch m {
	case Autonomous:
		return r.AutonomousInit
	case Teleop:
		return r.TeleopInit
	case Test:
		return r.TestInit
	case Disabled:
		return r.DisabledInit
	default:
		return r.DisabledInit
	}
}

func periodicHook(r Robot, m Mode) func(context.Context) error {
	switch m {
	case Autonomous:
		return r.AutonomousPeriodic
	case Teleop:
		return r.TeleopPeriodic
	case Test:
		return r.TestPeriodic
	case Disabled:
		return r.DisabledPeriodic
	default:
		return r.DisabledPeriodic
	}
}
