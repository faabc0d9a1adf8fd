package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/timedrobot/components/input"
	fakeinput "go.viam.com/timedrobot/components/input/fake"
	"go.viam.com/timedrobot/components/motor"
	fakemotor "go.viam.com/timedrobot/components/motor/fake"
	"go.viam.com/timedrobot/config"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/robot"
)

func TestModeSource(t *testing.T) {
	clk := clock.NewMock()

	modes, match, err := modeSource(config.RobotConfig{}, clk)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, match, test.ShouldBeNil)
	test.That(t, modes.Mode(), test.ShouldEqual, robot.Disabled)

	modes, match, err = modeSource(config.RobotConfig{Mode: "Test"}, clk)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, match, test.ShouldBeNil)
	test.That(t, modes.Mode(), test.ShouldEqual, robot.Test)

	modes, match, err = modeSource(config.RobotConfig{Mode: config.ModeMatch, AutonomousSec: 1, TeleopSec: 2}, clk)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, match, test.ShouldNotBeNil)
	test.That(t, modes.Mode(), test.ShouldEqual, robot.Disabled)
	match.Start()
	test.That(t, modes.Mode(), test.ShouldEqual, robot.Autonomous)
	clk.Add(1500 * time.Millisecond)
	test.That(t, modes.Mode(), test.ShouldEqual, robot.Teleop)

	_, _, err = modeSource(config.RobotConfig{Mode: "practice"}, clk)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestProgramTeleop(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	cfg, err := config.Read(filepath.Join("..", "..", "etc", "configs", "fake.json"), logger)
	test.That(t, err, test.ShouldBeNil)
	cfg.Robot.Mode = robot.Teleop.String()

	clk := clock.NewMock()
	prog, err := newProgram(ctx, cfg, clk, logger)
	test.That(t, err, test.ShouldBeNil)

	deps := prog.resources.Dependencies()
	operator, err := input.FromDependencies(deps, "operator")
	test.That(t, err, test.ShouldBeNil)
	fakeOperator, ok := operator.(*fakeinput.InputController)
	test.That(t, ok, test.ShouldBeTrue)
	gearMotor, err := motor.FromDependencies(deps, "gear-a")
	test.That(t, err, test.ShouldBeNil)
	fakeGear, ok := gearMotor.(*fakemotor.Motor)
	test.That(t, ok, test.ShouldBeTrue)

	test.That(t, fakeOperator.SetButton(input.ButtonLT, true), test.ShouldBeNil)
	prog.runner.Step(ctx)
	test.That(t, fakeGear.PowerPct(), test.ShouldEqual, 1.0)

	test.That(t, fakeOperator.SetButton(input.ButtonLT, false), test.ShouldBeNil)
	clk.Add(100 * time.Millisecond)
	prog.runner.Step(ctx)
	test.That(t, fakeGear.PowerPct(), test.ShouldEqual, 1.0)

	clk.Add(200 * time.Millisecond)
	prog.runner.Step(ctx)
	test.That(t, fakeGear.PowerPct(), test.ShouldEqual, 0.0)

	test.That(t, prog.Close(ctx), test.ShouldBeNil)
	test.That(t, fakeGear.Closed(), test.ShouldBeTrue)
}

func TestNewProgramErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	cfg, err := config.Read(filepath.Join("..", "..", "etc", "configs", "fake.json"), logger)
	test.That(t, err, test.ShouldBeNil)

	cfg.Robot.Attributes = map[string]interface{}{"gear_power": 2.0}
	_, err = newProgram(ctx, cfg, clock.NewMock(), logger)
	test.That(t, err, test.ShouldNotBeNil)

	cfg.Robot.Attributes = map[string]interface{}{"solenoid": "missing"}
	_, err = newProgram(ctx, cfg, clock.NewMock(), logger)
	test.That(t, err, test.ShouldNotBeNil)
}
