package pwm

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/timedrobot/components/board"
	fakeboard "go.viam.com/timedrobot/components/board/fake"
	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

func setupBoard(t *testing.T) (*fakeboard.Board, resource.Dependencies) {
	t.Helper()
	b, err := fakeboard.NewBoard(context.Background(), resource.Config{
		Name:                "rio",
		API:                 board.API,
		ConvertedAttributes: &fakeboard.Config{},
	}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return b, resource.Dependencies{board.Named("rio"): b}
}

func TestDutyCycle(t *testing.T) {
	cfg := Config{}
	// 50Hz is a 20000us period.
	test.That(t, DutyCycle(cfg, 0), test.ShouldAlmostEqual, 1500.0/20000)
	test.That(t, DutyCycle(cfg, 1), test.ShouldAlmostEqual, 2000.0/20000)
	test.That(t, DutyCycle(cfg, -1), test.ShouldAlmostEqual, 1000.0/20000)
	test.That(t, DutyCycle(cfg, 0.5), test.ShouldAlmostEqual, 1750.0/20000)
	test.That(t, DutyCycle(cfg, -0.5), test.ShouldAlmostEqual, 1250.0/20000)
	test.That(t, DutyCycle(cfg, 4), test.ShouldAlmostEqual, 2000.0/20000)

	asym := Config{FrequencyHz: 200, MinWidthUS: 1000, CenterWidthUS: 1520, MaxWidthUS: 2000}
	test.That(t, DutyCycle(asym, 0), test.ShouldAlmostEqual, 1520.0/5000)
	test.That(t, DutyCycle(asym, 1), test.ShouldAlmostEqual, 2000.0/5000)
	test.That(t, DutyCycle(asym, -1), test.ShouldAlmostEqual, 1000.0/5000)
}

func TestConfigValidate(t *testing.T) {
	deps, err := (&Config{Board: "rio", Pin: "2"}).Validate("path")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldResemble, []string{"rio"})

	_, err = (&Config{Pin: "2"}).Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = (&Config{Board: "rio"}).Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = (&Config{Board: "rio", Pin: "2", FrequencyHz: 1000}).Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = (&Config{Board: "rio", Pin: "2", MinWidthUS: 1600}).Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "min < center < max")
	_, err = (&Config{Board: "rio", Pin: "2", FrequencyHz: 450, MaxWidthUS: 2400}).Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPWMMotor(t *testing.T) {
	ctx := context.Background()
	b, deps := setupBoard(t)

	m, err := NewMotor(ctx, deps, motor.Named("left-front"), &Config{Board: "rio", Pin: "2"}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	pin, err := b.Pin("2")
	test.That(t, err, test.ShouldBeNil)
	freq, err := pin.PWMFreq(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, freq, test.ShouldEqual, 50)
	duty, err := pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldAlmostEqual, 0.075)

	test.That(t, m.SetPower(ctx, 1, nil), test.ShouldBeNil)
	duty, err = pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldAlmostEqual, 0.1)
	powered, pct, err := m.IsPowered(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, powered, test.ShouldBeTrue)
	test.That(t, pct, test.ShouldEqual, 1.0)

	test.That(t, m.Stop(ctx, nil), test.ShouldBeNil)
	duty, err = pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldAlmostEqual, 0.075)
	moving, err := m.IsMoving(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moving, test.ShouldBeFalse)

	test.That(t, m.SetPower(ctx, -0.5, nil), test.ShouldBeNil)
	test.That(t, m.Close(ctx), test.ShouldBeNil)
	duty, err = pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldAlmostEqual, 0.075)
}

func TestPWMMotorDirectionFlip(t *testing.T) {
	ctx := context.Background()
	b, deps := setupBoard(t)

	m, err := NewMotor(ctx, deps, motor.Named("right"), &Config{Board: "rio", Pin: "3", DirectionFlip: true}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.SetPower(ctx, 1, nil), test.ShouldBeNil)

	pin, err := b.Pin("3")
	test.That(t, err, test.ShouldBeNil)
	duty, err := pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldAlmostEqual, 0.05)
	_, pct, err := m.IsPowered(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pct, test.ShouldEqual, -1.0)
}

func TestPWMMotorMissingBoard(t *testing.T) {
	_, err := NewMotor(context.Background(), resource.Dependencies{}, motor.Named("m"),
		&Config{Board: "rio", Pin: "3"}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}
