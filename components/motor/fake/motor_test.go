package fake

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/test"

	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

func TestMotorPower(t *testing.T) {
	ctx := context.Background()
	m, err := NewMotor(resource.Config{Name: "m", API: motor.API}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Name(), test.ShouldResemble, motor.Named("m"))

	powered, pct, err := m.IsPowered(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, powered, test.ShouldBeFalse)
	test.That(t, pct, test.ShouldEqual, 0.0)

	test.That(t, m.SetPower(ctx, 0.5, nil), test.ShouldBeNil)
	powered, pct, err = m.IsPowered(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, powered, test.ShouldBeTrue)
	test.That(t, pct, test.ShouldEqual, 0.5)
	moving, err := m.IsMoving(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moving, test.ShouldBeTrue)

	test.That(t, m.SetPower(ctx, 3, nil), test.ShouldBeNil)
	test.That(t, m.PowerPct(), test.ShouldEqual, 1.0)

	test.That(t, m.Stop(ctx, nil), test.ShouldBeNil)
	test.That(t, m.PowerPct(), test.ShouldEqual, 0.0)
	test.That(t, m.History(), test.ShouldResemble, []float64{0.5, 1, 0})

	test.That(t, m.Close(ctx), test.ShouldBeNil)
	test.That(t, m.Closed(), test.ShouldBeTrue)
}

func TestMotorDirectionFlip(t *testing.T) {
	ctx := context.Background()
	m, err := NewMotor(resource.Config{
		Name:                "m",
		API:                 motor.API,
		ConvertedAttributes: &Config{DirectionFlip: true},
	}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.SetPower(ctx, 0.25, nil), test.ShouldBeNil)
	test.That(t, m.PowerPct(), test.ShouldEqual, -0.25)
}

func TestMotorError(t *testing.T) {
	ctx := context.Background()
	m, err := NewMotor(resource.Config{Name: "m", API: motor.API}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	m.SetError(errors.New("can bus fault"))
	test.That(t, m.SetPower(ctx, 1, nil), test.ShouldNotBeNil)
	test.That(t, m.Stop(ctx, nil), test.ShouldNotBeNil)
	test.That(t, m.History(), test.ShouldBeEmpty)

	m.SetError(nil)
	test.That(t, m.SetPower(ctx, 1, nil), test.ShouldBeNil)
}
