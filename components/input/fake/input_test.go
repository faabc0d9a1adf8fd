package fake

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/logging"
)

func TestFakeInputController(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	c := NewInputController(input.Named("driver"), &Config{}, clk, logging.NewTestLogger(t))

	controls, err := c.Controls(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, controls, test.ShouldResemble, input.GamepadControls)

	events, err := c.Events(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, events, test.ShouldHaveLength, len(input.GamepadControls))
	test.That(t, input.IsPressed(events, input.ButtonLT), test.ShouldBeFalse)
	test.That(t, events[input.AbsoluteY].Event, test.ShouldEqual, input.PositionChangeAbs)

	clk.Add(time.Second)
	test.That(t, c.SetButton(input.ButtonLT, true), test.ShouldBeNil)
	test.That(t, c.SetAxis(input.AbsoluteY, -0.5), test.ShouldBeNil)
	events, err = c.Events(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, input.IsPressed(events, input.ButtonLT), test.ShouldBeTrue)
	test.That(t, events[input.ButtonLT].Event, test.ShouldEqual, input.ButtonPress)
	test.That(t, events[input.ButtonLT].Time, test.ShouldResemble, clk.Now())
	test.That(t, input.AxisValue(events, input.AbsoluteY), test.ShouldEqual, -0.5)

	test.That(t, c.SetButton(input.ButtonLT, false), test.ShouldBeNil)
	events, err = c.Events(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, events[input.ButtonLT].Event, test.ShouldEqual, input.ButtonRelease)

	test.That(t, c.SetButton(input.AbsoluteY, true), test.ShouldNotBeNil)
	test.That(t, c.SetAxis(input.ButtonLT, 1), test.ShouldNotBeNil)
	test.That(t, c.SetAxis(input.AbsoluteY, 2), test.ShouldNotBeNil)
}

func TestFakeInputControllerSubset(t *testing.T) {
	c := NewInputController(input.Named("operator"),
		&Config{Controls: []input.Control{input.ButtonWest}}, clock.NewMock(), logging.NewTestLogger(t))
	test.That(t, c.SetButton(input.ButtonWest, true), test.ShouldBeNil)
	test.That(t, c.SetButton(input.ButtonNorth, true), test.ShouldNotBeNil)

	_, err := (&Config{Controls: []input.Control{"ButtonTurbo"}}).Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFakeInputControllerDisconnect(t *testing.T) {
	ctx := context.Background()
	c := NewInputController(input.Named("driver"), &Config{}, clock.NewMock(), logging.NewTestLogger(t))
	c.SetConnected(false)
	_, err := c.Events(ctx, nil)
	test.That(t, err, test.ShouldNotBeNil)
	c.SetConnected(true)
	_, err = c.Events(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
}
