package input

import (
	"testing"

	"go.viam.com/test"
)

func TestEventHelpers(t *testing.T) {
	events := map[Control]Event{
		ButtonLT:  {Event: ButtonPress, Control: ButtonLT, Value: 1},
		ButtonRT:  {Event: ButtonRelease, Control: ButtonRT, Value: 0},
		AbsoluteY: {Event: PositionChangeAbs, Control: AbsoluteY, Value: -0.75},
	}
	test.That(t, IsPressed(events, ButtonLT), test.ShouldBeTrue)
	test.That(t, IsPressed(events, ButtonRT), test.ShouldBeFalse)
	test.That(t, IsPressed(events, ButtonNorth), test.ShouldBeFalse)
	test.That(t, AxisValue(events, AbsoluteY), test.ShouldEqual, -0.75)
	test.That(t, AxisValue(events, AbsoluteRX), test.ShouldEqual, 0.0)
	test.That(t, SortedControls(events), test.ShouldResemble, []Control{AbsoluteY, ButtonLT, ButtonRT})
}

func TestControlKinds(t *testing.T) {
	test.That(t, IsAxis(AbsoluteRX), test.ShouldBeTrue)
	test.That(t, IsAxis(ButtonWest), test.ShouldBeFalse)
	test.That(t, IsKnownControl(ButtonEStop), test.ShouldBeTrue)
	test.That(t, IsKnownControl(Control("ButtonTurbo")), test.ShouldBeFalse)
}
