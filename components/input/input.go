// Package input provides human input, such as buttons, switches, knobs and gamepads, as a
// snapshot of the latest event of every control.
package input

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"go.viam.com/timedrobot/resource"
)

// SubtypeName is a constant that identifies the component resource API string "input_controller".
const SubtypeName = "input_controller"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceCore.WithComponentType(SubtypeName)

// Named is a helper for getting the named input's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named input controller from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Controller, error) {
	return resource.FromDependencies[Controller](deps, Named(name))
}

// Controller is a logical "container" more than an actual device. It could be a single gamepad,
// or a collection of digital pins read as buttons.
type Controller interface {
	resource.Resource

	// Controls returns a list of Controls provided by the Controller
	Controls(ctx context.Context, extra map[string]interface{}) ([]Control, error)

	// Events returns most recent Event for each input (which should be the current state)
	Events(ctx context.Context, extra map[string]interface{}) (map[Control]Event, error)
}

// EventType represents the type of input event, and is returned by LastEvent() or passed to
// ControlFunction callbacks.
type EventType string

// EventType list, to be expanded as new input devices are developed.
const (
	// Connect happens when a device first comes online or reconnects.
	Connect EventType = "Connect"
	// Disconnect is sent when a device is detected as no longer present.
	Disconnect EventType = "Disconnect"
	// ButtonPress is typical key press.
	ButtonPress EventType = "ButtonPress"
	// ButtonRelease is typical key release.
	ButtonRelease EventType = "ButtonRelease"
	// ButtonChange is both up and down for normal buttons, but should also be used for
	// continuous-value buttons.
	ButtonChange EventType = "ButtonChange"
	// PositionChangeAbs is absolute position is reported via Value, a la joysticks.
	PositionChangeAbs EventType = "PositionChangeAbs"
)

// Control identifies the input (specific Axis or Button) of a controller.
type Control string

// Controls, to be expanded as new input devices are developed.
const (
	// Axes.
	AbsoluteX     Control = "AbsoluteX"
	AbsoluteY     Control = "AbsoluteY"
	AbsoluteZ     Control = "AbsoluteZ"
	AbsoluteRX    Control = "AbsoluteRX"
	AbsoluteRY    Control = "AbsoluteRY"
	AbsoluteRZ    Control = "AbsoluteRZ"
	AbsoluteHat0X Control = "AbsoluteHat0X"
	AbsoluteHat0Y Control = "AbsoluteHat0Y"

	// Buttons.
	ButtonSouth  Control = "ButtonSouth"
	ButtonEast   Control = "ButtonEast"
	ButtonWest   Control = "ButtonWest"
	ButtonNorth  Control = "ButtonNorth"
	ButtonLT     Control = "ButtonLT"
	ButtonRT     Control = "ButtonRT"
	ButtonLThumb Control = "ButtonLThumb"
	ButtonRThumb Control = "ButtonRThumb"
	ButtonSelect Control = "ButtonSelect"
	ButtonStart  Control = "ButtonStart"
	ButtonMenu   Control = "ButtonMenu"
	ButtonEStop  Control = "ButtonEStop"
)

// GamepadControls are the controls of a typical two stick gamepad.
var GamepadControls = []Control{
	AbsoluteX, AbsoluteY, AbsoluteZ, AbsoluteRX, AbsoluteRY, AbsoluteRZ, AbsoluteHat0X, AbsoluteHat0Y,
	ButtonSouth, ButtonEast, ButtonWest, ButtonNorth, ButtonLT, ButtonRT, ButtonLThumb, ButtonRThumb,
	ButtonSelect, ButtonStart, ButtonMenu,
}

var knownControls = lo.SliceToMap(append(append([]Control{}, GamepadControls...), ButtonEStop),
	func(c Control) (Control, struct{}) { return c, struct{}{} })

// IsKnownControl reports whether the control is one of the named controls.
func IsKnownControl(c Control) bool {
	_, ok := knownControls[c]
	return ok
}

// IsAxis reports whether the control is an axis rather than a button.
func IsAxis(c Control) bool {
	switch c {
	case AbsoluteX, AbsoluteY, AbsoluteZ, AbsoluteRX, AbsoluteRY, AbsoluteRZ, AbsoluteHat0X, AbsoluteHat0Y:
		return true
	case ButtonSouth, ButtonEast, ButtonWest, ButtonNorth, ButtonLT, ButtonRT, ButtonLThumb, ButtonRThumb,
		ButtonSelect, ButtonStart, ButtonMenu, ButtonEStop:
		return false
	default:
		return false
	}
}

// Event is passed to the registered ControlFunction or returned by State().
type Event struct {
	Time    time.Time
	Event   EventType
	Control Control // Key or Axis
	Value   float64 // 0 or 1 for buttons, -1.0 to +1.0 for axes
}

// IsPressed reports whether the latest event of a button says it is held. Missing controls read
// as released.
func IsPressed(events map[Control]Event, control Control) bool {
	ev, ok := events[control]
	return ok && ev.Value >= 0.5
}

// AxisValue returns the latest position of an axis. Missing controls read as centered.
func AxisValue(events map[Control]Event, control Control) float64 {
	ev, ok := events[control]
	if !ok {
		return 0
	}
	return ev.Value
}

// SortedControls returns the keys of an event map in a stable order.
func SortedControls(events map[Control]Event) []Control {
	controls := lo.Keys(events)
	sort.Slice(controls, func(i, j int) bool { return controls[i] < controls[j] })
	return controls
}
