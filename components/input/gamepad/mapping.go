//go:build linux

package gamepad

import (
	"time"

	"github.com/viamrobotics/evdev"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/utils"
)

// Mapping translates evdev codes of one gamepad model to controls.
type Mapping struct {
	Buttons map[evdev.KeyType]input.Control
	Axes    map[evdev.AbsoluteType]input.Control
}

var xboxMapping = Mapping{
	Buttons: map[evdev.KeyType]input.Control{
		evdev.BtnA:      input.ButtonSouth,
		evdev.BtnB:      input.ButtonEast,
		evdev.BtnX:      input.ButtonWest,
		evdev.BtnY:      input.ButtonNorth,
		evdev.BtnTL:     input.ButtonLT,
		evdev.BtnTR:     input.ButtonRT,
		evdev.BtnThumbL: input.ButtonLThumb,
		evdev.BtnThumbR: input.ButtonRThumb,
		evdev.BtnSelect: input.ButtonSelect,
		evdev.BtnStart:  input.ButtonStart,
		evdev.BtnMode:   input.ButtonMenu,
	},
	Axes: map[evdev.AbsoluteType]input.Control{
		evdev.AbsoluteX:     input.AbsoluteX,
		evdev.AbsoluteY:     input.AbsoluteY,
		evdev.AbsoluteZ:     input.AbsoluteZ,
		evdev.AbsoluteRX:    input.AbsoluteRX,
		evdev.AbsoluteRY:    input.AbsoluteRY,
		evdev.AbsoluteRZ:    input.AbsoluteRZ,
		evdev.AbsoluteHat0X: input.AbsoluteHat0X,
		evdev.AbsoluteHat0Y: input.AbsoluteHat0Y,
	},
}

var dualShockMapping = Mapping{
	Buttons: map[evdev.KeyType]input.Control{
		evdev.BtnA:      input.ButtonSouth,
		evdev.BtnB:      input.ButtonEast,
		evdev.BtnX:      input.ButtonNorth,
		evdev.BtnY:      input.ButtonWest,
		evdev.BtnTL:     input.ButtonLT,
		evdev.BtnTR:     input.ButtonRT,
		evdev.BtnThumbL: input.ButtonLThumb,
		evdev.BtnThumbR: input.ButtonRThumb,
		evdev.BtnSelect: input.ButtonSelect,
		evdev.BtnStart:  input.ButtonStart,
		evdev.BtnMode:   input.ButtonMenu,
	},
	Axes: xboxMapping.Axes,
}

// MappingForModel maps evdev device names to their mapping.
var MappingForModel = map[string]Mapping{
	"Microsoft X-Box 360 pad":                            xboxMapping,
	"Microsoft X-Box One S pad":                          xboxMapping,
	"Xbox Wireless Controller":                           xboxMapping,
	"Logitech Gamepad F310":                              xboxMapping,
	"Logitech Gamepad F710":                              xboxMapping,
	"Generic X-Box pad":                                  xboxMapping,
	"Sony Interactive Entertainment Wireless Controller": dualShockMapping,
}

// Controls lists the mapped controls in input.GamepadControls order.
func (m Mapping) Controls() []input.Control {
	mapped := map[input.Control]bool{}
	for _, c := range m.Buttons {
		mapped[c] = true
	}
	for _, c := range m.Axes {
		mapped[c] = true
	}
	out := make([]input.Control, 0, len(mapped))
	for _, c := range input.GamepadControls {
		if mapped[c] {
			out = append(out, c)
		}
	}
	return out
}

// Translate turns a raw evdev event into a control event. Axis values are scaled from the
// device's reported range to [-1, 1]. ok is false for events with no mapped control.
func (m Mapping) Translate(
	ev evdev.Event,
	axes map[evdev.AbsoluteType]evdev.Axis,
	now time.Time,
) (out input.Event, ok bool) {
	switch ev.Type {
	case evdev.EventAbsolute:
		code := evdev.AbsoluteType(ev.Code)
		control, ok := m.Axes[code]
		if !ok {
			return input.Event{}, false
		}
		info, ok := axes[code]
		if !ok {
			return input.Event{}, false
		}
		return input.Event{
			Time:    now,
			Event:   input.PositionChangeAbs,
			Control: control,
			Value:   scaleAxis(ev.Value, info.Min, info.Max),
		}, true
	case evdev.EventKey:
		control, ok := m.Buttons[evdev.KeyType(ev.Code)]
		if !ok {
			return input.Event{}, false
		}
		// 2 is autorepeat, still held
		if ev.Value == 0 {
			return input.Event{Time: now, Event: input.ButtonRelease, Control: control, Value: 0}, true
		}
		return input.Event{Time: now, Event: input.ButtonPress, Control: control, Value: 1}, true
	default:
		return input.Event{}, false
	}
}

func scaleAxis(x, inMin, inMax int32) float64 {
	if inMax <= inMin {
		return 0
	}
	scaled := float64(x-inMin)*2/float64(inMax-inMin) - 1
	return utils.Clamp(scaled, -1, 1)
}
