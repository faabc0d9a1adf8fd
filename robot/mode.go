package robot

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode is the operating mode of a robot.
type Mode int

// The robot modes. A robot starts out Disabled.
const (
	Disabled Mode = iota
	Autonomous
	Teleop
	Test
)

// Modes lists every mode.
var Modes = []Mode{Disabled, Autonomous, Teleop, Test}

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Autonomous:
		return "autonomous"
	case Teleop:
		return "teleop"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name, case-insensitive.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return Disabled, errors.Errorf("unknown robot mode %q", s)
}

// Enabled reports whether actuators may move in this mode.
func (m Mode) Enabled() bool {
	return m != Disabled
}
