// Package solenoid defines pneumatic solenoid valves.
package solenoid

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/timedrobot/resource"
)

// SubtypeName is a constant that identifies the component resource API string "solenoid".
const SubtypeName = "solenoid"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceCore.WithComponentType(SubtypeName)

// Named is a helper for getting the named solenoid's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named solenoid from a collection of dependencies.
func FromDependencies(deps resource.Dependencies, name string) (DoubleSolenoid, error) {
	return resource.FromDependencies[DoubleSolenoid](deps, Named(name))
}

// Value is the position of a double solenoid.
type Value int

// The positions of a double solenoid.
const (
	Off Value = iota
	Forward
	Reverse
)

func (v Value) String() string {
	switch v {
	case Off:
		return "off"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// ParseValue parses a solenoid position name, case-insensitive.
func ParseValue(s string) (Value, error) {
	switch strings.ToLower(s) {
	case "off":
		return Off, nil
	case "forward":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	}
	return Off, errors.Errorf("unknown solenoid value %q", s)
}

// A DoubleSolenoid drives a valve with a forward and a reverse channel.
type DoubleSolenoid interface {
	resource.Resource

	// Set moves the valve to the given position.
	Set(ctx context.Context, value Value, extra map[string]interface{}) error

	// Get returns the position the valve is in.
	Get(ctx context.Context, extra map[string]interface{}) (Value, error)
}

// NewInvalidValueError is returned when asked to set a value that is not a solenoid position.
func NewInvalidValueError(name resource.Name, value Value) error {
	return errors.Errorf("solenoid %v: invalid value %d", name, value)
}

// Valid reports whether the value is one of the solenoid positions.
func (v Value) Valid() bool {
	return v == Off || v == Forward || v == Reverse
}
