// Package board defines the interfaces that typically live on a single-board computer such as a
// Raspberry Pi or a roboRIO-like controller.
//
// Besides the board itself, these are its GPIO pins. Motors, solenoids, compressors and buttons
// are all wired to pins of a board.
package board

import (
	"context"

	"go.viam.com/timedrobot/resource"
)

// SubtypeName is a constant that identifies the component resource API string "board".
const SubtypeName = "board"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceCore.WithComponentType(SubtypeName)

// Named is a helper for getting the named board's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// A Board represents a physical general purpose board that contains GPIO pins.
type Board interface {
	resource.Resource

	// GPIOPinByName returns a GPIOPin by name.
	GPIOPinByName(name string) (GPIOPin, error)
}

// A GPIOPin represents an individual GPIO pin on a board.
type GPIOPin interface {
	// Set sets the pin to either low or high.
	Set(ctx context.Context, high bool, extra map[string]interface{}) error

	// Get gets the high/low state of the pin.
	Get(ctx context.Context, extra map[string]interface{}) (bool, error)

	// PWM gets the pin's given duty cycle.
	PWM(ctx context.Context, extra map[string]interface{}) (float64, error)

	// SetPWM sets the pin to the given duty cycle.
	SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error

	// PWMFreq gets the PWM frequency of the pin.
	PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error)

	// SetPWMFreq sets the given pin to the given PWM frequency. 0 will use the board's default PWM frequency.
	SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error
}

// FromDependencies is a helper for getting the named board from a collection of dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Board, error) {
	return resource.FromDependencies[Board](deps, Named(name))
}

// PinFromDependencies looks up a board in the dependencies and returns one of its pins.
func PinFromDependencies(deps resource.Dependencies, boardName, pinName string) (GPIOPin, error) {
	b, err := FromDependencies(deps, boardName)
	if err != nil {
		return nil, err
	}
	return b.GPIOPinByName(pinName)
}
