package genericlinux

import (
	"fmt"

	"github.com/pkg/errors"
)

// DefaultGPIOChipDev is the character device used when a pin names no chip.
const DefaultGPIOChipDev = "/dev/gpiochip0"

// GPIOBoardMapping represents a GPIO pin's location locally within a GPIO chip.
type GPIOBoardMapping struct {
	Name        string `json:"name"`
	GPIOChipDev string `json:"chip,omitempty"`
	GPIO        int    `json:"line"`
	// Input pins are opened for reading (buttons, pressure switches). All others are outputs.
	Input bool `json:"input,omitempty"`
}

// Validate ensures all parts of the mapping are valid.
func (m *GPIOBoardMapping) Validate(path string) error {
	if m.Name == "" {
		return errors.Errorf("%s: name is required", path)
	}
	if m.GPIO < 0 {
		return errors.Errorf("%s: line must not be negative, got %d", path, m.GPIO)
	}
	return nil
}

func (m GPIOBoardMapping) chipDev() string {
	if m.GPIOChipDev == "" {
		return DefaultGPIOChipDev
	}
	return m.GPIOChipDev
}

func (m GPIOBoardMapping) String() string {
	return fmt.Sprintf("%s(%s:%d)", m.Name, m.chipDev(), m.GPIO)
}
