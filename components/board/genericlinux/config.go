package genericlinux

import (
	"fmt"

	"github.com/pkg/errors"
)

// A Config describes the configuration of a board and all of its connected pins.
type Config struct {
	Pins []GPIOBoardMapping `json:"pins"`
	// DefaultPWMFreqHz is used when a pin is asked for a PWM frequency of 0.
	DefaultPWMFreqHz uint `json:"default_pwm_freq_hz,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	seen := map[string]struct{}{}
	for idx, c := range conf.Pins {
		if err := c.Validate(fmt.Sprintf("%s.%s.%d", path, "pins", idx)); err != nil {
			return nil, err
		}
		if _, ok := seen[c.Name]; ok {
			return nil, errors.Errorf("%s.pins.%d: duplicate pin name %q", path, idx, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil, nil
}
