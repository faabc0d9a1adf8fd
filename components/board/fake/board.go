// Package fake implements a fake board whose pins read back the values written to them.
package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

// A Config describes the configuration of a fake board.
type Config struct {
	// Pins are created up front. Any other pin is created the first time it is asked for.
	Pins []string `json:"pins,omitempty"`
	// StrictPins makes asking for a pin that is not in Pins an error.
	StrictPins bool `json:"strict_pins,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, pin := range conf.Pins {
		if pin == "" {
			return nil, errors.Errorf("%s: pin names cannot be empty", path)
		}
		if _, ok := seen[pin]; ok {
			return nil, errors.Errorf("%s: duplicate pin %q", path, pin)
		}
		seen[pin] = struct{}{}
	}
	return nil, nil
}

var model = resource.DefaultModelFamily.WithModel("fake")

func init() {
	resource.RegisterComponent(
		board.API,
		model,
		resource.Registration[board.Board, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger logging.Logger,
			) (board.Board, error) {
				return NewBoard(ctx, conf, logger)
			},
		})
}

// NewBoard returns a new fake board.
func NewBoard(ctx context.Context, conf resource.Config, logger logging.Logger) (*Board, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	b := &Board{
		Named:      conf.ResourceName().AsNamed(),
		GPIOPins:   map[string]*GPIOPin{},
		strictPins: newConf.StrictPins,
		logger:     logger,
	}
	for _, name := range newConf.Pins {
		b.GPIOPins[name] = &GPIOPin{}
	}
	return b, nil
}

// A Board provides dummy pins in order to implement a Board.
type Board struct {
	resource.Named

	mu         sync.Mutex
	GPIOPins   map[string]*GPIOPin
	strictPins bool
	logger     logging.Logger
	CloseCount int
}

// GPIOPinByName returns the GPIO pin by the given name, creating it if needed.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	return b.Pin(name)
}

// Pin is GPIOPinByName returning the concrete fake pin, for tests that drive inputs.
func (b *Board) Pin(name string) (*GPIOPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.GPIOPins[name]
	if ok {
		return p, nil
	}
	if b.strictPins {
		return nil, errors.Errorf("can't find GPIOPin (%s)", name)
	}
	p = &GPIOPin{}
	b.GPIOPins[name] = p
	return p, nil
}

// Close counts how many times the board was closed.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}

// A GPIOPin reads back the same set values.
type GPIOPin struct {
	high    bool
	pwm     float64
	pwmFreq uint
	// Writes counts calls to Set and SetPWM.
	Writes int

	mu sync.Mutex
}

// Set sets the pin to either low or high.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.high = high
	gp.pwm = 0
	gp.Writes++
	return nil
}

// Get gets the high/low state of the pin.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.high, nil
}

// PWM gets the pin's given duty cycle.
func (gp *GPIOPin) PWM(ctx context.Context, extra map[string]interface{}) (float64, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.pwm, nil
}

// SetPWM sets the pin to the given duty cycle.
func (gp *GPIOPin) SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	if dutyCyclePct < 0 || dutyCyclePct > 1 {
		return errors.Errorf("duty cycle %v must be between 0 and 1", dutyCyclePct)
	}
	gp.pwm = dutyCyclePct
	gp.Writes++
	return nil
}

// PWMFreq gets the PWM frequency of the pin.
func (gp *GPIOPin) PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.pwmFreq, nil
}

// SetPWMFreq sets the given pin to the given PWM frequency.
func (gp *GPIOPin) SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.pwmFreq = freqHz
	return nil
}

// WriteCount returns how many times the pin was written.
func (gp *GPIOPin) WriteCount() int {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return gp.Writes
}
