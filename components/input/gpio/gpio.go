// Package gpio implements a gpio/adc based input.Controller. Buttons are board pins read once per
// call to Events. A change is reported on the first sample that sees it; further changes within the
// debounce window are held off until the window ends.
package gpio

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("gpio")

const defaultDebounceMs = 5

// Config is the overall config.
type Config struct {
	Board   string                   `json:"board"`
	Buttons map[string]*ButtonConfig `json:"buttons"`
}

// ButtonConfig is the config for a single button, keyed by its pin name.
type ButtonConfig struct {
	Control input.Control `json:"control"`
	Invert  bool          `json:"invert,omitempty"`
	// DebounceMs is the minimum time between two reported changes. 0 uses the default, negative
	// disables debouncing.
	DebounceMs int `json:"debounce_ms,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if len(conf.Buttons) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "buttons")
	}
	controls := map[input.Control]string{}
	for pin, button := range conf.Buttons {
		if button == nil || button.Control == "" {
			return nil, goutils.NewConfigValidationError(path, errors.Errorf("button on pin %q needs a control", pin))
		}
		if input.IsAxis(button.Control) || !input.IsKnownControl(button.Control) {
			return nil, goutils.NewConfigValidationError(path, errors.Errorf("%q is not a button control", button.Control))
		}
		if other, ok := controls[button.Control]; ok {
			return nil, goutils.NewConfigValidationError(path,
				errors.Errorf("control %q is used by both pin %q and pin %q", button.Control, other, pin))
		}
		controls[button.Control] = pin
	}
	return []string{conf.Board}, nil
}

func init() {
	resource.RegisterComponent(input.API, model, resource.Registration[input.Controller, *Config]{
		Constructor: func(
			ctx context.Context,
			deps resource.Dependencies,
			conf resource.Config,
			logger logging.Logger,
		) (input.Controller, error) {
			newConf, err := resource.NativeConfig[*Config](conf)
			if err != nil {
				return nil, err
			}
			return NewGPIOController(deps, conf.ResourceName(), newConf, clock.New(), logger)
		},
	})
}

type button struct {
	pin      board.GPIOPin
	control  input.Control
	invert   bool
	debounce time.Duration

	event input.Event
}

// Controller is an input.Controller built from board pins.
type Controller struct {
	resource.Named
	resource.TriviallyCloseable

	clk    clock.Clock
	logger logging.Logger

	mu      sync.Mutex
	buttons []*button
}

// NewGPIOController returns a controller reading the configured pins of a board.
func NewGPIOController(
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Controller, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, err
	}

	pinNames := make([]string, 0, len(conf.Buttons))
	for pinName := range conf.Buttons {
		pinNames = append(pinNames, pinName)
	}
	sort.Strings(pinNames)

	c := &Controller{Named: name.AsNamed(), clk: clk, logger: logger}
	now := clk.Now()
	for _, pinName := range pinNames {
		cfg := conf.Buttons[pinName]
		pin, err := b.GPIOPinByName(pinName)
		if err != nil {
			return nil, errors.Wrapf(err, "button %s", cfg.Control)
		}
		debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
		switch {
		case cfg.DebounceMs == 0:
			debounce = defaultDebounceMs * time.Millisecond
		case cfg.DebounceMs < 0:
			debounce = 0
		}
		// the initial release is backdated so the first edge is never held off
		c.buttons = append(c.buttons, &button{
			pin:      pin,
			control:  cfg.Control,
			invert:   cfg.Invert,
			debounce: debounce,
			event:    input.Event{Time: now.Add(-debounce), Event: input.ButtonRelease, Control: cfg.Control},
		})
	}
	return c, nil
}

// Controls lists the configured buttons.
func (c *Controller) Controls(ctx context.Context, extra map[string]interface{}) ([]input.Control, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]input.Control, 0, len(c.buttons))
	for _, b := range c.buttons {
		out = append(out, b.control)
	}
	return out, nil
}

// Events samples every pin and returns the debounced state of each button.
func (c *Controller) Events(ctx context.Context, extra map[string]interface{}) (map[input.Control]input.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now()
	out := make(map[input.Control]input.Event, len(c.buttons))
	for _, b := range c.buttons {
		if err := c.sample(ctx, b, now); err != nil {
			return nil, err
		}
		out[b.control] = b.event
	}
	return out, nil
}

func (c *Controller) sample(ctx context.Context, b *button, now time.Time) error {
	high, err := b.pin.Get(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "reading button %s", b.control)
	}
	pressed := high != b.invert
	reported := b.event.Value == 1
	if pressed == reported || now.Sub(b.event.Time) < b.debounce {
		return nil
	}
	if pressed {
		b.event = input.Event{Time: now, Event: input.ButtonPress, Control: b.control, Value: 1}
	} else {
		b.event = input.Event{Time: now, Event: input.ButtonRelease, Control: b.control, Value: 0}
	}
	c.logger.Debugw("button changed", "control", b.control, "event", b.event.Event)
	return nil
}
