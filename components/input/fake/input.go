// Package fake implements a fake input controller whose buttons and axes are set by the caller.
package fake

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("fake")

// Config is the config for a fake input controller.
type Config struct {
	// Controls defaults to input.GamepadControls.
	Controls []input.Control `json:"controls,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	for _, c := range conf.Controls {
		if !input.IsKnownControl(c) {
			return nil, errors.Errorf("%s: unknown control %q", path, c)
		}
	}
	return nil, nil
}

func init() {
	resource.RegisterComponent(input.API, model, resource.Registration[input.Controller, *Config]{
		Constructor: func(
			ctx context.Context,
			_ resource.Dependencies,
			conf resource.Config,
			logger logging.Logger,
		) (input.Controller, error) {
			newConf, err := resource.NativeConfig[*Config](conf)
			if err != nil {
				return nil, err
			}
			return NewInputController(conf.ResourceName(), newConf, clock.New(), logger), nil
		},
	})
}

// InputController is a fake input.Controller.
type InputController struct {
	resource.Named
	resource.TriviallyCloseable

	controls  []input.Control
	clk       clock.Clock
	connected *atomic.Bool
	logger    logging.Logger

	mu     sync.Mutex
	events map[input.Control]input.Event
}

// NewInputController returns a connected fake controller with every control released and centered.
func NewInputController(name resource.Name, conf *Config, clk clock.Clock, logger logging.Logger) *InputController {
	controls := conf.Controls
	if len(controls) == 0 {
		controls = input.GamepadControls
	}
	c := &InputController{
		Named:     name.AsNamed(),
		controls:  append([]input.Control{}, controls...),
		clk:       clk,
		connected: atomic.NewBool(true),
		logger:    logger,
		events:    map[input.Control]input.Event{},
	}
	for _, control := range c.controls {
		eventType := input.ButtonRelease
		if input.IsAxis(control) {
			eventType = input.PositionChangeAbs
		}
		c.events[control] = input.Event{Time: clk.Now(), Event: eventType, Control: control}
	}
	return c
}

// Controls lists the inputs of the gamepad.
func (c *InputController) Controls(ctx context.Context, extra map[string]interface{}) ([]input.Control, error) {
	return append([]input.Control{}, c.controls...), nil
}

// Events returns the latest event of every control.
func (c *InputController) Events(ctx context.Context, extra map[string]interface{}) (map[input.Control]input.Event, error) {
	if !c.connected.Load() {
		return nil, errors.Errorf("input controller %s is disconnected", c.Name().ShortName())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[input.Control]input.Event, len(c.events))
	for k, v := range c.events {
		out[k] = v
	}
	return out, nil
}

func (c *InputController) set(control input.Control, eventType input.EventType, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.events[control]; !ok {
		return errors.Errorf("control %q is not provided by %s", control, c.Name().ShortName())
	}
	c.events[control] = input.Event{Time: c.clk.Now(), Event: eventType, Control: control, Value: value}
	return nil
}

// SetButton presses or releases a button.
func (c *InputController) SetButton(control input.Control, pressed bool) error {
	if input.IsAxis(control) {
		return errors.Errorf("control %q is an axis", control)
	}
	if pressed {
		return c.set(control, input.ButtonPress, 1)
	}
	return c.set(control, input.ButtonRelease, 0)
}

// SetAxis moves an axis to a position in [-1, 1].
func (c *InputController) SetAxis(control input.Control, value float64) error {
	if !input.IsAxis(control) {
		return errors.Errorf("control %q is a button", control)
	}
	if value < -1 || value > 1 {
		return errors.Errorf("axis value %v must be between -1 and 1", value)
	}
	return c.set(control, input.PositionChangeAbs, value)
}

// SetConnected simulates unplugging and plugging back in the controller.
func (c *InputController) SetConnected(connected bool) {
	if c.connected.Swap(connected) != connected {
		c.logger.Infow("fake controller connection changed", "connected", connected)
	}
}
