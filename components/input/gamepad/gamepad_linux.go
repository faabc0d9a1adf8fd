//go:build linux

package gamepad

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/viamrobotics/evdev"
	"go.uber.org/atomic"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
	"go.viam.com/timedrobot/utils"
)

// Controller is an input.Controller fed by an evdev device.
type Controller struct {
	resource.Named

	clk       clock.Clock
	logger    logging.Logger
	mapping   Mapping
	axes      map[evdev.AbsoluteType]evdev.Axis
	dev       *evdev.Evdev
	workers   utils.StoppableWorkers
	connected *atomic.Bool

	mu     sync.Mutex
	events map[input.Control]input.Event
}

func newController(
	ctx context.Context,
	name resource.Name,
	conf *Config,
	clk clock.Clock,
	logger logging.Logger,
) (input.Controller, error) {
	dev, mapping, err := openDevice(conf.DevFile, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "gamepad %s", name.ShortName())
	}
	logger.Infow("found gamepad", "name", dev.Name(), "dev_file", conf.DevFile)
	c := newFromMapping(name, mapping, dev.AbsoluteTypes(), clk, logger)
	c.dev = dev
	c.workers = utils.NewStoppableWorkers(func(ctx context.Context) {
		c.dispatch(ctx, dev.Poll(ctx))
	})
	return c, nil
}

func openDevice(devFile string, logger logging.Logger) (*evdev.Evdev, Mapping, error) {
	if devFile != "" {
		dev, err := evdev.OpenFile(devFile)
		if err != nil {
			return nil, Mapping{}, err
		}
		name := strings.TrimSpace(dev.Name())
		mapping, ok := MappingForModel[name]
		if !ok {
			logger.Warnw("no mapping for gamepad, using the X-Box layout", "name", name)
			mapping = xboxMapping
		}
		return dev, mapping, nil
	}

	devs, err := filepath.Glob(inputDevGlob)
	if err != nil {
		return nil, Mapping{}, err
	}
	for _, path := range devs {
		dev, err := evdev.OpenFile(path)
		if err != nil {
			logger.Debugw("skipping input device", "path", path, "error", err)
			continue
		}
		if mapping, ok := MappingForModel[strings.TrimSpace(dev.Name())]; ok {
			return dev, mapping, nil
		}
		if err := dev.Close(); err != nil {
			logger.Debugw("closing input device", "path", path, "error", err)
		}
	}
	return nil, Mapping{}, errors.New("no gamepad with a known mapping found")
}

// newFromMapping returns a connected controller with every control released and centered. axes
// holds the reported range of each absolute axis.
func newFromMapping(
	name resource.Name,
	mapping Mapping,
	axes map[evdev.AbsoluteType]evdev.Axis,
	clk clock.Clock,
	logger logging.Logger,
) *Controller {
	c := &Controller{
		Named:     name.AsNamed(),
		clk:       clk,
		logger:    logger,
		mapping:   mapping,
		axes:      axes,
		connected: atomic.NewBool(true),
		events:    map[input.Control]input.Event{},
	}
	now := clk.Now()
	for _, control := range mapping.Controls() {
		eventType := input.ButtonRelease
		if input.IsAxis(control) {
			eventType = input.PositionChangeAbs
		}
		c.events[control] = input.Event{Time: now, Event: eventType, Control: control}
	}
	return c
}

// dispatch applies device events until the channel closes. A close that was not asked for means
// the device went away.
func (c *Controller) dispatch(ctx context.Context, evChan <-chan *evdev.EventEnvelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-evChan:
			if !ok {
				if ctx.Err() == nil {
					c.connected.Store(false)
					c.logger.Errorw("gamepad disconnected", "name", c.Name().ShortName())
				}
				return
			}
			if env == nil {
				continue
			}
			c.apply(env.Event)
		}
	}
}

func (c *Controller) apply(ev evdev.Event) {
	out, ok := c.mapping.Translate(ev, c.axes, c.clk.Now())
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[out.Control] = out
}

// Controls lists the mapped inputs of the gamepad.
func (c *Controller) Controls(ctx context.Context, extra map[string]interface{}) ([]input.Control, error) {
	return c.mapping.Controls(), nil
}

// Events returns the latest event of every control.
func (c *Controller) Events(ctx context.Context, extra map[string]interface{}) (map[input.Control]input.Event, error) {
	if !c.connected.Load() {
		return nil, errors.Errorf("gamepad %s is disconnected", c.Name().ShortName())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[input.Control]input.Event, len(c.events))
	for k, v := range c.events {
		out[k] = v
	}
	return out, nil
}

// Close stops the reader and closes the device.
func (c *Controller) Close(ctx context.Context) error {
	if c.workers != nil {
		c.workers.Stop()
	}
	c.mu.Lock()
	dev := c.dev
	c.dev = nil
	c.mu.Unlock()
	if dev == nil {
		return nil
	}
	return dev.Close()
}
