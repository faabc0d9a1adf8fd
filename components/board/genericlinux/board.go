// Package genericlinux implements a board on top of the Linux GPIO character device, by way of
// mkch's gpio package. Pins are named in the config and mapped to a chip and line offset.
package genericlinux

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

// Model is the name used to refer to this board model.
var Model = resource.DefaultModelFamily.WithModel("genericlinux")

const defaultPWMFreqHz = 50

func init() {
	resource.RegisterComponent(
		board.API,
		Model,
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

// closeablePin is a GPIO pin owning an open line.
type closeablePin interface {
	board.GPIOPin
	Close() error
}

// Board implements a component for a Linux machine with GPIO lines.
type Board struct {
	resource.Named

	pins   map[string]closeablePin
	logger logging.Logger

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewBoard creates a board whose pins are the ones named in the config.
func NewBoard(ctx context.Context, conf resource.Config, logger logging.Logger) (*Board, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	freq := newConf.DefaultPWMFreqHz
	if freq == 0 {
		freq = defaultPWMFreqHz
	}

	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	b := &Board{
		Named:      conf.ResourceName().AsNamed(),
		pins:       map[string]closeablePin{},
		logger:     logger,
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	for _, mapping := range newConf.Pins {
		pin, err := newGPIOPin(cancelCtx, mapping, freq, &b.activeBackgroundWorkers, logger.Sublogger(mapping.Name))
		if err != nil {
			return nil, multierr.Combine(err, b.Close(ctx))
		}
		b.pins[mapping.Name] = pin
	}
	return b, nil
}

// GPIOPinByName returns a GPIOPin by name.
func (b *Board) GPIOPinByName(pinName string) (board.GPIOPin, error) {
	pin, ok := b.pins[pinName]
	if !ok {
		return nil, errors.Errorf("cannot find GPIO for unknown pin: %s", pinName)
	}
	return pin, nil
}

// Close stops any software PWM loops and releases every line.
func (b *Board) Close(ctx context.Context) error {
	b.cancelFunc()
	b.activeBackgroundWorkers.Wait()

	var err error
	for _, pin := range b.pins {
		err = multierr.Combine(err, pin.Close())
	}
	return err
}
