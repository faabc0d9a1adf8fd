// Package gpio implements a double solenoid whose forward and reverse channels are board pins.
package gpio

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/components/solenoid"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("gpio")

// Config is the config for a gpio double solenoid.
type Config struct {
	Board      string `json:"board"`
	ForwardPin string `json:"forward_pin"`
	ReversePin string `json:"reverse_pin"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if cfg.ForwardPin == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "forward_pin")
	}
	if cfg.ReversePin == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "reverse_pin")
	}
	if cfg.ForwardPin == cfg.ReversePin {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("forward_pin and reverse_pin must differ, both are %q", cfg.ForwardPin))
	}
	return []string{cfg.Board}, nil
}

func init() {
	resource.RegisterComponent(solenoid.API, model, resource.Registration[solenoid.DoubleSolenoid, *Config]{
		Constructor: func(
			ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger,
		) (solenoid.DoubleSolenoid, error) {
			newConf, err := resource.NativeConfig[*Config](conf)
			if err != nil {
				return nil, err
			}
			forward, err := board.PinFromDependencies(deps, newConf.Board, newConf.ForwardPin)
			if err != nil {
				return nil, errors.Wrap(err, "forward pin")
			}
			reverse, err := board.PinFromDependencies(deps, newConf.Board, newConf.ReversePin)
			if err != nil {
				return nil, errors.Wrap(err, "reverse pin")
			}
			return NewSolenoid(ctx, conf.ResourceName(), forward, reverse, logger)
		},
	})
}

// Solenoid drives two pins, never both high at the same time.
type Solenoid struct {
	resource.Named

	mu      sync.Mutex
	forward board.GPIOPin
	reverse board.GPIOPin
	logger  logging.Logger
}

// NewSolenoid returns a solenoid over the given pins, starting in the Off position.
func NewSolenoid(
	ctx context.Context,
	name resource.Name,
	forward, reverse board.GPIOPin,
	logger logging.Logger,
) (*Solenoid, error) {
	s := &Solenoid{
		Named:   name.AsNamed(),
		forward: forward,
		reverse: reverse,
		logger:  logger,
	}
	if err := s.Set(ctx, solenoid.Off, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Set moves the valve. The channel being released is always lowered before the other one is raised.
func (s *Solenoid) Set(ctx context.Context, value solenoid.Value, extra map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch value {
	case solenoid.Off:
		return multierr.Combine(
			s.forward.Set(ctx, false, extra),
			s.reverse.Set(ctx, false, extra),
		)
	case solenoid.Forward:
		if err := s.reverse.Set(ctx, false, extra); err != nil {
			return err
		}
		return s.forward.Set(ctx, true, extra)
	case solenoid.Reverse:
		if err := s.forward.Set(ctx, false, extra); err != nil {
			return err
		}
		return s.reverse.Set(ctx, true, extra)
	default:
		return solenoid.NewInvalidValueError(s.Name(), value)
	}
}

// Get reads the position back from the pins.
func (s *Solenoid) Get(ctx context.Context, extra map[string]interface{}) (solenoid.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fwd, err := s.forward.Get(ctx, extra)
	if err != nil {
		return solenoid.Off, err
	}
	rev, err := s.reverse.Get(ctx, extra)
	if err != nil {
		return solenoid.Off, err
	}
	switch {
	case fwd && rev:
		return solenoid.Off, errors.Errorf("solenoid %v has both channels high", s.Name())
	case fwd:
		return solenoid.Forward, nil
	case rev:
		return solenoid.Reverse, nil
	default:
		return solenoid.Off, nil
	}
}

// Close releases both channels.
func (s *Solenoid) Close(ctx context.Context) error {
	return s.Set(ctx, solenoid.Off, nil)
}
