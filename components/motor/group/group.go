// Package group implements a motor made of several motors that always receive the same command,
// such as two speed controllers driving one gearbox.
package group

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("group")

// Config describes the configuration of a motor group.
type Config struct {
	Motors []string `json:"motors"`
	// Inverted negates every command before it is fanned out.
	Inverted bool `json:"inverted,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if len(cfg.Motors) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "motors")
	}
	seen := map[string]struct{}{}
	for _, name := range cfg.Motors {
		if name == "" {
			return nil, goutils.NewConfigValidationError(path, errors.New("motor names cannot be empty"))
		}
		if _, ok := seen[name]; ok {
			return nil, goutils.NewConfigValidationError(path, errors.Errorf("motor %q listed twice", name))
		}
		seen[name] = struct{}{}
	}
	return cfg.Motors, nil
}

func init() {
	resource.RegisterComponent(motor.API, model, resource.Registration[motor.Motor, *Config]{
		Constructor: func(
			ctx context.Context,
			deps resource.Dependencies,
			conf resource.Config,
			logger logging.Logger,
		) (motor.Motor, error) {
			newConf, err := resource.NativeConfig[*Config](conf)
			if err != nil {
				return nil, err
			}
			motors := make([]motor.Motor, 0, len(newConf.Motors))
			for _, name := range newConf.Motors {
				m, err := motor.FromDependencies(deps, name)
				if err != nil {
					return nil, err
				}
				motors = append(motors, m)
			}
			return NewGroup(conf.ResourceName(), motors, newConf.Inverted, logger)
		},
	})
}

// Group fans every command out to its motors.
type Group struct {
	resource.Named
	resource.TriviallyCloseable

	motors   []motor.Motor
	inverted bool
	logger   logging.Logger

	mu       sync.Mutex
	powerPct float64
}

// NewGroup returns a group over the given motors. The group does not own them, so closing it
// leaves them open.
func NewGroup(name resource.Name, motors []motor.Motor, inverted bool, logger logging.Logger) (*Group, error) {
	if len(motors) == 0 {
		return nil, motor.NewEmptyGroupError(name.ShortName())
	}
	return &Group{
		Named:    name.AsNamed(),
		motors:   motors,
		inverted: inverted,
		logger:   logger,
	}, nil
}

// SetPower sets every motor of the group to the same power. Every motor is commanded even if an
// earlier one fails.
func (g *Group) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	powerPct = motor.ClampPower(powerPct)
	if g.inverted {
		powerPct *= -1
	}
	var err error
	for _, m := range g.motors {
		err = multierr.Combine(err, m.SetPower(ctx, powerPct, extra))
	}
	g.powerPct = powerPct
	return err
}

// Stop stops every motor of the group.
func (g *Group) Stop(ctx context.Context, extra map[string]interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var err error
	for _, m := range g.motors {
		err = multierr.Combine(err, m.Stop(ctx, extra))
	}
	g.powerPct = 0
	return err
}

// IsPowered returns whether the last command was non-zero, and that command.
func (g *Group) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.powerPct != 0, g.powerPct, nil
}

// IsMoving returns whether any motor of the group is moving.
func (g *Group) IsMoving(ctx context.Context) (bool, error) {
	for _, m := range g.motors {
		moving, err := m.IsMoving(ctx)
		if err != nil {
			return false, err
		}
		if moving {
			return true, nil
		}
	}
	return false, nil
}
