// Package fake implements a fake compressor with a settable pressure switch.
package fake

import (
	"context"

	"go.uber.org/atomic"

	"go.viam.com/timedrobot/components/compressor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("fake")

// Config is the config for a fake compressor.
type Config struct {
	ClosedLoop bool `json:"closed_loop,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	return nil, nil
}

func init() {
	resource.RegisterComponent(compressor.API, model, resource.Registration[compressor.Compressor, *Config]{
		Constructor: func(
			ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger,
		) (compressor.Compressor, error) {
			newConf, err := resource.NativeConfig[*Config](conf)
			if err != nil {
				return nil, err
			}
			c := NewCompressor(conf.ResourceName(), logger)
			c.closedLoop.Store(newConf.ClosedLoop)
			return c, nil
		},
	})
}

// Compressor is a fake compressor.
type Compressor struct {
	resource.Named
	resource.TriviallyCloseable

	logger       logging.Logger
	closedLoop   *atomic.Bool
	pressureFull *atomic.Bool
	toggles      *atomic.Int32
}

// NewCompressor returns a fake compressor with closed loop control off.
func NewCompressor(name resource.Name, logger logging.Logger) *Compressor {
	return &Compressor{
		Named:        name.AsNamed(),
		logger:       logger,
		closedLoop:   atomic.NewBool(false),
		pressureFull: atomic.NewBool(false),
		toggles:      atomic.NewInt32(0),
	}
}

// Enabled reports whether the compressor would be running.
func (c *Compressor) Enabled(ctx context.Context) (bool, error) {
	return compressor.ShouldRun(c.closedLoop.Load(), c.pressureFull.Load()), nil
}

// SetClosedLoopControl turns closed loop control on or off.
func (c *Compressor) SetClosedLoopControl(ctx context.Context, on bool) error {
	if c.closedLoop.Swap(on) != on {
		c.toggles.Inc()
	}
	return nil
}

// ClosedLoopControl reports whether closed loop control is on.
func (c *Compressor) ClosedLoopControl(ctx context.Context) (bool, error) {
	return c.closedLoop.Load(), nil
}

// SetPressureFull sets what the pressure switch reports.
func (c *Compressor) SetPressureFull(full bool) {
	c.pressureFull.Store(full)
}

// Toggles returns how many times closed loop control changed.
func (c *Compressor) Toggles() int {
	return int(c.toggles.Load())
}
