// Package gpio implements a compressor switched through a relay on a board pin, with an optional
// pressure switch read from a second pin.
package gpio

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/components/compressor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
	"go.viam.com/timedrobot/utils"
)

var model = resource.DefaultModelFamily.WithModel("gpio")

const defaultPollIntervalMs = 50

// Config is the config for a gpio compressor.
type Config struct {
	Board    string `json:"board"`
	RelayPin string `json:"relay_pin"`
	// PressureSwitchPin reads high once the tank is full.
	PressureSwitchPin string `json:"pressure_switch_pin,omitempty"`
	// ClosedLoop is the control state at startup. Defaults to true.
	ClosedLoop     *bool `json:"closed_loop,omitempty"`
	PollIntervalMs int   `json:"poll_interval_ms,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if cfg.RelayPin == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "relay_pin")
	}
	if cfg.PressureSwitchPin == cfg.RelayPin {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("pressure_switch_pin and relay_pin must differ, both are %q", cfg.RelayPin))
	}
	if cfg.PollIntervalMs < 0 {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("poll_interval_ms must be positive, not %d", cfg.PollIntervalMs))
	}
	return []string{cfg.Board}, nil
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
			relay, err := board.PinFromDependencies(deps, newConf.Board, newConf.RelayPin)
			if err != nil {
				return nil, errors.Wrap(err, "relay pin")
			}
			var pressureSwitch board.GPIOPin
			if newConf.PressureSwitchPin != "" {
				pressureSwitch, err = board.PinFromDependencies(deps, newConf.Board, newConf.PressureSwitchPin)
				if err != nil {
					return nil, errors.Wrap(err, "pressure switch pin")
				}
			}
			closedLoop := true
			if newConf.ClosedLoop != nil {
				closedLoop = *newConf.ClosedLoop
			}
			pollInterval := time.Duration(newConf.PollIntervalMs) * time.Millisecond
			if pollInterval == 0 {
				pollInterval = defaultPollIntervalMs * time.Millisecond
			}
			return NewCompressor(ctx, conf.ResourceName(), relay, pressureSwitch, closedLoop, pollInterval, clock.New(), logger)
		},
	})
}

// Compressor drives a relay from closed loop control and the pressure switch.
type Compressor struct {
	resource.Named

	mu             sync.Mutex
	relay          board.GPIOPin
	pressureSwitch board.GPIOPin
	closedLoop     bool
	running        bool

	logger  logging.Logger
	workers utils.StoppableWorkers
}

// NewCompressor returns a compressor on the given pins. pressureSwitch may be nil, in which case
// the tank is never considered full. With a pressure switch, the relay follows it every
// pollInterval.
func NewCompressor(
	ctx context.Context,
	name resource.Name,
	relay, pressureSwitch board.GPIOPin,
	closedLoop bool,
	pollInterval time.Duration,
	clk clock.Clock,
	logger logging.Logger,
) (*Compressor, error) {
	c := &Compressor{
		Named:          name.AsNamed(),
		relay:          relay,
		pressureSwitch: pressureSwitch,
		closedLoop:     closedLoop,
		logger:         logger,
	}
	c.mu.Lock()
	err := c.applyLocked(ctx, true)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.workers = utils.NewStoppableWorkers()
	if pressureSwitch != nil {
		c.workers.AddWorkers(func(ctx context.Context) {
			ticker := clk.Ticker(pollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
				c.mu.Lock()
				err := c.applyLocked(ctx, false)
				c.mu.Unlock()
				if err != nil {
					c.logger.Warnw("failed to update compressor relay", "error", err)
				}
			}
		})
	}
	return c, nil
}

// applyLocked drives the relay from the control state and the pressure switch. force writes the
// relay even if its state did not change.
func (c *Compressor) applyLocked(ctx context.Context, force bool) error {
	full := false
	if c.pressureSwitch != nil {
		var err error
		full, err = c.pressureSwitch.Get(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "reading pressure switch")
		}
	}
	run := compressor.ShouldRun(c.closedLoop, full)
	if !force && run == c.running {
		return nil
	}
	if err := c.relay.Set(ctx, run, nil); err != nil {
		return err
	}
	if run != c.running {
		c.logger.Debugw("compressor relay changed", "running", run, "pressure_full", full)
	}
	c.running = run
	return nil
}

// Enabled reports whether the relay is on.
func (c *Compressor) Enabled(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.applyLocked(ctx, false); err != nil {
		return false, err
	}
	return c.running, nil
}

// SetClosedLoopControl turns closed loop control on or off and updates the relay right away.
func (c *Compressor) SetClosedLoopControl(ctx context.Context, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closedLoop = on
	return c.applyLocked(ctx, false)
}

// ClosedLoopControl reports whether closed loop control is on.
func (c *Compressor) ClosedLoopControl(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closedLoop, nil
}

// Close stops polling and turns the relay off.
func (c *Compressor) Close(ctx context.Context) error {
	c.workers.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closedLoop = false
	c.running = false
	return c.relay.Set(ctx, false, nil)
}
