// Package control contains the timing primitives used by robot programs: a stopwatch and a
// pulse/hold controller that drives an actuator for a fixed time after a button press.
package control

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
)

const (
	defaultPulsePower    = 1.0
	defaultPulseDuration = 300 * time.Millisecond
)

// PulseHoldConfig configures a PulseHold. Zero values take the defaults.
type PulseHoldConfig struct {
	// Power is the magnitude commanded while a pulse runs. Defaults to 1.
	Power float64 `json:"power,omitempty"`
	// Duration is how long the actuator runs after the last press. Defaults to 300ms.
	Duration time.Duration `json:"duration,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *PulseHoldConfig) Validate(path string) error {
	if cfg.Power < 0 || cfg.Power > 1 {
		return goutils.NewConfigValidationError(path, errors.Errorf("power must be in (0, 1], not %v", cfg.Power))
	}
	if cfg.Duration < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("duration must be positive, not %v", cfg.Duration))
	}
	return nil
}

func (cfg PulseHoldConfig) withDefaults() PulseHoldConfig {
	if cfg.Power == 0 {
		cfg.Power = defaultPulsePower
	}
	if cfg.Duration == 0 {
		cfg.Duration = defaultPulseDuration
	}
	return cfg
}

// PulseState is whether a PulseHold is driving its actuator.
type PulseState int

const (
	// Idle means the timer is stopped and the actuator was last commanded to stop.
	Idle PulseState = iota
	// Running means a pulse is in progress.
	Running
)

func (s PulseState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// A PulseHold drives an actuator from two opposing inputs. When exactly one input is active it
// restarts its timer and commands +Power for the first input or -Power for the second. Once the
// timer reaches Duration the actuator is stopped. Holding an input keeps restarting the timer, so
// the actuator stops Duration after the last tick the input was held. Both inputs active at once
// is ignored.
//
// PulseHold is not safe for concurrent use. It is driven from a single loop.
type PulseHold struct {
	actuator motor.Motor
	timer    *Timer
	cfg      PulseHoldConfig
	logger   logging.Logger
	command  float64
}

// NewPulseHold returns an idle PulseHold for the actuator.
func NewPulseHold(actuator motor.Motor, clk clock.Clock, cfg PulseHoldConfig, logger logging.Logger) (*PulseHold, error) {
	if err := cfg.Validate("pulse"); err != nil {
		return nil, err
	}
	return &PulseHold{
		actuator: actuator,
		timer:    NewTimer(clk),
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}, nil
}

// Tick runs one control step with the current input states.
func (p *PulseHold) Tick(ctx context.Context, first, second bool) error {
	if first != second {
		p.timer.Reset()
		p.timer.Start()
		power := p.cfg.Power
		if second {
			power = -power
		}
		if p.command != power {
			p.logger.Debugw("pulse started", "power", power)
		}
		if err := p.actuator.SetPower(ctx, power, nil); err != nil {
			return errors.Wrapf(err, "setting power %v on %v", power, p.actuator.Name())
		}
		p.command = power
	}

	if p.timer.HasElapsed(p.cfg.Duration) {
		p.logger.Debugw("pulse expired", "after", p.timer.Get())
		return p.Stop(ctx)
	}
	return nil
}

// Stop stops the actuator and the timer, returning to Idle.
func (p *PulseHold) Stop(ctx context.Context) error {
	p.timer.Stop()
	p.timer.Reset()
	p.command = 0
	if err := p.actuator.Stop(ctx, nil); err != nil {
		return errors.Wrapf(err, "stopping %v", p.actuator.Name())
	}
	return nil
}

// Command returns the power last commanded: -Power, 0 or +Power.
func (p *PulseHold) Command() float64 {
	return p.command
}

// State returns whether a pulse is in progress.
func (p *PulseHold) State() PulseState {
	if p.timer.Running() {
		return Running
	}
	return Idle
}

// Elapsed returns the time since the pulse was last restarted.
func (p *PulseHold) Elapsed() time.Duration {
	return p.timer.Get()
}
