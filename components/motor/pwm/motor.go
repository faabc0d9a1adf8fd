// Package pwm implements a motor driven by a PWM speed controller, such as a Victor SPX or a
// Spark wired to a PWM header. Power is sent as a pulse width around a neutral center.
package pwm

import (
	"context"
	"math"
	"sync"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/board"
	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("pwm")

const (
	defaultFrequencyHz   uint = 50
	defaultMinWidthUs    uint = 1000
	defaultCenterWidthUs uint = 1500
	defaultMaxWidthUs    uint = 2000
	maxFrequencyHz       uint = 450
)

// Config describes the configuration of a PWM speed controller.
type Config struct {
	Board         string `json:"board"`
	Pin           string `json:"pin"`
	FrequencyHz   uint   `json:"frequency_hz,omitempty"`
	MinWidthUS    uint   `json:"min_width_us,omitempty"`
	CenterWidthUS uint   `json:"center_width_us,omitempty"`
	MaxWidthUS    uint   `json:"max_width_us,omitempty"`
	DirectionFlip bool   `json:"dir_flip,omitempty"`
}

func (cfg *Config) withDefaults() Config {
	out := *cfg
	if out.FrequencyHz == 0 {
		out.FrequencyHz = defaultFrequencyHz
	}
	if out.MinWidthUS == 0 {
		out.MinWidthUS = defaultMinWidthUs
	}
	if out.CenterWidthUS == 0 {
		out.CenterWidthUS = defaultCenterWidthUs
	}
	if out.MaxWidthUS == 0 {
		out.MaxWidthUS = defaultMaxWidthUs
	}
	return out
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if cfg.Pin == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "pin")
	}
	full := cfg.withDefaults()
	if full.FrequencyHz > maxFrequencyHz {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("frequency_hz should not be above %dHz, have %d", maxFrequencyHz, full.FrequencyHz))
	}
	if !(full.MinWidthUS < full.CenterWidthUS && full.CenterWidthUS < full.MaxWidthUS) {
		return nil, goutils.NewConfigValidationError(path,
			motor.NewInvalidPulseWidthError(full.MinWidthUS, full.CenterWidthUS, full.MaxWidthUS))
	}
	if periodUs := 1e6 / float64(full.FrequencyHz); float64(full.MaxWidthUS) > periodUs {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("max_width_us %d does not fit in a %.0fus period", full.MaxWidthUS, periodUs))
	}
	return []string{cfg.Board}, nil
}

func init() {
	resource.RegisterComponent(motor.API, model, resource.Registration[motor.Motor, *Config]{
		Constructor: newPWMMotor,
	})
}

// Motor is a speed controller commanded by pulse width.
type Motor struct {
	resource.Named

	pin    board.GPIOPin
	cfg    Config
	logger logging.Logger

	mu       sync.Mutex
	powerPct float64
}

func newPWMMotor(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (motor.Motor, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	return NewMotor(ctx, deps, conf.ResourceName(), newConf, logger)
}

// NewMotor returns a PWM motor on the configured board pin, already at neutral.
func NewMotor(
	ctx context.Context,
	deps resource.Dependencies,
	name resource.Name,
	cfg *Config,
	logger logging.Logger,
) (*Motor, error) {
	pin, err := board.PinFromDependencies(deps, cfg.Board, cfg.Pin)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't get motor pin")
	}
	m := &Motor{
		Named:  name.AsNamed(),
		pin:    pin,
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
	if err := pin.SetPWMFreq(ctx, m.cfg.FrequencyHz, nil); err != nil {
		return nil, errors.Wrap(err, "error setting motor pin frequency")
	}
	if err := m.setPower(ctx, 0); err != nil {
		return nil, errors.Wrap(err, "couldn't set motor to neutral")
	}
	return m, nil
}

// DutyCycle maps a power in [-1, 1] to the duty cycle of the matching pulse width.
func DutyCycle(cfg Config, powerPct float64) float64 {
	cfg = cfg.withDefaults()
	powerPct = motor.ClampPower(powerPct)
	center := float64(cfg.CenterWidthUS)
	widthUs := center
	if powerPct > 0 {
		widthUs += powerPct * (float64(cfg.MaxWidthUS) - center)
	} else {
		widthUs += powerPct * (center - float64(cfg.MinWidthUS))
	}
	periodUs := 1e6 / float64(cfg.FrequencyHz)
	return widthUs / periodUs
}

func (m *Motor) setPower(ctx context.Context, powerPct float64) error {
	powerPct = motor.ClampPower(powerPct)
	if m.cfg.DirectionFlip {
		powerPct *= -1
	}
	if err := m.pin.SetPWM(ctx, DutyCycle(m.cfg, powerPct), nil); err != nil {
		return err
	}
	m.powerPct = powerPct
	return nil
}

// SetPower sets the given power percentage.
func (m *Motor) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if math.IsNaN(powerPct) {
		return errors.New("power cannot be NaN")
	}
	return m.setPower(ctx, powerPct)
}

// Stop sends the neutral pulse.
func (m *Motor) Stop(ctx context.Context, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setPower(ctx, 0)
}

// IsPowered returns whether the controller is being sent a non-neutral pulse, and its power.
func (m *Motor) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct != 0, m.powerPct, nil
}

// IsMoving returns whether the motor is powered.
func (m *Motor) IsMoving(ctx context.Context) (bool, error) {
	on, _, err := m.IsPowered(ctx, nil)
	return on, err
}

// Close stops the motor.
func (m *Motor) Close(ctx context.Context) error {
	return m.Stop(ctx, nil)
}
