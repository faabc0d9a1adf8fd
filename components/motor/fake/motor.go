// Package fake implements a fake motor that records the power it is given.
package fake

import (
	"context"
	"sync"

	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("fake")

// Config describes the configuration of a fake motor.
type Config struct {
	DirectionFlip bool `json:"dir_flip,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	return nil, nil
}

func init() {
	resource.RegisterComponent(motor.API, model, resource.Registration[motor.Motor, *Config]{
		Constructor: func(
			ctx context.Context,
			deps resource.Dependencies,
			conf resource.Config,
			logger logging.Logger,
		) (motor.Motor, error) {
			return NewMotor(conf, logger)
		},
	})
}

// NewMotor returns a fake motor from its config.
func NewMotor(conf resource.Config, logger logging.Logger) (*Motor, error) {
	m := &Motor{Named: conf.ResourceName().AsNamed(), Logger: logger}
	if conf.ConvertedAttributes != nil {
		mcfg, err := resource.NativeConfig[*Config](conf)
		if err != nil {
			return nil, err
		}
		m.DirFlip = mcfg.DirectionFlip
	}
	return m, nil
}

// A Motor allows setting and reading a set power percentage.
type Motor struct {
	resource.Named

	mu       sync.Mutex
	powerPct float64
	history  []float64
	closed   bool
	err      error
	DirFlip  bool
	Logger   logging.Logger
}

// SetPower sets the given power percentage.
func (m *Motor) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.Logger.Debugf("Motor SetPower %f", powerPct)
	m.setPowerPct(motor.ClampPower(powerPct))
	return nil
}

func (m *Motor) setPowerPct(powerPct float64) {
	if m.DirFlip {
		powerPct *= -1
	}
	m.powerPct = powerPct
	m.history = append(m.history, powerPct)
}

// Stop has the motor pretend to be off.
func (m *Motor) Stop(ctx context.Context, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.Logger.Debug("Motor Stopped")
	m.setPowerPct(0)
	return nil
}

// IsPowered returns if the motor is pretending to be on or not, and its power level.
func (m *Motor) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.powerPct != 0, m.powerPct, nil
}

// IsMoving returns if the motor is pretending to be moving or not.
func (m *Motor) IsMoving(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct != 0, nil
}

// PowerPct returns the set power percentage, after any direction flip.
func (m *Motor) PowerPct() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct
}

// History returns every power the motor was given, in order. Stop records a zero.
func (m *Motor) History() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64{}, m.history...)
}

// SetError makes every following SetPower and Stop fail with err. A nil err clears it.
func (m *Motor) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Closed returns whether Close was called.
func (m *Motor) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close stops the motor.
func (m *Motor) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.powerPct = 0
	return nil
}
