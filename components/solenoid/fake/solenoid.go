// Package fake implements a fake double solenoid that remembers its position.
package fake

import (
	"context"
	"sync"

	"go.viam.com/timedrobot/components/solenoid"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("fake")

func init() {
	resource.RegisterComponent(solenoid.API, model, resource.Registration[solenoid.DoubleSolenoid, resource.NoNativeConfig]{
		Constructor: func(
			ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger,
		) (solenoid.DoubleSolenoid, error) {
			return NewSolenoid(conf.ResourceName(), logger), nil
		},
	})
}

// Solenoid is a fake double solenoid.
type Solenoid struct {
	resource.Named
	resource.TriviallyCloseable

	mu      sync.Mutex
	logger  logging.Logger
	value   solenoid.Value
	history []solenoid.Value
}

// NewSolenoid returns a fake solenoid in the Off position.
func NewSolenoid(name resource.Name, logger logging.Logger) *Solenoid {
	return &Solenoid{Named: name.AsNamed(), logger: logger}
}

// Set sets the solenoid to the given position.
func (s *Solenoid) Set(ctx context.Context, value solenoid.Value, extra map[string]interface{}) error {
	if !value.Valid() {
		return solenoid.NewInvalidValueError(s.Name(), value)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.history = append(s.history, value)
	return nil
}

// Get returns the last set position.
func (s *Solenoid) Get(ctx context.Context, extra map[string]interface{}) (solenoid.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// History returns every position set so far.
func (s *Solenoid) History() []solenoid.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]solenoid.Value{}, s.history...)
}
