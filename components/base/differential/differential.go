// Package differential implements a two sided base driven arcade style: one value drives forward
// and backward and a second one turns. Turning follows the arcade convention where a positive
// angular.Z turns clockwise.
//
// The base also runs a motor safety watchdog. Once it has been given a non-zero power, it must be
// commanded again within the expiration or it stops its motors.
package differential

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/base"
	"go.viam.com/timedrobot/components/motor"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
	"go.viam.com/timedrobot/utils"
)

var model = resource.DefaultModelFamily.WithModel("differential")

const (
	defaultDeadband     = 0.02
	defaultMaxOutput    = 1.0
	defaultExpirationMs = 100
)

// Config is how you configure a differential base.
type Config struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`

	Deadband     *float64 `json:"deadband,omitempty"`
	SquareInputs *bool    `json:"square_inputs,omitempty"`
	MaxOutput    *float64 `json:"max_output,omitempty"`
	// InvertRight negates the right side, since its motors face the other way. Defaults to true.
	InvertRight *bool `json:"invert_right,omitempty"`
	// ExpirationMs is the motor safety timeout. Negative disables the watchdog.
	ExpirationMs int `json:"expiration_ms,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	var deps []string

	if len(cfg.Left) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "left")
	}
	if len(cfg.Right) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "right")
	}
	if cfg.Deadband != nil && (*cfg.Deadband < 0 || *cfg.Deadband >= 1) {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("deadband must be in [0, 1), not %v", *cfg.Deadband))
	}
	if cfg.MaxOutput != nil && (*cfg.MaxOutput <= 0 || *cfg.MaxOutput > 1) {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("max_output must be in (0, 1], not %v", *cfg.MaxOutput))
	}

	deps = append(deps, cfg.Left...)
	deps = append(deps, cfg.Right...)
	return deps, nil
}

// DriveParams are the resolved mixing parameters of a differential base.
type DriveParams struct {
	Deadband     float64
	SquareInputs bool
	MaxOutput    float64
	InvertRight  bool
	Expiration   time.Duration
}

// Params resolves the config's defaults.
func (cfg *Config) Params() DriveParams {
	p := DriveParams{
		Deadband:     defaultDeadband,
		SquareInputs: true,
		MaxOutput:    defaultMaxOutput,
		InvertRight:  true,
		Expiration:   defaultExpirationMs * time.Millisecond,
	}
	if cfg.Deadband != nil {
		p.Deadband = *cfg.Deadband
	}
	if cfg.SquareInputs != nil {
		p.SquareInputs = *cfg.SquareInputs
	}
	if cfg.MaxOutput != nil {
		p.MaxOutput = *cfg.MaxOutput
	}
	if cfg.InvertRight != nil {
		p.InvertRight = *cfg.InvertRight
	}
	switch {
	case cfg.ExpirationMs < 0:
		p.Expiration = 0
	case cfg.ExpirationMs > 0:
		p.Expiration = time.Duration(cfg.ExpirationMs) * time.Millisecond
	}
	return p
}

func init() {
	resource.RegisterComponent(base.API, model, resource.Registration[base.Base, *Config]{
		Constructor: func(
			ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger,
		) (base.Base, error) {
			return createDifferentialBase(deps, conf, clock.New(), logger)
		},
	})
}

// ArcadeMix turns a forward speed and a clockwise rotation into left and right side powers. Both
// inputs are clamped to [-1, 1] and deadbanded. Squaring keeps the sign and gives finer control
// at low speeds.
func ArcadeMix(xSpeed, zRotation, deadband float64, squareInputs bool) (float64, float64) {
	xSpeed = utils.ApplyDeadband(utils.Clamp(xSpeed, -1, 1), deadband)
	zRotation = utils.ApplyDeadband(utils.Clamp(zRotation, -1, 1), deadband)

	if squareInputs {
		xSpeed = utils.SquareMagnitude(xSpeed)
		zRotation = utils.SquareMagnitude(zRotation)
	}

	maxInput := math.Copysign(math.Max(math.Abs(xSpeed), math.Abs(zRotation)), xSpeed)

	var left, right float64
	if xSpeed >= 0 {
		if zRotation >= 0 {
			left, right = maxInput, xSpeed-zRotation
		} else {
			left, right = xSpeed+zRotation, maxInput
		}
	} else {
		if zRotation >= 0 {
			left, right = xSpeed+zRotation, maxInput
		} else {
			left, right = maxInput, xSpeed-zRotation
		}
	}
	return utils.Clamp(left, -1, 1), utils.Clamp(right, -1, 1)
}

type differentialBase struct {
	resource.Named

	left, right []motor.Motor
	allMotors   []motor.Motor
	params      DriveParams
	clk         clock.Clock
	logger      logging.Logger
	workers     utils.StoppableWorkers

	mu       sync.Mutex
	lastFeed time.Time
	armed    bool
	expired  bool
}

func createDifferentialBase(
	deps resource.Dependencies,
	conf resource.Config,
	clk clock.Clock,
	logger logging.Logger,
) (base.Base, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}

	lookup := func(side string, names []string) ([]motor.Motor, error) {
		motors := make([]motor.Motor, 0, len(names))
		for _, name := range names {
			m, err := motor.FromDependencies(deps, name)
			if err != nil {
				return nil, errors.Wrapf(err, "no %s motor named (%s)", side, name)
			}
			motors = append(motors, m)
		}
		return motors, nil
	}
	left, err := lookup("left", newConf.Left)
	if err != nil {
		return nil, err
	}
	right, err := lookup("right", newConf.Right)
	if err != nil {
		return nil, err
	}
	return NewBase(conf.ResourceName(), left, right, newConf.Params(), clk, logger), nil
}

// NewBase returns a differential base over the given sides. When the params have an expiration
// the watchdog starts right away.
func NewBase(
	name resource.Name,
	left, right []motor.Motor,
	params DriveParams,
	clk clock.Clock,
	logger logging.Logger,
) base.Base {
	b := &differentialBase{
		Named:     name.AsNamed(),
		left:      left,
		right:     right,
		allMotors: append(append([]motor.Motor{}, left...), right...),
		params:    params,
		clk:       clk,
		logger:    logger,
		lastFeed:  clk.Now(),
	}
	b.workers = utils.NewStoppableWorkers()
	if params.Expiration > 0 {
		b.workers.AddWorkers(b.watchdog)
	}
	return b
}

// SetPower mixes linear.Y and angular.Z into side powers and commands every motor.
func (b *differentialBase) SetPower(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error {
	b.logger.Debugf("received a SetPower with linear Y: %.2f, angular Z: %.2f", linear.Y, angular.Z)

	lPower, rPower := ArcadeMix(linear.Y, angular.Z, b.params.Deadband, b.params.SquareInputs)
	lPower *= b.params.MaxOutput
	rPower *= b.params.MaxOutput
	if b.params.InvertRight && rPower != 0 {
		rPower = -rPower
	}

	var err error
	for _, m := range b.left {
		err = multierr.Combine(err, m.SetPower(ctx, lPower, extra))
	}
	for _, m := range b.right {
		err = multierr.Combine(err, m.SetPower(ctx, rPower, extra))
	}
	if err != nil {
		return multierr.Combine(err, b.Stop(ctx, nil))
	}
	b.feed(lPower != 0 || rPower != 0)
	return nil
}

// Stop commands the base to stop moving.
func (b *differentialBase) Stop(ctx context.Context, extra map[string]interface{}) error {
	var err error
	for _, m := range b.allMotors {
		err = multierr.Combine(err, m.Stop(ctx, extra))
	}
	b.feed(false)
	return err
}

func (b *differentialBase) IsMoving(ctx context.Context) (bool, error) {
	for _, m := range b.allMotors {
		isMoving, _, err := m.IsPowered(ctx, nil)
		if err != nil {
			return false, err
		}
		if isMoving {
			return true, nil
		}
	}
	return false, nil
}

// Close stops the watchdog and the motors.
func (b *differentialBase) Close(ctx context.Context) error {
	b.workers.Stop()
	return b.Stop(ctx, nil)
}

func (b *differentialBase) feed(armed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFeed = b.clk.Now()
	b.armed = armed
	b.expired = false
}

func (b *differentialBase) watchdog(ctx context.Context) {
	ticker := b.clk.Ticker(b.params.Expiration / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := b.checkExpiration(ctx); err != nil {
			b.logger.Errorw("failed to stop drive after watchdog expiry", "error", err)
		}
	}
}

// checkExpiration stops the motors if the base is armed and was not fed within the expiration.
// Each expiry is reported once.
func (b *differentialBase) checkExpiration(ctx context.Context) error {
	b.mu.Lock()
	if !b.armed || b.expired || b.clk.Since(b.lastFeed) <= b.params.Expiration {
		b.mu.Unlock()
		return nil
	}
	b.expired = true
	since := b.clk.Since(b.lastFeed)
	b.mu.Unlock()

	b.logger.Warnw("drive output not updated often enough, stopping motors",
		"expiration", b.params.Expiration, "since_last_update", since)
	var err error
	for _, m := range b.allMotors {
		err = multierr.Combine(err, m.Stop(ctx, nil))
	}
	return err
}
