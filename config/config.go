// Package config defines the structures to configure a robot and its connected parts.
package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
	"go.viam.com/timedrobot/robot"
	rutils "go.viam.com/timedrobot/utils"
)

// ModeMatch runs a match schedule instead of a fixed mode.
const ModeMatch = "match"

// Config describes the robot program and the components it drives.
type Config struct {
	ConfigFilePath string `json:"-"`

	Components []resource.Config             `json:"components,omitempty"`
	Robot      RobotConfig                   `json:"robot"`
	LogConfig  []logging.LoggerPatternConfig `json:"log,omitempty"`
	Debug      bool                          `json:"debug,omitempty"`
}

// RobotConfig configures how the robot program runs.
type RobotConfig struct {
	// Mode is a robot mode name or "match". Defaults to disabled.
	Mode string `json:"mode,omitempty"`
	// PeriodMs is the loop period. Defaults to 20ms.
	PeriodMs int `json:"period_ms,omitempty"`
	// AutonomousSec and TeleopSec set the match period lengths.
	AutonomousSec float64 `json:"autonomous_sec,omitempty"`
	TeleopSec     float64 `json:"teleop_sec,omitempty"`
	// Attributes configure the robot program itself.
	Attributes rutils.AttributeMap `json:"attributes,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (rc *RobotConfig) Validate(path string) error {
	if rc.Mode != "" && rc.Mode != ModeMatch {
		if _, err := robot.ParseMode(rc.Mode); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	if rc.PeriodMs < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("period_ms must be positive, not %d", rc.PeriodMs))
	}
	if rc.AutonomousSec < 0 || rc.TeleopSec < 0 {
		return utils.NewConfigValidationError(path, errors.New("match period lengths must be positive"))
	}
	return nil
}

// Period returns the configured loop period.
func (rc *RobotConfig) Period() time.Duration {
	if rc.PeriodMs == 0 {
		return robot.DefaultPeriod
	}
	return time.Duration(rc.PeriodMs) * time.Millisecond
}

// MatchPeriods returns the configured autonomous and teleop lengths. Zero means default.
func (rc *RobotConfig) MatchPeriods() (time.Duration, time.Duration) {
	toDuration := func(sec float64) time.Duration {
		return time.Duration(sec * float64(time.Second))
	}
	return toDuration(rc.AutonomousSec), toDuration(rc.TeleopSec)
}

// Ensure validates the config, converting component attributes to their native configs.
func (c *Config) Ensure(logger logging.Logger) error {
	seen := map[string]bool{}
	for idx := range c.Components {
		path := fmt.Sprintf("components.%d", idx)
		if _, err := c.Components[idx].Validate(path); err != nil {
			return err
		}
		name := c.Components[idx].Name
		if seen[name] {
			return utils.NewConfigValidationError(path, errors.Errorf("duplicate component name %q", name))
		}
		seen[name] = true
	}

	if err := c.Robot.Validate("robot"); err != nil {
		return err
	}

	for idx, lc := range c.LogConfig {
		path := fmt.Sprintf("log.%d", idx)
		if !logging.ValidatePattern(lc.Pattern) {
			return utils.NewConfigValidationError(path, errors.Errorf("invalid logger pattern %q", lc.Pattern))
		}
		if _, err := logging.LevelFromString(lc.Level); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	}
	if logger != nil {
		logger.Debugw("config validated", "path", c.ConfigFilePath, "components", len(c.Components))
	}
	return nil
}
