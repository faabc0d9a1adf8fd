// Package gamepad implements a linux evdev gamepad as an input.Controller. A background reader
// keeps the latest event of every mapped control; Events returns that snapshot.
package gamepad

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

var model = resource.DefaultModelFamily.WithModel("gamepad")

const inputDevGlob = "/dev/input/event*"

// Config is used for converting config attributes.
type Config struct {
	// DevFile is an evdev device such as /dev/input/event3. Empty picks the first device with a
	// known mapping.
	DevFile string `json:"dev_file,omitempty"`
}

// Validate ensures all parts of the config are valid. The device itself is only opened when the
// controller is built.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.DevFile == "" {
		return nil, nil
	}
	if ok, err := filepath.Match(inputDevGlob, conf.DevFile); err != nil || !ok {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("dev_file %q is not an evdev device under %s", conf.DevFile, strings.TrimSuffix(inputDevGlob, "event*")))
	}
	return nil, nil
}

func init() {
	resource.RegisterComponent(input.API, model, resource.Registration[input.Controller, *Config]{
		Constructor: func(
			ctx context.Context,
			_ resource.Dependencies,
			conf resource.Config,
			logger logging.Logger,
		) (input.Controller, error) {
			newConf, err := resource.NativeConfig[*Config](conf)
			if err != nil {
				return nil, err
			}
			return newController(ctx, conf.ResourceName(), newConf, clock.New(), logger)
		},
	})
}
