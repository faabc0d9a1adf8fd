//go:build !linux

package gamepad

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/timedrobot/components/input"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

func newController(
	ctx context.Context,
	name resource.Name,
	conf *Config,
	clk clock.Clock,
	logger logging.Logger,
) (input.Controller, error) {
	return nil, errors.Errorf("gamepad %s: evdev devices are only supported on linux", name.ShortName())
}
