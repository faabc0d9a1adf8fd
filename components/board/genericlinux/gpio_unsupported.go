//go:build !linux

package genericlinux

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/timedrobot/logging"
)

func newGPIOPin(
	cancelCtx context.Context,
	mapping GPIOBoardMapping,
	defaultPWMFreqHz uint,
	waitGroup *sync.WaitGroup,
	logger logging.Logger,
) (closeablePin, error) {
	return nil, errors.Errorf("pin %s: gpio character devices are only supported on linux", mapping)
}
