//go:build linux

package genericlinux

import (
	"context"
	"sync"
	"time"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/timedrobot/logging"
)

const consumerName = "timed-robot"

type gpioPin struct {
	// These values should all be considered immutable.
	mapping          GPIOBoardMapping
	defaultPWMFreqHz uint
	line             *gpio.Line

	// These values are mutable. Lock the mutex when interacting with them.
	pwmRunning      bool
	pwmFreqHz       uint
	pwmDutyCyclePct float64

	mu        sync.Mutex
	cancelCtx context.Context
	waitGroup *sync.WaitGroup
	logger    logging.Logger
}

func newGPIOPin(
	cancelCtx context.Context,
	mapping GPIOBoardMapping,
	defaultPWMFreqHz uint,
	waitGroup *sync.WaitGroup,
	logger logging.Logger,
) (closeablePin, error) {
	return &gpioPin{
		mapping:          mapping,
		defaultPWMFreqHz: defaultPWMFreqHz,
		cancelCtx:        cancelCtx,
		waitGroup:        waitGroup,
		logger:           logger,
	}, nil
}

// openGpioFd sets pin.line to an open line or returns an error. Must be called with the mutex held.
func (pin *gpioPin) openGpioFd() error {
	if pin.line != nil {
		return nil
	}

	chip, err := gpio.OpenChip(pin.mapping.chipDev())
	if err != nil {
		return errors.Wrapf(err, "opening gpio chip for pin %s", pin.mapping)
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	flags := gpio.Output
	if pin.mapping.Input {
		flags = gpio.Input
	}
	// The 0 is the initial value of an output line. Set writes the intended value afterwards.
	line, err := chip.OpenLine(uint32(pin.mapping.GPIO), 0, flags, consumerName)
	if err != nil {
		return errors.Wrapf(err, "opening gpio line for pin %s", pin.mapping)
	}
	pin.line = line
	return nil
}

func (pin *gpioPin) checkWritable() error {
	if pin.mapping.Input {
		return errors.Errorf("pin %s is configured as an input", pin.mapping)
	}
	return nil
}

func (pin *gpioPin) Set(ctx context.Context, isHigh bool, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.checkWritable(); err != nil {
		return err
	}
	if err := pin.openGpioFd(); err != nil {
		return err
	}

	pin.pwmRunning = false
	return pin.setInternal(isHigh)
}

// setInternal writes the line without touching the PWM loop. Must be called with the mutex held.
func (pin *gpioPin) setInternal(isHigh bool) error {
	var value byte
	if isHigh {
		value = 1
	}
	return pin.line.SetValue(value)
}

func (pin *gpioPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.openGpioFd(); err != nil {
		return false, err
	}

	value, err := pin.line.Value()
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

// startSoftwarePWM starts a background loop toggling the line if one is needed and not already
// running. Must be called with the mutex held.
func (pin *gpioPin) startSoftwarePWM() error {
	if err := pin.openGpioFd(); err != nil {
		return err
	}
	if pin.pwmDutyCyclePct == 0 || pin.pwmFreqHz == 0 {
		pin.pwmRunning = false
		return pin.setInternal(false)
	}
	if pin.pwmDutyCyclePct == 1 {
		pin.pwmRunning = false
		return pin.setInternal(true)
	}
	if pin.pwmRunning {
		return nil
	}

	pin.pwmRunning = true
	pin.waitGroup.Add(1)
	utils.ManagedGo(pin.softwarePwmLoop, pin.waitGroup.Done)
	return nil
}

// halfPwmCycle turns the pin on or off, then waits for the rest of that half of the cycle. It
// returns whether the loop should keep going.
func (pin *gpioPin) halfPwmCycle(shouldBeOn bool) bool {
	var dutyCycle float64
	var freqHz uint

	shouldContinue := func() bool {
		pin.mu.Lock()
		defer pin.mu.Unlock()
		if !pin.pwmRunning {
			return false
		}

		dutyCycle = pin.pwmDutyCyclePct
		freqHz = pin.pwmFreqHz

		// A failed toggle is logged and retried on the next half cycle.
		if err := pin.setInternal(shouldBeOn); err != nil {
			pin.logger.Debugw("software pwm toggle failed", "error", err)
		}
		return true
	}()

	if !shouldContinue {
		return false
	}

	if !shouldBeOn {
		dutyCycle = 1 - dutyCycle
	}
	duration := time.Duration(float64(time.Second) * dutyCycle / float64(freqHz))
	return utils.SelectContextOrWait(pin.cancelCtx, duration)
}

func (pin *gpioPin) softwarePwmLoop() {
	for {
		if !pin.halfPwmCycle(true) {
			return
		}
		if !pin.halfPwmCycle(false) {
			return
		}
	}
}

func (pin *gpioPin) PWM(ctx context.Context, extra map[string]interface{}) (float64, error) {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	return pin.pwmDutyCyclePct, nil
}

func (pin *gpioPin) SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.checkWritable(); err != nil {
		return err
	}
	if dutyCyclePct < 0 || dutyCyclePct > 1 {
		return errors.Errorf("duty cycle %v must be between 0 and 1", dutyCyclePct)
	}
	if pin.pwmFreqHz == 0 {
		pin.pwmFreqHz = pin.defaultPWMFreqHz
	}
	pin.pwmDutyCyclePct = dutyCyclePct
	return pin.startSoftwarePWM()
}

func (pin *gpioPin) PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error) {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	return pin.pwmFreqHz, nil
}

func (pin *gpioPin) SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.checkWritable(); err != nil {
		return err
	}
	if freqHz == 0 {
		freqHz = pin.defaultPWMFreqHz
	}
	pin.pwmFreqHz = freqHz
	if pin.pwmDutyCyclePct == 0 {
		return nil
	}
	return pin.startSoftwarePWM()
}

// Close releases the line. The PWM loop must already be stopped through the cancel context.
func (pin *gpioPin) Close() error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	pin.pwmRunning = false
	if pin.line == nil {
		return nil
	}
	err := pin.line.Close()
	pin.line = nil
	return err
}
