// Package register registers all relevant motors
package register

import (
	// for motors.
	_ "go.viam.com/timedrobot/components/motor/fake"
	_ "go.viam.com/timedrobot/components/motor/group"
	_ "go.viam.com/timedrobot/components/motor/pwm"
)
