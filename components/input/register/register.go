// Package register registers all relevant inputs
package register

import (
	// for inputs.
	_ "go.viam.com/timedrobot/components/input/fake"
	_ "go.viam.com/timedrobot/components/input/gamepad"
	_ "go.viam.com/timedrobot/components/input/gpio"
)
