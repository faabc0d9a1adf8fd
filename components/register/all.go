// Package register registers all components
package register

import (
	// register components.
	_ "go.viam.com/timedrobot/components/base/differential"
	_ "go.viam.com/timedrobot/components/board/register"
	_ "go.viam.com/timedrobot/components/compressor/fake"
	_ "go.viam.com/timedrobot/components/compressor/gpio"
	_ "go.viam.com/timedrobot/components/input/register"
	_ "go.viam.com/timedrobot/components/motor/register"
	_ "go.viam.com/timedrobot/components/solenoid/fake"
	_ "go.viam.com/timedrobot/components/solenoid/gpio"
)
