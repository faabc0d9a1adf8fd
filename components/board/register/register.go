// Package register registers all relevant Boards
package register

import (
	// for boards.
	_ "go.viam.com/timedrobot/components/board/fake"
	_ "go.viam.com/timedrobot/components/board/genericlinux"
)
