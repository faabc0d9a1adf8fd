// Package compressor defines the air compressor that feeds pneumatic solenoids.
package compressor

import (
	"context"

	"go.viam.com/timedrobot/resource"
)

// SubtypeName is a constant that identifies the component resource API string "compressor".
const SubtypeName = "compressor"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceCore.WithComponentType(SubtypeName)

// Named is a helper for getting the named compressor's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named compressor from a collection of dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Compressor, error) {
	return resource.FromDependencies[Compressor](deps, Named(name))
}

// A Compressor runs under closed loop control: while control is on it runs until the pressure
// switch reports a full tank.
type Compressor interface {
	resource.Resource

	// Enabled reports whether the compressor is running right now.
	Enabled(ctx context.Context) (bool, error)

	// SetClosedLoopControl turns closed loop control on or off.
	SetClosedLoopControl(ctx context.Context, on bool) error

	// ClosedLoopControl reports whether closed loop control is on.
	ClosedLoopControl(ctx context.Context) (bool, error)
}

// ShouldRun reports whether a compressor under the given control and pressure runs.
func ShouldRun(closedLoop, pressureFull bool) bool {
	return closedLoop && !pressureFull
}
