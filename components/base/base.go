// Package base defines the base that a robot uses to move around.
package base

import (
	"context"

	"github.com/golang/geo/r3"

	"go.viam.com/timedrobot/resource"
)

// SubtypeName is a constant that identifies the component resource API string "base".
const SubtypeName = "base"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceCore.WithComponentType(SubtypeName)

// Named is a helper for getting the named base's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named base from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Base, error) {
	return resource.FromDependencies[Base](deps, Named(name))
}

// A Base represents a physical base of a robot.
type Base interface {
	resource.Resource
	resource.Actuator

	// SetPower sets the linear and angular power of the base, each component in [-1, 1].
	// linear.Y drives forward and backward, angular.Z turns.
	SetPower(ctx context.Context, linear, angular r3.Vector, extra map[string]interface{}) error
}
