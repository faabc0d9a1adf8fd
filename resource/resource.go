// Package resource contains the Resource type and the registry used to construct robot components
// from configuration.
package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// APINamespaceCore is the namespace of every built in API.
const APINamespaceCore = APINamespace("timed-robot")

// APITypeComponentName is the type name of hardware components.
const APITypeComponentName = "component"

// APINamespace identifies the owner of an API.
type APINamespace string

// WithComponentType returns the component API of the given subtype in this namespace.
func (n APINamespace) WithComponentType(subtypeName string) API {
	return API{
		Type:        APIType{Namespace: n, Name: APITypeComponentName},
		SubtypeName: subtypeName,
	}
}

// APIType is the namespace and type of an API, e.g. "timed-robot:component".
type APIType struct {
	Namespace APINamespace
	Name      string
}

// API identifies an interface that many models may implement, e.g. "timed-robot:component:motor".
type API struct {
	Type        APIType
	SubtypeName string
}

// IsComponent reports whether the API describes a hardware component.
func (a API) IsComponent() bool {
	return a.Type.Name == APITypeComponentName
}

// Validate ensures every part of the API is set.
func (a API) Validate() error {
	if a.Type.Namespace == "" {
		return errors.New("namespace field for api missing")
	}
	if a.Type.Name == "" {
		return errors.New("type field for api missing")
	}
	if a.SubtypeName == "" {
		return errors.New("subtype field for api missing")
	}
	return nil
}

func (a API) String() string {
	return fmt.Sprintf("%s:%s:%s", a.Type.Namespace, a.Type.Name, a.SubtypeName)
}

// Name identifies one configured resource of an API.
type Name struct {
	API  API
	Name string
}

// NewName creates a new Name for the API.
func NewName(api API, name string) Name {
	return Name{API: api, Name: name}
}

// NewFromString parses "namespace:type:subtype/name" into a Name.
func NewFromString(resourceName string) (Name, error) {
	apiStr, name, ok := strings.Cut(resourceName, "/")
	if !ok || name == "" {
		return Name{}, errors.Errorf("string %q is not a valid resource name", resourceName)
	}
	parts := strings.Split(apiStr, ":")
	if len(parts) != 3 {
		return Name{}, errors.Errorf("string %q is not a valid resource name", resourceName)
	}
	api := API{
		Type:        APIType{Namespace: APINamespace(parts[0]), Name: parts[1]},
		SubtypeName: parts[2],
	}
	if err := api.Validate(); err != nil {
		return Name{}, err
	}
	return NewName(api, name), nil
}

func (n Name) String() string {
	return fmt.Sprintf("%s/%s", n.API, n.Name)
}

// ShortName returns the name without its API.
func (n Name) ShortName() string {
	return n.Name
}

// AsNamed returns a Named that reports this name.
func (n Name) AsNamed() Named {
	return selfNamed{n}
}

// A Resource is the basic unit of the robot. Every component is a resource.
type Resource interface {
	// Name returns the configured name of the resource.
	Name() Name

	// Close must safely shut down the resource and prevent further use.
	// Close must be idempotent.
	Close(ctx context.Context) error
}

// Named is the part of a Resource that knows its name. Implementations embed it.
type Named interface {
	Name() Name
}

type selfNamed struct {
	name Name
}

func (s selfNamed) Name() Name {
	return s.name
}

// TriviallyCloseable is embedded by resources that own nothing to release.
type TriviallyCloseable struct{}

// Close always returns nil.
func (TriviallyCloseable) Close(ctx context.Context) error {
	return nil
}

// An Actuator is a resource that can move and can be told to stop.
type Actuator interface {
	// IsMoving returns whether the resource is moving.
	IsMoving(ctx context.Context) (bool, error)

	// Stop stops all movement for the resource.
	Stop(ctx context.Context, extra map[string]interface{}) error
}

// Dependencies are the constructed resources a resource needs, keyed by name.
type Dependencies map[Name]Resource

// Lookup finds a dependency by name.
func (d Dependencies) Lookup(name Name) (Resource, error) {
	res, ok := d[name]
	if !ok {
		return nil, DependencyNotFoundError(name)
	}
	return res, nil
}

// FromDependencies returns a named resource of type T from the dependencies.
func FromDependencies[T Resource](deps Dependencies, name Name) (T, error) {
	var zero T
	res, err := deps.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, DependencyTypeError[T](name, res)
	}
	return typed, nil
}

// DependencyNotFoundError is used when a resource is not found in dependencies.
func DependencyNotFoundError(name Name) error {
	return errors.Errorf("resource %q not found in dependencies; it may be missing from the config or from depends_on", name)
}

// DependencyTypeError is used when a resource doesn't implement the expected interface.
func DependencyTypeError[T Resource](name Name, actual interface{}) error {
	return errors.Errorf("dependency %q should be an implementation of %T but it was a %T", name, (*T)(nil), actual)
}

// NewNotFoundError is used when a resource is not found.
func NewNotFoundError(name Name) error {
	return errors.Errorf("resource %q not found", name)
}
