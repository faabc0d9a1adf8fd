package robot

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/resource"
)

// Resources are the components built from a config, kept in construction order.
type Resources struct {
	deps  resource.Dependencies
	order []resource.Name
}

// BuildResources validates the configs and constructs every resource after the resources it depends
// on. Dependencies are referred to by short name so names must be unique across types. If any
// resource fails to build, the ones already built are closed.
func BuildResources(ctx context.Context, confs []resource.Config, logger logging.Logger) (*Resources, error) {
	graph := resource.NewGraph()
	byShortName := map[string]resource.Name{}

	for i := range confs {
		conf := &confs[i]
		if _, err := conf.Validate(fmt.Sprintf("components.%d", i)); err != nil {
			return nil, err
		}
		if other, ok := byShortName[conf.Name]; ok {
			return nil, errors.Errorf("duplicate resource name %q used by %v and %v", conf.Name, other, conf.ResourceName())
		}
		byShortName[conf.Name] = conf.ResourceName()
		graph.AddNode(conf.ResourceName(), conf)
	}

	for i := range confs {
		conf := &confs[i]
		for _, dep := range conf.Dependencies() {
			if dep == "" {
				continue
			}
			parent, ok := byShortName[dep]
			if !ok {
				return nil, errors.Errorf("resource %v depends on %q which is not configured", conf.ResourceName(), dep)
			}
			if err := graph.AddDependency(conf.ResourceName(), parent); err != nil {
				return nil, err
			}
		}
	}

	built := &Resources{deps: resource.Dependencies{}}
	for _, name := range graph.TopologicalSort() {
		conf, _ := graph.Config(name)
		reg, ok := resource.LookupRegistration(conf.API, conf.Model)
		if !ok {
			return nil, multierr.Combine(
				errors.Errorf("no registration for %v", conf),
				built.Close(ctx),
			)
		}

		deps := resource.Dependencies{}
		for _, parent := range graph.DependenciesOf(name) {
			deps[parent] = built.deps[parent]
		}

		logger.Debugw("building resource", "resource", name.String(), "model", conf.Model.String())
		res, err := reg.Constructor(ctx, deps, *conf, logger.Sublogger(conf.Name))
		if err != nil {
			return nil, multierr.Combine(
				errors.Wrapf(err, "building %v", conf),
				built.Close(ctx),
			)
		}
		built.deps[name] = res
		built.order = append(built.order, name)
	}
	return built, nil
}

// Dependencies returns every built resource by name.
func (r *Resources) Dependencies() resource.Dependencies {
	return r.deps
}

// Names returns the resource names in construction order.
func (r *Resources) Names() []resource.Name {
	return append([]resource.Name{}, r.order...)
}

// Close closes every resource, dependents before their dependencies.
func (r *Resources) Close(ctx context.Context) error {
	toClose := make([]resource.Resource, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		toClose = append(toClose, r.deps[r.order[i]])
	}
	r.deps = resource.Dependencies{}
	r.order = nil
	return CloseResources(ctx, toClose...)
}

// CloseResources closes each resource in order, combining their errors.
func CloseResources(ctx context.Context, resources ...resource.Resource) error {
	var err error
	for _, res := range resources {
		if res == nil {
			continue
		}
		if closeErr := res.Close(ctx); closeErr != nil {
			err = multierr.Combine(err, errors.Wrapf(closeErr, "closing %v", res.Name()))
		}
	}
	return err
}
