package resource

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type resourceNode map[Name]struct{}

type resourceDependencies map[Name]resourceNode

// A Graph keeps a collection of resources and the dependencies between them.
type Graph struct {
	nodes map[Name]*Config
	// children maps a resource to the resources that depend on it.
	children resourceDependencies
	// parents maps a resource to the resources it depends on.
	parents resourceDependencies
}

// NewGraph creates a new, empty resource graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    map[Name]*Config{},
		children: resourceDependencies{},
		parents:  resourceDependencies{},
	}
}

func addResToSet(rd resourceDependencies, key, node Name) {
	nodes, ok := rd[key]
	if !ok {
		nodes = resourceNode{}
		rd[key] = nodes
	}
	nodes[node] = struct{}{}
}

// AddNode adds a resource to the graph. Adding a known name replaces its config.
func (g *Graph) AddNode(node Name, conf *Config) {
	g.nodes[node] = conf
}

// Config returns the config a resource was added with.
func (g *Graph) Config(node Name) (*Config, bool) {
	conf, ok := g.nodes[node]
	return conf, ok
}

// Names returns every resource in the graph, sorted by name.
func (g *Graph) Names() []Name {
	names := lo.Keys(g.nodes)
	sortNames(names)
	return names
}

// AddDependency records that child depends on parent. Both must already be in the graph.
func (g *Graph) AddDependency(child, parent Name) error {
	if child == parent {
		return errors.Errorf("%q cannot depend on itself", child)
	}
	if _, ok := g.nodes[child]; !ok {
		return NewNotFoundError(child)
	}
	if _, ok := g.nodes[parent]; !ok {
		return errors.Wrapf(DependencyNotFoundError(parent), "%q depends on it", child)
	}
	if g.IsDependingOn(parent, child) {
		return errors.Errorf("circular dependency - %q already depends on %q", parent, child)
	}
	addResToSet(g.children, parent, child)
	addResToSet(g.parents, child, parent)
	return nil
}

// DependenciesOf returns the resources that node directly depends on, sorted by name.
func (g *Graph) DependenciesOf(node Name) []Name {
	names := lo.Keys(g.parents[node])
	sortNames(names)
	return names
}

// IsDependingOn reports whether child depends on parent, directly or not.
func (g *Graph) IsDependingOn(child, parent Name) bool {
	visited := map[Name]bool{}
	next := []Name{child}
	for len(next) > 0 {
		var found []Name
		for _, n := range next {
			for p := range g.parents[n] {
				if p == parent {
					return true
				}
				if !visited[p] {
					visited[p] = true
					found = append(found, p)
				}
			}
		}
		next = found
	}
	return false
}

// TopologicalSort returns every resource ordered so that each one comes after all of the
// resources it depends on. Resources at the same depth are sorted by name.
func (g *Graph) TopologicalSort() []Name {
	remaining := make(map[Name]int, len(g.nodes))
	for node := range g.nodes {
		remaining[node] = len(g.parents[node])
	}

	ordered := make([]Name, 0, len(g.nodes))
	for len(remaining) > 0 {
		var ready []Name
		for node, count := range remaining {
			if count == 0 {
				ready = append(ready, node)
			}
		}
		if len(ready) == 0 {
			// unreachable as AddDependency refuses cycles
			break
		}
		sortNames(ready)
		for _, node := range ready {
			delete(remaining, node)
			for child := range g.children[node] {
				remaining[child]--
			}
		}
		ordered = append(ordered, ready...)
	}
	return ordered
}

// ReverseTopologicalSort returns every resource ordered so that each one comes before the
// resources it depends on. This is the order to close resources in.
func (g *Graph) ReverseTopologicalSort() []Name {
	ordered := g.TopologicalSort()
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered
}

func sortNames(names []Name) {
	sort.Slice(names, func(i, j int) bool {
		return names[i].String() < names[j].String()
	})
}
