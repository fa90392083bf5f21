package lockgraph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidID is returned by [Graph.AddThread] and [Graph.AddResource]
	// when the identifier is empty. All nodes must have non-empty identifiers.
	ErrInvalidID = errors.New("identifier must not be empty")

	// ErrDuplicateID is returned by [Graph.AddThread] and [Graph.AddResource]
	// when a node with the same ID already exists. Thread and resource IDs
	// share one namespace so that rendered graphs stay unambiguous.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrUnknownThread is returned by [Graph.SetHolds] and [Graph.SetRequests]
	// when the thread was not previously added with AddThread.
	ErrUnknownThread = errors.New("unknown thread")

	// ErrUnknownResource is returned by [Graph.SetHolds] and [Graph.SetRequests]
	// when the resource was not previously added with AddResource.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrResourceHeld is returned by [Graph.SetHolds] when the resource is
	// already held by a different thread. Resources are single-instance:
	// at most one holder at any time.
	ErrResourceHeld = errors.New("resource already held by another thread")
)

// Graph is the allocation state for one analysis run: which threads exist,
// which resources exist, who holds what, and who is waiting on what.
//
// A thread may hold any number of resources but has at most one outstanding
// request. A resource has at most one holder. Referential integrity is
// enforced at mutation time, so analysis code can assume a well-formed graph.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// mutation; callers that keep mutating must analyze a Clone.
type Graph struct {
	threads   map[string]bool
	resources map[string]bool
	holder    map[string]string   // resource -> holding thread
	holdings  map[string][]string // thread -> held resources (insertion order)
	request   map[string]string   // thread -> requested resource
}

// New creates an empty allocation graph.
func New() *Graph {
	return &Graph{
		threads:   make(map[string]bool),
		resources: make(map[string]bool),
		holder:    make(map[string]string),
		holdings:  make(map[string][]string),
		request:   make(map[string]string),
	}
}

// AddThread registers a thread. Returns ErrInvalidID for an empty ID or
// ErrDuplicateID if any node with that ID already exists.
func (g *Graph) AddThread(id string) error {
	if err := g.checkNewID(id); err != nil {
		return err
	}
	g.threads[id] = true
	return nil
}

// AddResource registers a resource. Returns ErrInvalidID for an empty ID or
// ErrDuplicateID if any node with that ID already exists.
func (g *Graph) AddResource(id string) error {
	if err := g.checkNewID(id); err != nil {
		return err
	}
	g.resources[id] = true
	return nil
}

func (g *Graph) checkNewID(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if g.threads[id] || g.resources[id] {
		return ErrDuplicateID
	}
	return nil
}

// SetHolds records that thread holds resource. Returns ErrUnknownThread or
// ErrUnknownResource for unregistered IDs, and ErrResourceHeld if a different
// thread already holds the resource. Calling SetHolds twice for the same
// thread/resource pair is a no-op.
func (g *Graph) SetHolds(thread, resource string) error {
	if !g.threads[thread] {
		return ErrUnknownThread
	}
	if !g.resources[resource] {
		return ErrUnknownResource
	}
	if owner, ok := g.holder[resource]; ok {
		if owner == thread {
			return nil
		}
		return ErrResourceHeld
	}
	g.holder[resource] = thread
	g.holdings[thread] = append(g.holdings[thread], resource)
	return nil
}

// SetRequests records that thread is waiting to acquire resource. A thread
// has at most one outstanding request; a second call replaces the first.
// Returns ErrUnknownThread or ErrUnknownResource for unregistered IDs.
func (g *Graph) SetRequests(thread, resource string) error {
	if !g.threads[thread] {
		return ErrUnknownThread
	}
	if !g.resources[resource] {
		return ErrUnknownResource
	}
	g.request[thread] = resource
	return nil
}

// HolderOf returns the thread currently holding resource, if any.
func (g *Graph) HolderOf(resource string) (string, bool) {
	t, ok := g.holder[resource]
	return t, ok
}

// RequestOf returns the resource the thread is waiting for, if any.
func (g *Graph) RequestOf(thread string) (string, bool) {
	r, ok := g.request[thread]
	return r, ok
}

// HoldingsOf returns the resources held by thread, in acquisition order.
// The returned slice is a copy and may be modified freely.
func (g *Graph) HoldingsOf(thread string) []string {
	return slices.Clone(g.holdings[thread])
}

// Threads returns all thread IDs in sorted order.
func (g *Graph) Threads() []string {
	return slices.Sorted(maps.Keys(g.threads))
}

// Resources returns all resource IDs in sorted order.
func (g *Graph) Resources() []string {
	return slices.Sorted(maps.Keys(g.resources))
}

// HasThread reports whether a thread with the given ID exists.
func (g *Graph) HasThread(id string) bool { return g.threads[id] }

// HasResource reports whether a resource with the given ID exists.
func (g *Graph) HasResource(id string) bool { return g.resources[id] }

// ThreadCount returns the number of registered threads.
func (g *Graph) ThreadCount() int { return len(g.threads) }

// ResourceCount returns the number of registered resources.
func (g *Graph) ResourceCount() int { return len(g.resources) }

// Stats summarizes the structural properties of an allocation graph.
// The remediation advisor keys its strategy selection off these counts.
type Stats struct {
	Threads   int `json:"threads"`
	Resources int `json:"resources"`
	Holds     int `json:"holds"`
	Requests  int `json:"requests"`
}

// Stats returns counts of threads, resources, hold edges and request edges.
func (g *Graph) Stats() Stats {
	return Stats{
		Threads:   len(g.threads),
		Resources: len(g.resources),
		Holds:     len(g.holder),
		Requests:  len(g.request),
	}
}

// Clone returns a deep copy of the graph. Analysis runs on a snapshot can
// proceed while the caller keeps mutating the original.
func (g *Graph) Clone() *Graph {
	c := New()
	maps.Copy(c.threads, g.threads)
	maps.Copy(c.resources, g.resources)
	maps.Copy(c.holder, g.holder)
	maps.Copy(c.request, g.request)
	for t, rs := range g.holdings {
		c.holdings[t] = slices.Clone(rs)
	}
	return c
}
