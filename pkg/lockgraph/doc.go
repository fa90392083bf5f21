// Package lockgraph models resource-allocation state as a directed bipartite
// graph of threads and resources.
//
// Two edge kinds exist: a resource is held by at most one thread
// (single-instance semantics), and a thread waits on at most one resource.
// The union of hold and request edges is the raw material for wait-for
// analysis in package detect.
//
// # Usage
//
// Build a graph through the validated mutators:
//
//	g := lockgraph.New()
//	g.AddThread("T1")
//	g.AddThread("T2")
//	g.AddResource("R1")
//	g.AddResource("R2")
//	g.SetHolds("T1", "R1")
//	g.SetHolds("T2", "R2")
//	g.SetRequests("T1", "R2")
//	g.SetRequests("T2", "R1")
//
// Malformed input is rejected at mutation time with sentinel errors
// (ErrUnknownThread, ErrUnknownResource, ErrResourceHeld), so downstream
// analysis never sees dangling references or doubly-held resources.
//
// A Graph owns its state for the duration of one analysis. It is not safe
// for concurrent mutation; use Clone to take a snapshot.
package lockgraph
