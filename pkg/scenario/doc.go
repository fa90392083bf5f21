// Package scenario supplies allocation scenarios to the analysis engine.
//
// A Scenario is a declarative snapshot of threads, resources, initial
// holdings and pending requests. Scenarios can be loaded from TOML
// manifests, generated (the circular-wait demo and a seeded random
// generator), or constructed directly. Building a scenario produces a
// validated lockgraph.Graph plus a deterministic acquisition timeline for
// presentation layers.
//
// The generators are demo conveniences and the only place randomness is
// allowed; the engine downstream is a pure function of the built graph.
package scenario
