// Package report assembles analysis output into presentation-ready
// snapshots.
//
// A Snapshot is the contract between the engine and its consumers (HTTP
// dashboard, CLI report, renderer): the allocation graph as node/link
// lists, the acquisition timeline, deadlock records and recommended
// strategies. Consumers read snapshots; they never mutate them.
//
// Serialization helpers (Marshal, Write, WriteFile, Read, ReadFile) move
// snapshots through files and pipes as indented JSON.
package report
