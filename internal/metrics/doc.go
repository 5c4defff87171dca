// Package metrics provides lock-free counters for engine observability.
//
// # Design
//
// Counters are fixed-slot uint64 values incremented atomically. The write
// path is allocation-free; Snapshot deep-copies the current values.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation only.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import authcore or any sibling package.
//   - Expose global metric registries.
package metrics
