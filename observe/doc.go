// Package observe provides observability primitives for component state
// operations.
//
// It is a pure instrumentation library: no storage, no transport, no I/O
// beyond exporter setup. A cache.Store built with a Middleware traces, counts
// and logs every get, set and remove it serves.
package observe
