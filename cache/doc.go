// Package cache provides a component-scoped, in-memory state store.
//
// A Store holds a two-level mapping of section to key to serialized value.
// Values are encoded on Set and reconstructed on every Get, so callers never
// share a live object with the cache and cyclic graphs survive the round trip.
// Accessors travel down a call tree through context.Context; see WithStore and
// FromContext.
package cache
