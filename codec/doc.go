// Package codec provides the encodings used to hold component state at rest.
//
// Values stored in a state cache are serialized rather than retained, so the
// caller's object graph can be collected independently of the cache entry.
// The Graph codec tolerates shared and circular references; the JSON codec
// produces conventional JSON for acyclic values.
package codec
