// Package report provides the fingerprint-keyed cache store for generated
// report entities.
package report

import "context"

// Store maps a request fingerprint to a previously generated entity.
type Store[E any] interface {
	// Get returns the entity stored under hash, or nil when absent. It is
	// side-effect free.
	Get(ctx context.Context, hash string) (*E, error)
	// Put inserts a freshly generated entity. Entities are never updated in
	// place; the pipeline's cache-hit branch guarantees Put is not called
	// twice for the same key under normal flow.
	Put(ctx context.Context, entity *E) error
}
