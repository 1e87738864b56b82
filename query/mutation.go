package query

import "context"

// MutateFunc performs exactly one API client write call.
type MutateFunc func(ctx context.Context) (any, error)

// Invalidation names the cache state a successful mutation makes stale.
// Resources invalidate every key under a resource name; Keys target exact
// entries. Prefer over-invalidating to missing a dependent key.
type Invalidation struct {
	Keys      []Key
	Resources []string
}

// Mutate runs one write. On success the declared invalidation is applied so
// the next reads fetch authoritative state; on failure the cache is left
// untouched and the error surfaces to the caller. Writes are never retried
// here, to avoid duplicate side effects.
func (m *Manager) Mutate(ctx context.Context, fn MutateFunc, inv Invalidation) (any, error) {
	value, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	for _, resource := range inv.Resources {
		m.InvalidateResource(resource)
	}
	if len(inv.Keys) > 0 {
		m.Invalidate(inv.Keys...)
	}
	return value, nil
}
