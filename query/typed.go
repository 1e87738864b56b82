package query

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// GetAs is the typed form of Manager.Get. The cache holds values as `any`;
// this wrapper keeps the assertion in one place.
func GetAs[T any](ctx context.Context, m *Manager, key Key, staleAfter time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	value, err := m.Get(ctx, key, staleAfter, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, errors.Errorf("[query.GetAs] cache entry %q holds %T", key.String(), value)
	}
	return typed, nil
}

// MutateAs is the typed form of Manager.Mutate.
func MutateAs[T any](ctx context.Context, m *Manager, fn func(ctx context.Context) (T, error), inv Invalidation) (T, error) {
	var zero T
	value, err := m.Mutate(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, inv)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, errors.Errorf("[query.MutateAs] mutation returned %T", value)
	}
	return typed, nil
}
