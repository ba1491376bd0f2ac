package ports

import "context"

// Cache is a persistent key-value store keyed by problem slug.
// Get reports false for missing and unreadable entries alike.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Put(ctx context.Context, key string, value T) error
}
