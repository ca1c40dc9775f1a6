package dataloader

import (
	"context"
	"sync"
)

// Registry holds every loader constructed during one request. It is stored in
// the request context, never in package state, so loader caches are discarded
// when the request ends.
type Registry struct {
	mu      sync.Mutex
	loaders map[string]any
}

type registryKey struct{}

// NewContext injects a fresh request-scoped loader registry.
func NewContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, registryKey{}, &Registry{
		loaders: make(map[string]any),
	})
}

// FromContext retrieves the loader registry from context.
func FromContext(ctx context.Context) (*Registry, bool) {
	if ctx == nil {
		return nil, false
	}
	registry, ok := ctx.Value(registryKey{}).(*Registry)
	return registry, ok
}

// Acquire returns the request's loader registered under key, constructing it
// with newFn on first use. Without a registry in context a fresh loader is
// returned; it still batches but shares no cache with other call sites.
func Acquire[K comparable, V any](ctx context.Context, key string, newFn func() *Loader[K, V]) *Loader[K, V] {
	registry, ok := FromContext(ctx)
	if !ok {
		return newFn()
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if existing, ok := registry.loaders[key]; ok {
		if loader, ok := existing.(*Loader[K, V]); ok {
			return loader
		}
	}
	loader := newFn()
	registry.loaders[key] = loader
	return loader
}
