// Package dataloader provides request-scoped batching, deduplication, and
// caching of keyed lookups, preventing N+1 query patterns in GraphQL resolvers.
//
// Go has no microtask queue, so batch boundaries use a two-phase protocol:
// Load registers a key and returns a Thunk without fetching anything. The
// first Thunk invocation flushes the pending batch, so every Load issued
// before any thunk fires is collected into a single batch fetch. Loads issued
// after a flush start a new batch.
package dataloader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"catalog-graphql/internal/observability"
)

// ErrBatchLength indicates a batch function returned a result slice whose
// length does not match its key slice. Misaligned results would silently
// hand callers the wrong records, so the whole batch fails instead.
var ErrBatchLength = errors.New("dataloader: batch result length mismatch")

// BatchFunc fetches values for an ordered slice of distinct keys in one round
// trip. The returned slice must have exactly one entry per key, position i
// corresponding to keys[i], with the zero value for keys without a matching
// record.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, error)

// Thunk is a deferred load result. The first invocation flushes the pending
// batch; every invocation returns the memoized result.
type Thunk[V any] func() (V, error)

// Loader batches and caches lookups for one key/value pairing. A Loader
// instance lives for exactly one request; it must never be shared across
// requests.
type Loader[K comparable, V any] struct {
	name    string
	fetch   BatchFunc[K, V]
	mu      sync.Mutex
	cache   map[K]Thunk[V]
	pending *batch[K, V]
}

// New creates a loader around a batch fetch function. The name labels batch
// and cache metrics.
func New[K comparable, V any](name string, fetch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		name:  name,
		fetch: fetch,
		cache: make(map[K]Thunk[V]),
	}
}

type batch[K comparable, V any] struct {
	loader *Loader[K, V]
	keys   []K
	index  map[K]int
	once   sync.Once
	values []V
	err    error
}

// Load registers a key with the pending batch and returns a thunk for its
// value. Keys already resolved (or already registered) within this request
// are served from cache without occupying a new batch slot.
func (l *Loader[K, V]) Load(ctx context.Context, key K) Thunk[V] {
	l.mu.Lock()
	defer l.mu.Unlock()

	metrics := observability.LoaderMetricsFromContext(ctx)

	if thunk, ok := l.cache[key]; ok {
		if metrics != nil {
			metrics.RecordCacheHit(ctx, l.name)
		}
		return thunk
	}
	if metrics != nil {
		metrics.RecordCacheMiss(ctx, l.name)
	}

	if l.pending == nil {
		l.pending = &batch[K, V]{
			loader: l,
			index:  make(map[K]int),
		}
	}
	b := l.pending

	pos, ok := b.index[key]
	if !ok {
		pos = len(b.keys)
		b.keys = append(b.keys, key)
		b.index[key] = pos
	}

	thunk := Thunk[V](func() (V, error) {
		b.resolve(ctx)
		if b.err != nil {
			var zero V
			return zero, b.err
		}
		return b.values[pos], nil
	})
	l.cache[key] = thunk
	return thunk
}

// LoadMany registers every key and returns a thunk for the combined result.
// The result slice is positional: it has one entry per requested key,
// duplicates included, even though duplicated keys share one batch slot.
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) Thunk[[]V] {
	thunks := make([]Thunk[V], len(keys))
	for i, key := range keys {
		thunks[i] = l.Load(ctx, key)
	}

	return func() ([]V, error) {
		values := make([]V, len(thunks))
		for i, thunk := range thunks {
			value, err := thunk()
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		return values, nil
	}
}

// Prime seeds the cache with an already-known value. Existing entries win.
func (l *Loader[K, V]) Prime(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cache[key]; ok {
		return
	}
	l.cache[key] = func() (V, error) {
		return value, nil
	}
}

func (b *batch[K, V]) resolve(ctx context.Context) {
	b.once.Do(func() {
		// Detach so loads issued after this flush start a new batch.
		b.loader.mu.Lock()
		if b.loader.pending == b {
			b.loader.pending = nil
		}
		b.loader.mu.Unlock()

		if metrics := observability.LoaderMetricsFromContext(ctx); metrics != nil {
			metrics.RecordBatchFetch(ctx, b.loader.name, int64(len(b.keys)))
		}

		values, err := b.fetchValues(ctx)
		b.values = values
		b.err = err
	})
}

func (b *batch[K, V]) fetchValues(ctx context.Context) ([]V, error) {
	values, err := b.loader.fetch(ctx, b.keys)
	if err != nil {
		return nil, err
	}
	if len(values) != len(b.keys) {
		return nil, fmt.Errorf("%w: loader %s got %d results for %d keys",
			ErrBatchLength, b.loader.name, len(values), len(b.keys))
	}
	return values, nil
}
