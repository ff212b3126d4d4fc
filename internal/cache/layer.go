// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is the query layer between the portal and the content API.
// Identical concurrent queries share one upstream fetch; results fetched with
// a positive TTL are kept in a Store and reused until stale. Errors are never
// cached.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kominfo-muaraenim/portal/internal/metrics"
)

// SettingsTTL is the staleness window for settings, feature flags and weather.
const SettingsTTL = 30 * time.Minute

// Layer deduplicates and caches fetches by key. Keys are prefixed with the
// layer's namespace so tenants sharing a Store never collide.
type Layer struct {
	group     singleflight.Group
	store     Store
	namespace string
}

// New returns a Layer over store. A nil store gets a default MemoryStore.
func New(store Store, namespace string) *Layer {
	if store == nil {
		store = NewMemoryStore(0)
	}
	return &Layer{store: store, namespace: namespace}
}

// Store returns the backing store.
func (l *Layer) Store() Store { return l.store }

func (l *Layer) key(key string) string {
	if l.namespace == "" {
		return key
	}
	return l.namespace + ":" + key
}

// Invalidate drops the stored result for key. In-flight fetches are not affected.
func (l *Layer) Invalidate(ctx context.Context, key string) error {
	return l.store.Delete(ctx, l.key(key))
}

// Do returns the result for key, calling fetch at most once for all
// concurrent callers with the same key. With ttl > 0 a successful result is
// stored and served until it is stale; ttl == 0 only shares in-flight calls.
//
// The shared fetch runs detached from any single caller's cancellation. A
// caller whose ctx ends stops waiting and gets ctx.Err().
func Do[T any](ctx context.Context, l *Layer, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	full := l.key(key)

	if ttl > 0 {
		if v, ok := lookup[T](ctx, l, full); ok {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return v, nil
		}
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(full, func() (any, error) {
		metrics.CacheInflight.Inc()
		defer metrics.CacheInflight.Dec()

		v, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if ttl > 0 {
			l.save(fetchCtx, full, v, ttl)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.CacheRequests.WithLabelValues("shared").Inc()
		} else {
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		}
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Val == nil {
			return zero, nil
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache key %q holds %T, not the requested type", key, res.Val)
		}
		return v, nil
	}
}

func lookup[T any](ctx context.Context, l *Layer, key string) (T, bool) {
	var v T
	data, ok, err := l.store.Get(ctx, key)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "error", err)
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = l.store.Delete(ctx, key)
		return v, false
	}
	return v, true
}

func (l *Layer) save(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := l.store.Set(ctx, key, data, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}
