// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type features struct {
	PressRelease bool     `json:"press_release"`
	Order        []string `json:"order"`
}

func TestDoSharesConcurrentFetch(t *testing.T) {
	l := New(NewMemoryStore(16), "12")
	release := make(chan struct{})
	var calls int32

	fetch := func(context.Context) (features, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return features{PressRelease: true, Order: []string{"news"}}, nil
	}

	const n = 10
	var wg sync.WaitGroup
	results := make([]features, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Do(context.Background(), l, "features", SettingsTTL, fetch)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].PressRelease)
		assert.Equal(t, []string{"news"}, results[i].Order)
	}
}

func TestDoServesFreshResultFromStore(t *testing.T) {
	store := NewMemoryStore(16)
	now := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	l := New(store, "12")

	var calls int32
	fetch := func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	v, err := Do(context.Background(), l, "weather-data", SettingsTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	now = now.Add(29 * time.Minute)
	v, err = Do(context.Background(), l, "weather-data", SettingsTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "still fresh")

	now = now.Add(2 * time.Minute)
	v, err = Do(context.Background(), l, "weather-data", SettingsTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "stale entry refetched")
}

func TestDoZeroTTLDoesNotStore(t *testing.T) {
	l := New(nil, "")
	var calls int32
	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "page", nil
	}

	for i := 0; i < 3; i++ {
		_, err := Do(context.Background(), l, "article?search=", 0, fetch)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, l.Store().Len())
}

func TestDoDoesNotCacheErrors(t *testing.T) {
	l := New(NewMemoryStore(4), "12")
	boom := errors.New("upstream down")
	var calls int32
	fetch := func(context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", boom
		}
		return "ok", nil
	}

	_, err := Do(context.Background(), l, "k", SettingsTTL, fetch)
	assert.ErrorIs(t, err, boom)

	v, err := Do(context.Background(), l, "k", SettingsTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoCallerCancelLeavesFetchRunning(t *testing.T) {
	l := New(NewMemoryStore(4), "12")
	release := make(chan struct{})
	finished := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		defer close(finished)
		<-release
		return "late", ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Do(ctx, l, "slow", SettingsTTL, fetch)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-finished
	require.Eventually(t, func() bool { return l.Store().Len() == 1 }, time.Second, 5*time.Millisecond)

	v, err := Do(context.Background(), l, "slow", SettingsTTL, func(context.Context) (string, error) {
		return "", errors.New("should be served from store")
	})
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestNamespacesDoNotCollide(t *testing.T) {
	store := NewMemoryStore(8)
	a := New(store, "12")
	b := New(store, "21")

	_, err := Do(context.Background(), a, "logo", SettingsTTL, func(context.Context) (string, error) { return "a.png", nil })
	require.NoError(t, err)
	v, err := Do(context.Background(), b, "logo", SettingsTTL, func(context.Context) (string, error) { return "b.png", nil })
	require.NoError(t, err)
	assert.Equal(t, "b.png", v)

	require.NoError(t, a.Invalidate(context.Background(), "logo"))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Hour))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	_, _, _ = s.Get(ctx, "a")
	require.NoError(t, s.Set(ctx, "c", []byte("3"), time.Hour))

	_, ok, _ := s.Get(ctx, "b")
	assert.False(t, ok)
	v, ok, _ := s.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)
}
