// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := NewRedisStore(context.Background(), types.CacheConfig{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Set(ctx, "12:logo", []byte(`"logo.png"`), time.Minute))
	assert.True(t, mr.Exists("portal:12:logo"))

	v, ok, err := s.Get(ctx, "12:logo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"logo.png"`, string(v))
	assert.Equal(t, 1, s.Len())

	mr.FastForward(2 * time.Minute)
	_, ok, err = s.Get(ctx, "12:logo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayerOverRedisSharesAcrossLayers(t *testing.T) {
	s, _ := newRedisStore(t)
	var calls int32
	fetch := func(context.Context) (features, error) {
		atomic.AddInt32(&calls, 1)
		return features{PressRelease: false, Order: []string{"news", "tour"}}, nil
	}

	first := New(s, "12")
	second := New(s, "12")

	_, err := Do(context.Background(), first, "features", SettingsTTL, fetch)
	require.NoError(t, err)
	got, err := Do(context.Background(), second, "features", SettingsTTL, fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"news", "tour"}, got.Order)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), types.CacheConfig{RedisAddr: addr})
	assert.Error(t, err)
}
