package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxe-marketplace/internal/models"
	"luxe-marketplace/internal/testutil"
)

type stubSource struct {
	vehicles []models.Vehicle
	err      error
	calls    int
}

func (s *stubSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vehicles, nil
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCache(client, time.Minute)
}

func TestRedisCache_SetGet(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	in := []models.Vehicle{testutil.NewVehicle(1), testutil.NewVehicle(2, testutil.WithBrand("Audi"))}
	require.NoError(t, cache.Set(ctx, in))
	assert.True(t, mr.Exists(defaultCacheKey))
	assert.Equal(t, time.Minute, mr.TTL(defaultCacheKey))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "entry expires after the TTL")
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, cache := newTestCache(t)
	require.NoError(t, mr.Set(defaultCacheKey, "{not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCachedSource_ReadThrough(t *testing.T) {
	_, cache := newTestCache(t)
	origin := &stubSource{vehicles: []models.Vehicle{testutil.NewVehicle(1)}}
	src := NewCachedSource(origin, cache, testutil.Logger(t))
	ctx := context.Background()

	got, err := src.FetchVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, testutil.IDs(got))

	got, err = src.FetchVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, testutil.IDs(got))
	assert.Equal(t, 1, origin.calls, "second read served from cache")

	require.NoError(t, src.Invalidate(ctx))
	_, err = src.FetchVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.calls)
}

func TestCachedSource_CacheDown(t *testing.T) {
	mr, cache := newTestCache(t)
	origin := &stubSource{vehicles: []models.Vehicle{testutil.NewVehicle(5)}}
	src := NewCachedSource(origin, cache, testutil.Logger(t))
	mr.Close()

	got, err := src.FetchVehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{5}, testutil.IDs(got))
}

func TestCachedSource_OriginError(t *testing.T) {
	_, cache := newTestCache(t)
	boom := errors.New("boom")
	src := NewCachedSource(&stubSource{err: boom}, cache, testutil.Logger(t))

	_, err := src.FetchVehicles(context.Background())
	assert.ErrorIs(t, err, boom)
}
