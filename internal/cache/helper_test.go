package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSONRoundTrip(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var missing payload
	found, err := GetJSON(ctx, "nope", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "key", payload{Name: "alice", Count: 3}, time.Minute))

	var got payload
	found, err = GetJSON(ctx, "key", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "alice", Count: 3}, got)
}

func TestGetSetJSONWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "key", &payload{})
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "key", payload{}, time.Minute))
}

func TestCacheAsideFetchesOnMiss(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			fetches++
			*dest = payload{Name: "fetched", Count: fetches}
			return nil
		}
	}

	var first payload
	require.NoError(t, CacheAside(ctx, "k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "fetched", first.Name)

	// Second read is served from the cache.
	var second payload
	require.NoError(t, CacheAside(ctx, "k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)

	// After expiry the fetch runs again.
	mr.FastForward(2 * time.Minute)
	var third payload
	require.NoError(t, CacheAside(ctx, "k", &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, fetches)
}

func TestCacheAsidePropagatesFetchError(t *testing.T) {
	setupMiniredis(t)

	wantErr := errors.New("upstream down")
	var dest payload
	err := CacheAside(context.Background(), "k", &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestCacheAsideDegradesWhenRedisDown(t *testing.T) {
	mr := setupMiniredis(t)
	mr.Close()

	fetches := 0
	var dest payload
	err := CacheAside(context.Background(), "k", &dest, time.Minute, func() error {
		fetches++
		dest = payload{Name: "direct"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "direct", dest.Name)
}

func TestInvalidateProfile(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ProfileKey("did:plc:abc"), payload{Name: "cached"}, time.Minute))
	InvalidateProfile(ctx, "did:plc:abc")

	found, err := GetJSON(ctx, ProfileKey("did:plc:abc"), &payload{})
	require.NoError(t, err)
	assert.False(t, found)
}
