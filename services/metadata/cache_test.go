package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	cache, err := NewFileCache(afero.NewMemMapFs(), "/cache", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	var missing []MovieResult
	ok, err := cache.Get(ctx, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "popular", []MovieResult{{ID: 603, Title: "The Matrix"}}))

	var got []MovieResult
	ok, err = cache.Get(ctx, "popular", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "The Matrix", got[0].Title)
}

func TestFileCacheExpiresEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache, err := NewFileCache(fs, "/cache", time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}))

	now = now.Add(2 * time.Minute)
	var v map[string]int
	ok, err := cache.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := afero.Exists(fs, "/cache/k.json")
	require.NoError(t, err)
	assert.False(t, exists, "expired entry is removed")
}

func TestFileCacheIgnoresCorruptEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	cache, err := NewFileCache(fs, "/cache", 0)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/cache/bad.json", []byte("{not json"), 0o644))

	var v any
	ok, err := cache.Get(context.Background(), "bad", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheClear(t *testing.T) {
	cache, err := NewFileCache(afero.NewMemMapFs(), "/cache", 0)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", 1))
	require.NoError(t, cache.Set(ctx, "b", 2))

	require.NoError(t, cache.Clear(ctx))

	var v int
	ok, err := cache.Get(ctx, "a", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFileCacheRequiresDir(t *testing.T) {
	_, err := NewFileCache(afero.NewMemMapFs(), "", 0)
	assert.Error(t, err)
}

func TestRedisCacheDisabledWithoutURL(t *testing.T) {
	cache := NewRedisCache("", time.Minute)
	ctx := context.Background()

	assert.False(t, cache.Enabled())
	assert.Nil(t, cache.Client())
	assert.NoError(t, cache.Set(ctx, "k", 1))

	var v int
	ok, err := cache.Get(ctx, "k", &v)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Clear(ctx))
	assert.NoError(t, cache.Close())
}

func TestRedisCacheDisabledOnBadURL(t *testing.T) {
	cache := NewRedisCache("://not-a-url", time.Minute)
	assert.False(t, cache.Enabled())
}
