package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"buble/internal/driver"
	"buble/internal/project"
	"buble/internal/target"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	opts := defaultOptions(t)
	opts.Cache = cache
	src := []byte("var s = `a${b}`;")

	first, err := driver.Compile(context.Background(), src, "t.js", opts)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := driver.Compile(context.Background(), src, "t.js", opts)
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Code, second.Code)
	require.Equal(t, first.Map.Mappings, second.Map.Mappings)

	require.NoError(t, cache.DropAll())
	third, err := driver.Compile(context.Background(), src, "t.js", opts)
	require.NoError(t, err)
	require.False(t, third.Cached)
}

func TestDiskCacheMiss(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	var payload driver.DiskPayload
	ok, err := cache.Get(project.HashString("nothing"), &payload)
	require.NoError(t, err)
	require.False(t, ok)

	var nilCache *driver.DiskCache
	require.NoError(t, nilCache.Put(project.HashString("x"), &driver.DiskPayload{}))
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	content := project.HashString("var a = 1;")
	opts := defaultOptions(t).Transform

	base := driver.CacheKey(content, opts)
	require.Equal(t, base, driver.CacheKey(content, opts))

	changed := opts
	changed.Transforms = changed.Transforms.With(target.Arrow, false)
	require.NotEqual(t, base, driver.CacheKey(content, changed))

	changed = opts
	changed.JSX = "h"
	require.NotEqual(t, base, driver.CacheKey(content, changed))

	require.NotEqual(t, base, driver.CacheKey(project.HashString("var a = 2;"), opts))
}
