package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLookupResolvesLegacyAlias(t *testing.T) {
	c := Default()

	direct, ok := c.Lookup("china_yiwu")
	require.True(t, ok)

	aliased, ok := c.Lookup("chaina_yiwu")
	require.True(t, ok)
	require.Equal(t, direct, aliased)
}

func TestLettersFallsBackToSentinel(t *testing.T) {
	c := Default()
	require.Equal(t, "YW", c.Letters("china_yiwu"))
	require.Equal(t, UnknownLetters, c.Letters("factory_nobody_heard_of"))
}

func TestListPreservesOrderAndIsACopy(t *testing.T) {
	c := Default()
	list := c.List()
	require.Len(t, list, 18)
	require.Equal(t, "china_zhongshan", list[0].Code)

	list[0].Code = "mutated"
	again := c.List()
	require.Equal(t, "china_zhongshan", again[0].Code)
}

func TestCacheListRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(client, Default(), time.Minute)
	ctx := context.Background()

	first, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 18)
	require.True(t, mr.Exists("catalog:factories"))

	second, err := cache.List(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NoError(t, cache.Invalidate(ctx))
	require.False(t, mr.Exists("catalog:factories"))
}
