package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProductCacheLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := newProductCache(30*time.Second, func() time.Time { return now })

	_, ok := c.Get()
	require.False(t, ok, "cache starts empty")

	c.Set([]Product{{MaterialNo: "P1"}})
	got, ok := c.Get()
	require.True(t, ok)
	require.Len(t, got, 1)

	now = now.Add(30 * time.Second)
	_, ok = c.Get()
	require.False(t, ok, "snapshot at the TTL boundary is stale")

	c.Set([]Product{{MaterialNo: "P1"}})
	c.Invalidate()
	_, ok = c.Get()
	require.False(t, ok, "invalidate drops the snapshot")
}

func TestProductCacheCachesEmptyList(t *testing.T) {
	c := newProductCache(time.Minute, nil)
	c.Set([]Product{})
	got, ok := c.Get()
	require.True(t, ok, "an empty inventory is still a valid snapshot")
	require.Empty(t, got)
}
