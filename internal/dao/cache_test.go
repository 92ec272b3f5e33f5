package dao

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageSnap(i int) QuerySnapshot {
	s := NewQuerySnapshot()
	s.Pagination.PageIndex = i
	return s
}

func TestQueryCacheIndependentKeys(t *testing.T) {
	t.Parallel()

	c := NewQueryCache(4, time.Minute)
	a, b := pageSnap(0), pageSnap(1)
	pa := &ResultPage{Rows: []Record{{ID: 1}}, TotalRowCount: 25}

	c.Set(a, pa)

	got, ok := c.Get(a)
	require.True(t, ok)
	assert.Same(t, pa, got)

	_, ok = c.Get(b)
	assert.False(t, ok)

	pb := &ResultPage{Rows: []Record{{ID: 11}}, TotalRowCount: 25}
	c.Set(b, pb)
	got, ok = c.Get(a)
	require.True(t, ok)
	assert.Same(t, pa, got)

	st := c.Stats()
	assert.Equal(t, 2, st.Size)
	assert.Equal(t, int64(2), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
}

func TestQueryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := NewQueryCache(2, time.Minute)
	c.Set(pageSnap(0), &ResultPage{})
	c.Set(pageSnap(1), &ResultPage{})

	_, ok := c.Get(pageSnap(0))
	require.True(t, ok)

	c.Set(pageSnap(2), &ResultPage{})

	_, ok = c.Get(pageSnap(1))
	assert.False(t, ok)
	_, ok = c.Get(pageSnap(0))
	assert.True(t, ok)
	_, ok = c.Get(pageSnap(2))
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestQueryCacheExpires(t *testing.T) {
	t.Parallel()

	c := NewQueryCache(4, 20*time.Millisecond)
	c.Set(pageSnap(0), &ResultPage{})

	_, ok := c.Get(pageSnap(0))
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.Get(pageSnap(0))
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestQueryCacheInvalidate(t *testing.T) {
	t.Parallel()

	c := NewQueryCache(0, 0)
	c.Set(pageSnap(0), &ResultPage{})
	c.Set(pageSnap(1), &ResultPage{})

	c.Invalidate(pageSnap(0))
	_, ok := c.Get(pageSnap(0))
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
