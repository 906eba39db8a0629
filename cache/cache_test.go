package cache

import (
	"expvar"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_PutGetEvict(t *testing.T) {
	var evicted []int
	c := NewLRU[int, string](2, Callbacks[int, string]{
		OnEvicted: func(key int, _ string) { evicted = append(evicted, key) },
	})

	c.Put(1, "35_22")
	c.Put(2, "35_23")
	_, ok := c.Get(1) // 1 becomes most recent
	require.True(t, ok)

	c.Put(3, "36_22")
	assert.Equal(t, []int{2}, evicted)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get(2)
	assert.False(t, ok)
	v, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "36_22", v)

	c.Put(3, "replaced")
	v, _ = c.Get(3)
	assert.Equal(t, "replaced", v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_Disabled(t *testing.T) {
	misses := 0
	c := NewLRU[int, int](0, Callbacks[int, int]{OnMiss: func(int) { misses++ }})
	c.Put(1, 1)
	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, misses, "a disabled cache does not count lookups")
}

func TestLRU_MetricsAndCallbacks(t *testing.T) {
	hits, misses := new(expvar.Int), new(expvar.Int)
	var hitKeys, missKeys []int
	c := NewLRU[int, int](4, Callbacks[int, int]{
		OnHit:  func(k int) { hitKeys = append(hitKeys, k) },
		OnMiss: func(k int) { missKeys = append(missKeys, k) },
	})
	c.SetMetrics(hits, misses)

	assert.Equal(t, 0.0, c.GetHitRate())
	c.Get(1)
	c.Put(1, 10)
	c.Get(1)
	c.Get(1)
	c.Get(2)

	assert.Equal(t, int64(2), hits.Value())
	assert.Equal(t, int64(2), misses.Value())
	assert.InDelta(t, 0.5, c.GetHitRate(), 1e-9)
	assert.Equal(t, []int{1, 1}, hitKeys)
	assert.Equal(t, []int{1, 2}, missKeys)

	c.Remove(1)
	assert.Equal(t, 0, c.Len())

	c.Put(5, 50)
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), hits.Value())
}
