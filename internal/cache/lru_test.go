package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	c.Set("a", "updated")
	v, _ = c.Get("a")
	assert.Equal(t, "updated", v)
	assert.Equal(t, 2, c.Size())

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, Stats{Hits: 2, Misses: 1}, c.Stats())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestLRUExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](4, time.Minute).WithClock(clock.now)
	c.Set("a", 1)
	c.Set("b", 2)

	clock.t = clock.t.Add(30 * time.Second)
	c.Set("c", 3)

	clock.t = clock.t.Add(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.CleanExpired(), "b expired too")
	assert.Equal(t, 1, c.Size())
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUZeroTTLNeverExpires(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := NewLRUCache[int](1, 0).WithClock(clock.now)
	c.Set("a", 1)
	clock.t = clock.t.Add(24 * time.Hour)
	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestLRUDisabledAndClear(t *testing.T) {
	off := NewLRUCache[int](0, time.Minute)
	off.Set("a", 1)
	assert.Equal(t, 0, off.Size())

	c := NewLRUCache[int](3, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	assert.Equal(t, 1, c.Size())
	c.Clear()
	assert.Equal(t, 0, c.Size())
	c.Set("z", 26)
	assert.Equal(t, 1, c.Size())
}

func TestLRUConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](8, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			c.Set(key, i)
			c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 8)
}
