package fetch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sigFor(symbol string) Signature {
	return NewSignature("test", map[string]string{"symbol": symbol})
}

func TestCache_PutThenGet(t *testing.T) {
	c := NewCache(0)

	c.Put(sigFor("AAPL"), []byte("payload"), time.Minute)

	got, ok := c.Get(sigFor("AAPL"))
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}

func TestCache_ExpiredEntryIsAbsent(t *testing.T) {
	c := NewCache(0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put(sigFor("AAPL"), []byte("payload"), 180*time.Second)

	// Just before expiry the entry is live.
	c.now = func() time.Time { return now.Add(179 * time.Second) }
	_, ok := c.Get(sigFor("AAPL"))
	assert.True(t, ok)

	// At exactly the TTL boundary the entry is gone.
	c.now = func() time.Time { return now.Add(180 * time.Second) }
	_, ok = c.Get(sigFor("AAPL"))
	assert.False(t, ok)
}

func TestCache_PutOverwrites(t *testing.T) {
	c := NewCache(0)

	c.Put(sigFor("AAPL"), []byte("old"), time.Minute)
	c.Put(sigFor("AAPL"), []byte("new"), time.Minute)

	got, ok := c.Get(sigFor("AAPL"))
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ZeroTTLNotStored(t *testing.T) {
	c := NewCache(0)

	c.Put(sigFor("AAPL"), []byte("payload"), 0)

	_, ok := c.Get(sigFor("AAPL"))
	assert.False(t, ok)
}

func TestCache_CapEvictsExpiredBeforeLive(t *testing.T) {
	c := NewCache(2)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put(sigFor("DEAD"), []byte("dead"), time.Second)
	c.Put(sigFor("LIVE"), []byte("live"), time.Hour)

	// DEAD has expired by the time the cap is exceeded.
	c.now = func() time.Time { return now.Add(2 * time.Second) }
	c.Put(sigFor("NEW"), []byte("new"), time.Hour)

	_, ok := c.Get(sigFor("LIVE"))
	assert.True(t, ok, "live entry must never be evicted in preference to an expired one")
	_, ok = c.Get(sigFor("NEW"))
	assert.True(t, ok)
	_, ok = c.Get(sigFor("DEAD"))
	assert.False(t, ok)
}

func TestCache_CapEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Put(sigFor("A"), []byte("a"), time.Hour)

	c.now = func() time.Time { return now.Add(time.Second) }
	c.Put(sigFor("B"), []byte("b"), time.Hour)

	// Touch A so B becomes the least recently used.
	c.now = func() time.Time { return now.Add(2 * time.Second) }
	_, ok := c.Get(sigFor("A"))
	require.True(t, ok)

	c.now = func() time.Time { return now.Add(3 * time.Second) }
	c.Put(sigFor("C"), []byte("c"), time.Hour)

	_, ok = c.Get(sigFor("A"))
	assert.True(t, ok)
	_, ok = c.Get(sigFor("B"))
	assert.False(t, ok)
	_, ok = c.Get(sigFor("C"))
	assert.True(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(128)
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sig := sigFor(fmt.Sprintf("SYM%d", j%8))
				c.Put(sig, []byte(fmt.Sprintf("worker-%d", n)), time.Minute)
				if payload, ok := c.Get(sig); ok {
					// No torn reads: any observed value is a complete write.
					assert.Contains(t, string(payload), "worker-")
				}
			}
		}(i)
	}

	wg.Wait()
}
