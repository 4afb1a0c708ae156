package catalog

import (
	"testing"
	"time"

	"github.com/tessro/chorus/internal/core"
)

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute, 4)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := SearchOptions{Term: "ditto", Entity: "song", Limit: 200, Country: "KR"}
	c.Put(key, []core.Track{{ID: 1}})

	if got, ok := c.Get(key); !ok || len(got) != 1 {
		t.Fatalf("Get() = %v, %v; want one track", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Error("Get() hit after ttl, want miss")
	}
}

func TestCacheDistinguishesKeys(t *testing.T) {
	c := NewCache(time.Minute, 4)
	c.Put(SearchOptions{Term: "a"}, []core.Track{{ID: 1}})
	c.Put(SearchOptions{Term: "b"}, []core.Track{{ID: 2}})

	got, ok := c.Get(SearchOptions{Term: "b"})
	if !ok || got[0].ID != 2 {
		t.Errorf("Get(b) = %v, %v", got, ok)
	}
	if _, ok := c.Get(lookupKey{ID: 1}); ok {
		t.Error("Get(lookupKey) hit, want miss")
	}
}

func TestCacheEvictsWhenFull(t *testing.T) {
	c := NewCache(time.Minute, 2)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	c.now = func() time.Time { return base.Add(time.Duration(step) * time.Second) }

	for i, term := range []string{"a", "b", "c"} {
		step = i
		c.Put(SearchOptions{Term: term}, []core.Track{{ID: int64(i)}})
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(SearchOptions{Term: "a"}); ok {
		t.Error("oldest entry survived eviction")
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	c.Put(SearchOptions{Term: "x"}, nil)
	if _, ok := c.Get(SearchOptions{Term: "x"}); ok {
		t.Error("nil cache hit")
	}
	if NewCache(0, 10) != nil {
		t.Error("NewCache(0) != nil, want disabled cache")
	}
}
