package cache

import (
	"net/url"
	"testing"
	"time"
)

func TestPool_BasicOperations(t *testing.T) {
	p := New(10, time.Minute)

	p.Put("GET:/api/datasets", []byte(`{"a":1}`), `"etag1"`, 0)

	body, etag, found := p.Get("GET:/api/datasets")
	if !found {
		t.Fatal("expected to find key")
	}
	if string(body) != `{"a":1}` || etag != `"etag1"` {
		t.Errorf("got body=%s etag=%s", body, etag)
	}

	_, _, found = p.Get("GET:/nonexistent")
	if found {
		t.Error("should not find nonexistent key")
	}
}

func TestPool_TTLExpiration(t *testing.T) {
	p := New(10, 50*time.Millisecond)
	p.Put("k", []byte("v"), "e", 50*time.Millisecond)

	if _, _, found := p.Get("k"); !found {
		t.Fatal("key should exist immediately")
	}

	time.Sleep(80 * time.Millisecond)

	if _, _, found := p.Get("k"); found {
		t.Fatal("key should have expired")
	}
	if p.Stats().Misses != 1 {
		t.Fatalf("expired read should count as a miss, stats=%+v", p.Stats())
	}
}

func TestPool_LRUEviction(t *testing.T) {
	p := New(2, time.Minute)
	p.Put("a", []byte("1"), "", 0)
	p.Put("b", []byte("2"), "", 0)

	// touch "a" so "b" becomes least-recently-used
	p.Get("a")

	p.Put("c", []byte("3"), "", 0)

	if _, _, found := p.Get("b"); found {
		t.Fatal("b should have been evicted as LRU victim")
	}
	if _, _, found := p.Get("a"); !found {
		t.Fatal("a should survive, it was touched before eviction")
	}
	if _, _, found := p.Get("c"); !found {
		t.Fatal("c should be present, it was just inserted")
	}
	if p.Stats().Size != 2 {
		t.Fatalf("size = %d, want 2 (capacity never exceeded)", p.Stats().Size)
	}
}

func TestPool_NeverExceedsCapacity(t *testing.T) {
	p := New(5, time.Minute)
	for i := 0; i < 100; i++ {
		p.Put(string(rune('a'+i%26))+string(rune(i)), []byte("v"), "", 0)
		if p.Stats().Size > 5 {
			t.Fatalf("size exceeded capacity: %d", p.Stats().Size)
		}
	}
}

func TestPool_Invalidate_RemovesMatchingPrefix(t *testing.T) {
	p := New(10, time.Minute)
	p.Put("GET:/api/datasets/cea-transactions/data", []byte("1"), "", 0)
	p.Put("GET:/api/datasets/cea-transactions/stats", []byte("2"), "", 0)
	p.Put("GET:/api/datasets/other-dataset/data", []byte("3"), "", 0)

	removed := p.Invalidate("cea-transactions")
	if removed != 2 {
		t.Fatalf("Invalidate removed %d entries, want 2", removed)
	}
	if _, _, found := p.Get("GET:/api/datasets/other-dataset/data"); !found {
		t.Fatal("unrelated dataset entry should survive invalidation")
	}
}

func TestPool_HitRate(t *testing.T) {
	p := New(10, time.Minute)
	p.Put("k", []byte("v"), "", 0)

	p.Get("k")
	p.Get("k")
	p.Get("missing")

	stats := p.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("stats = %+v, want hits=2 misses=1", stats)
	}
	want := 2.0 / 3.0
	if stats.HitRate != want {
		t.Fatalf("HitRate = %v, want %v", stats.HitRate, want)
	}
}

func TestCanonicalKey_SortsQueryParamsAndExcludesFiltered(t *testing.T) {
	q := url.Values{"limit": {"50"}, "page": {"2"}}
	key, cacheable := CanonicalKey("GET", "/api/datasets/x/data", q)
	if !cacheable {
		t.Fatal("expected cacheable request")
	}
	if key != "GET:/api/datasets/x/data?limit=50&page=2" {
		t.Fatalf("key = %q", key)
	}

	// Param order must not affect the key.
	q2 := url.Values{"page": {"2"}, "limit": {"50"}}
	key2, _ := CanonicalKey("GET", "/api/datasets/x/data", q2)
	if key != key2 {
		t.Fatalf("keys differ by param order: %q vs %q", key, key2)
	}
}

func TestCanonicalKey_FiltersAndSearchAreUncacheable(t *testing.T) {
	if _, cacheable := CanonicalKey("GET", "/x", url.Values{"filters": {"{}"}}); cacheable {
		t.Fatal("requests carrying filters must not be cached")
	}
	if _, cacheable := CanonicalKey("GET", "/x", url.Values{"search": {"alice"}}); cacheable {
		t.Fatal("requests carrying search must not be cached")
	}
}

func TestPools_UseDocumentedCapacities(t *testing.T) {
	pools := NewPools()
	if pools.API.capacity != APICapacity || pools.Stats.capacity != StatsCapacity {
		t.Fatal("pool capacities must match the documented limits")
	}
}
