package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/luarss/cea-live/internal/apperr"
	"github.com/luarss/cea-live/internal/cache"
	"github.com/luarss/cea-live/internal/cond"
	"github.com/luarss/cea-live/internal/metrics"
)

// serveJSON implements the CACHE -> COND read-through described in
// the documented contract: a cache hit is served straight from the pool (subject to
// conditional-response short-circuiting); a miss runs compute, stamps
// an ETag over the serialized body, and populates the pool before
// replying. Requests carrying "filters" or "search" are never cached,
// per cache.CanonicalKey.
func serveJSON(w http.ResponseWriter, r *http.Request, pool *cache.Pool, poolName string, collector *metrics.Collector, compute func() (interface{}, error)) {
	key, cacheable := cache.CanonicalKey(r.Method, r.URL.Path, r.URL.Query())

	if cacheable {
		if body, etag, ok := pool.Get(key); ok {
			collector.ObserveCacheLookup(poolName, true)
			writeBody(w, r, etag, body, "HIT")
			return
		}
		collector.ObserveCacheLookup(poolName, false)
	}

	data, err := compute()
	if err != nil {
		WriteError(w, err)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		WriteError(w, apperr.Wrap(err, "serialize response body"))
		return
	}

	etag := cond.Stamp(body)
	if cacheable {
		pool.Put(key, body, etag, 0)
	}
	writeBody(w, r, etag, body, "MISS")
}

// writeBody applies the conditional-response short-circuit, then
// writes either a 304 with no body or a 200 with the full body,
// stamping ETag and X-Cache on both paths.
func writeBody(w http.ResponseWriter, r *http.Request, etag string, body []byte, cacheResult string) {
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Cache", cacheResult)

	if cond.Matches(etag, r.Header.Get("If-None-Match")) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeRaw serves a pre-encoded JSON document (the dataset catalog
// passthrough) through the same ETag/X-Cache machinery without a
// compute step, since the catalog is loaded once at startup.
func writeRaw(w http.ResponseWriter, r *http.Request, body []byte) {
	etag := cond.Stamp(body)
	writeBody(w, r, etag, body, "MISS")
}
