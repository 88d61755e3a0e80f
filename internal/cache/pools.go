package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// Sizing per the documented pool limits.
const (
	APICapacity   = 200
	APITTL        = 10 * time.Minute
	StatsCapacity = 50
	StatsTTL      = 30 * time.Minute
)

// Pools holds the two independent pools the engine serves requests
// from: API for paginated rows, Stats for aggregates, time-series,
// insights, and agent endpoints. The dataset listing and dataset
// metadata are not cached in either pool; they are served straight
// from the in-memory catalog.
type Pools struct {
	API   *Pool
	Stats *Pool
}

// NewPools constructs both pools at their documented sizes.
func NewPools() *Pools {
	return &Pools{
		API:   New(APICapacity, APITTL),
		Stats: New(StatsCapacity, StatsTTL),
	}
}

// InvalidateDataset flushes every entry in both pools whose key
// references datasetID.
func (p *Pools) InvalidateDataset(datasetID string) int {
	return p.API.Invalidate(datasetID) + p.Stats.Invalidate(datasetID)
}

// PoolStats bundles both pools' Stats for the /api/cache/stats response.
type PoolStats struct {
	API   Stats
	Stats Stats
}

// Snapshot returns the current counters for both pools.
func (p *Pools) Snapshot() PoolStats {
	return PoolStats{API: p.API.Stats(), Stats: p.Stats.Stats()}
}

// CanonicalKey builds the cache key described in the documented contract:
// METHOD + ":" + request-line-with-sorted-query-params. Requests
// carrying "filters" or "search" are never cached (cardinality too
// high), signalled by the second return value.
func CanonicalKey(method, path string, query url.Values) (key string, cacheable bool) {
	if len(query["filters"]) > 0 || len(query["search"]) > 0 {
		return "", false
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(':')
	b.WriteString(path)

	if len(keys) > 0 {
		b.WriteByte('?')
		for i, k := range keys {
			vals := append([]string(nil), query[k]...)
			sort.Strings(vals)
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(strings.Join(vals, ","))
		}
	}

	return b.String(), true
}
