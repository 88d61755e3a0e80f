package agg

import (
	"context"
	"fmt"
	"sort"

	"github.com/luarss/cea-live/internal/filter"
)

// Bucket is one {value, count} pair in a cross-tab or distribution.
type Bucket struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// ChartPoint is the {name, value} shape chart widgets consume.
type ChartPoint struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// CrossTabResult is the response shape for a single-dimension cross-tab.
type CrossTabResult struct {
	Buckets []Bucket     `json:"buckets"`
	Chart   []ChartPoint `json:"chart"`
	Total   int64        `json:"total"`
}

// CrossTab computes counts of dim grouped by its distinct values,
// ordered by count descending, ties broken by value ascending.
// Null/empty values project to "Unknown". dim must be a column from
// filter.AllowedFields; callers validate this before reaching here, as
// column names cannot be bound as query parameters.
func (k *Kernels) CrossTab(ctx context.Context, dim string, f filter.Filter) (CrossTabResult, error) {
	if !filter.AllowedFields[dim] {
		return CrossTabResult{}, filterFieldError(dim)
	}
	b := filter.NewBuilder(f)
	where, args := b.WhereClause()

	query := fmt.Sprintf("SELECT %s AS value, COUNT(*) AS count FROM transactions %s GROUP BY %s", dim, where, dim)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return CrossTabResult{}, err
	}

	buckets := map[string]int64{}
	var total int64
	for _, row := range rows {
		value := unknownProjection(row["value"])
		count := asInt64(row["count"])
		buckets[value] += count
		total += count
	}

	result := CrossTabResult{Buckets: make([]Bucket, 0, len(buckets)), Chart: make([]ChartPoint, 0, len(buckets)), Total: total}
	for value, count := range buckets {
		result.Buckets = append(result.Buckets, Bucket{Value: value, Count: count})
	}
	sortByCountDescThenValueAsc(result.Buckets)
	for _, b := range result.Buckets {
		result.Chart = append(result.Chart, ChartPoint{Name: b.Value, Value: b.Count})
	}
	return result, nil
}

// PairBucket is one {dim1, dim2, count} row in a two-dimension cross-tab.
type PairBucket struct {
	Dim1  string `json:"dim1"`
	Dim2  string `json:"dim2"`
	Count int64  `json:"count"`
}

// CrossTab2DResult is the response shape for a two-dimension cross-tab.
type CrossTab2DResult struct {
	Buckets []PairBucket `json:"buckets"`
	Total   int64        `json:"total"`
}

// CrossTab2D computes counts grouped by (dim1, dim2), ordered by count
// descending, ties broken lexicographically by (dim1, dim2). Both
// dimensions must be columns from filter.AllowedFields.
func (k *Kernels) CrossTab2D(ctx context.Context, dim1, dim2 string, f filter.Filter) (CrossTab2DResult, error) {
	if !filter.AllowedFields[dim1] {
		return CrossTab2DResult{}, filterFieldError(dim1)
	}
	if !filter.AllowedFields[dim2] {
		return CrossTab2DResult{}, filterFieldError(dim2)
	}
	b := filter.NewBuilder(f)
	where, args := b.WhereClause()

	query := fmt.Sprintf(
		"SELECT %s AS d1, %s AS d2, COUNT(*) AS count FROM transactions %s GROUP BY %s, %s",
		dim1, dim2, where, dim1, dim2,
	)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return CrossTab2DResult{}, err
	}

	agg := map[[2]string]int64{}
	var total int64
	for _, row := range rows {
		key := [2]string{unknownProjection(row["d1"]), unknownProjection(row["d2"])}
		count := asInt64(row["count"])
		agg[key] += count
		total += count
	}

	result := CrossTab2DResult{Buckets: make([]PairBucket, 0, len(agg)), Total: total}
	for key, count := range agg {
		result.Buckets = append(result.Buckets, PairBucket{Dim1: key[0], Dim2: key[1], Count: count})
	}
	sort.Slice(result.Buckets, func(i, j int) bool {
		a, b := result.Buckets[i], result.Buckets[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Dim1 != b.Dim1 {
			return a.Dim1 < b.Dim1
		}
		return a.Dim2 < b.Dim2
	})
	return result, nil
}

func sortByCountDescThenValueAsc(buckets []Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Value < buckets[j].Value
	})
}
