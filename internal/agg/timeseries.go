package agg

import (
	"context"
	"fmt"
	"sort"

	"github.com/luarss/cea-live/internal/filter"
	"github.com/luarss/cea-live/internal/period"
	"github.com/luarss/cea-live/internal/plan"
)

// chartClipMonths/chartClipYears bound the "chart" view to the
// trailing window; the full series is returned alongside it.
const (
	chartClipMonths = 24
	chartClipYears  = 36
)

// PeriodPoint is one {period, count} entry, optionally carrying a
// groupBy dimension value when the series is grouped.
type PeriodPoint struct {
	Period  string `json:"period"`
	GroupBy string `json:"groupBy,omitempty"`
	Count   int64  `json:"count"`
}

// TimeSeriesResult carries both the full series and a chart-clipped view.
type TimeSeriesResult struct {
	Full  []PeriodPoint `json:"full"`
	Chart []PeriodPoint `json:"chart"`
}

// TimeSeries buckets non-sentinel transaction_date values at the given
// granularity, optionally grouped by an additional dimension. Rows
// with a sentinel or missing date are excluded. Output is sorted
// ascending by period, which is safe lexicographically after
// normalization.
func (k *Kernels) TimeSeries(ctx context.Context, g period.Granularity, groupBy string, f filter.Filter) (TimeSeriesResult, error) {
	if groupBy != "" && !filter.AllowedFields[groupBy] {
		return TimeSeriesResult{}, filterFieldError(groupBy)
	}

	endpoint := plan.EndpointTimeSeriesPlain
	if groupBy != "" {
		endpoint = plan.EndpointTimeSeriesGrouped
	}

	if plan.Select(endpoint, f, false) == plan.PathFast {
		return k.timeSeriesFast(ctx, g, groupBy)
	}
	return k.timeSeriesSlow(ctx, g, groupBy, f)
}

func (k *Kernels) timeSeriesSlow(ctx context.Context, g period.Granularity, groupBy string, f filter.Filter) (TimeSeriesResult, error) {
	b := filter.NewBuilder(f)
	where, args := b.WhereClause()
	sentinelGuard := "transaction_date != '-' AND transaction_date != ''"
	if where == "" {
		where = "WHERE " + sentinelGuard
	} else {
		where += " AND " + sentinelGuard
	}

	selectCols := "transaction_date"
	groupCols := "transaction_date"
	if groupBy != "" {
		selectCols = fmt.Sprintf("transaction_date, %s AS group_value", groupBy)
		groupCols = fmt.Sprintf("transaction_date, %s", groupBy)
	}

	query := fmt.Sprintf("SELECT %s, COUNT(*) AS count FROM transactions %s GROUP BY %s", selectCols, where, groupCols)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return TimeSeriesResult{}, err
	}

	agg := map[[2]string]int64{}
	for _, row := range rows {
		bucket, ok := period.Normalize(asString(row["transaction_date"]), g)
		if !ok {
			continue
		}
		group := ""
		if groupBy != "" {
			group = unknownProjection(row["group_value"])
		}
		agg[[2]string{bucket, group}] += asInt64(row["count"])
	}
	return buildTimeSeriesResult(agg, g), nil
}

func (k *Kernels) timeSeriesFast(ctx context.Context, g period.Granularity, groupBy string) (TimeSeriesResult, error) {
	if groupBy == "" {
		rows, err := k.run(ctx, "SELECT period, SUM(count) AS count FROM monthly_stats GROUP BY period", nil)
		if err != nil {
			return TimeSeriesResult{}, err
		}
		agg := map[[2]string]int64{}
		for _, row := range rows {
			bucket := rebucketMonthPeriod(asString(row["period"]), g)
			agg[[2]string{bucket, ""}] += asInt64(row["count"])
		}
		return buildTimeSeriesResult(agg, g), nil
	}

	rows, err := k.run(ctx, "SELECT period, dim_value, SUM(count) AS count FROM monthly_stats_by_dim WHERE dim_column = ? GROUP BY period, dim_value", []any{groupBy})
	if err != nil {
		return TimeSeriesResult{}, err
	}
	agg := map[[2]string]int64{}
	for _, row := range rows {
		bucket := rebucketMonthPeriod(asString(row["period"]), g)
		agg[[2]string{bucket, unknownProjection(row["dim_value"])}] += asInt64(row["count"])
	}
	return buildTimeSeriesResult(agg, g), nil
}

// rebucketMonthPeriod collapses a YYYY-MM period (as stored in
// monthly_stats) to YYYY when year granularity is requested.
func rebucketMonthPeriod(monthPeriod string, g period.Granularity) string {
	if g == period.Year && len(monthPeriod) >= 4 {
		return monthPeriod[:4]
	}
	return monthPeriod
}

func buildTimeSeriesResult(agg map[[2]string]int64, g period.Granularity) TimeSeriesResult {
	points := make([]PeriodPoint, 0, len(agg))
	for key, count := range agg {
		points = append(points, PeriodPoint{Period: key[0], GroupBy: key[1], Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Period != points[j].Period {
			return points[i].Period < points[j].Period
		}
		return points[i].GroupBy < points[j].GroupBy
	})

	clip := chartClipMonths
	if g == period.Year {
		clip = chartClipYears
	}

	periods := distinctPeriodsOrdered(points)
	chartStart := 0
	if len(periods) > clip {
		chartStart = len(periods) - clip
	}
	cutoff := ""
	if chartStart < len(periods) {
		cutoff = periods[chartStart]
	}

	chart := make([]PeriodPoint, 0, len(points))
	for _, p := range points {
		if cutoff == "" || p.Period >= cutoff {
			chart = append(chart, p)
		}
	}

	return TimeSeriesResult{Full: points, Chart: chart}
}

func distinctPeriodsOrdered(points []PeriodPoint) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(points))
	for _, p := range points {
		if !seen[p.Period] {
			seen[p.Period] = true
			out = append(out, p.Period)
		}
	}
	return out
}
