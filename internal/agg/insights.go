package agg

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/luarss/cea-live/internal/filter"
	"github.com/luarss/cea-live/internal/period"
)

// PercentBucket is a distribution entry with a one-decimal percentage.
type PercentBucket struct {
	Value      string  `json:"value"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DateRange is the lexicographically first/last non-sentinel
// transaction_date observed, in original MMM-YYYY form.
type DateRange struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// MarketInsights is the composite response for the insights endpoint.
type MarketInsights struct {
	Total           int64           `json:"total"`
	DateRange       DateRange       `json:"dateRange"`
	PropertyType    []PercentBucket `json:"propertyType"`
	TransactionType []PercentBucket `json:"transactionType"`
	Represented     []PercentBucket `json:"represented"`
	MonthlyAverage  int64           `json:"monthlyAverage"`
	YearlyGrowthPct string          `json:"yearlyGrowth"`
}

// MarketInsights composes the total, date range, three distributions,
// monthly average, and yearly growth for the given filter.
func (k *Kernels) MarketInsights(ctx context.Context, f filter.Filter) (MarketInsights, error) {
	b := filter.NewBuilder(f)
	where, args := b.WhereClause()

	total, err := k.scalarCount(ctx, where, args)
	if err != nil {
		return MarketInsights{}, err
	}

	dateRange, err := k.dateRange(ctx, where, args)
	if err != nil {
		return MarketInsights{}, err
	}

	propertyType, err := k.percentDistribution(ctx, "property_type", where, args, total)
	if err != nil {
		return MarketInsights{}, err
	}
	transactionType, err := k.percentDistribution(ctx, "transaction_type", where, args, total)
	if err != nil {
		return MarketInsights{}, err
	}
	represented, err := k.percentDistribution(ctx, "represented", where, args, total)
	if err != nil {
		return MarketInsights{}, err
	}

	series, err := k.TimeSeries(ctx, period.Month, "", f)
	if err != nil {
		return MarketInsights{}, err
	}
	monthlyAverage := averageCount(series.Full)
	yearlyGrowth := yearlyGrowthPercent(series.Full)

	return MarketInsights{
		Total:           total,
		DateRange:       dateRange,
		PropertyType:    propertyType,
		TransactionType: transactionType,
		Represented:     represented,
		MonthlyAverage:  monthlyAverage,
		YearlyGrowthPct: yearlyGrowth,
	}, nil
}

func (k *Kernels) scalarCount(ctx context.Context, where string, args []any) (int64, error) {
	query := "SELECT COUNT(*) AS count FROM transactions " + where
	row, err := k.run(ctx, query, args)
	if err != nil {
		return 0, err
	}
	if len(row) == 0 {
		return 0, nil
	}
	return asInt64(row[0]["count"]), nil
}

func (k *Kernels) dateRange(ctx context.Context, where string, args []any) (DateRange, error) {
	guard := "transaction_date != '-' AND transaction_date != ''"
	clause := "WHERE " + guard
	if where != "" {
		clause = where + " AND " + guard
	}
	query := fmt.Sprintf("SELECT transaction_date FROM transactions %s", clause)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return DateRange{}, err
	}

	normalized := make([]string, 0, len(rows))
	original := map[string]string{}
	for _, row := range rows {
		raw := asString(row["transaction_date"])
		bucket, ok := period.Normalize(raw, period.Month)
		if !ok {
			continue
		}
		normalized = append(normalized, bucket)
		original[bucket] = raw
	}
	if len(normalized) == 0 {
		return DateRange{}, nil
	}
	sort.Strings(normalized)
	return DateRange{First: original[normalized[0]], Last: original[normalized[len(normalized)-1]]}, nil
}

func (k *Kernels) percentDistribution(ctx context.Context, dim, where string, args []any, total int64) ([]PercentBucket, error) {
	query := fmt.Sprintf("SELECT %s AS value, COUNT(*) AS count FROM transactions %s GROUP BY %s", dim, where, dim)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return nil, err
	}

	out := make([]PercentBucket, 0, len(rows))
	for _, row := range rows {
		count := asInt64(row["count"])
		out = append(out, PercentBucket{
			Value:      unknownProjection(row["value"]),
			Count:      count,
			Percentage: percentOf(count, total, 1),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func percentOf(part, whole int64, decimals int) float64 {
	if whole == 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(part)/float64(whole)*100*scale) / scale
}

func averageCount(points []PeriodPoint) int64 {
	if len(points) == 0 {
		return 0
	}
	var sum int64
	for _, p := range points {
		sum += p.Count
	}
	return int64(math.Round(float64(sum) / float64(len(points))))
}

// yearlyGrowthPercent compares the total count of the most recent year
// present in points (whether or not all its months are present) to the
// year before it. Division by zero, or fewer than two years of data,
// yields "0%".
func yearlyGrowthPercent(points []PeriodPoint) string {
	byYear := map[string]int64{}
	for _, p := range points {
		if len(p.Period) < 4 {
			continue
		}
		byYear[p.Period[:4]] += p.Count
	}
	if len(byYear) < 2 {
		return "0%"
	}

	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)

	last := byYear[years[len(years)-1]]
	prev := byYear[years[len(years)-2]]
	if prev == 0 {
		return "0%"
	}
	growth := float64(last-prev) / float64(prev) * 100
	return fmt.Sprintf("%.1f%%", growth)
}
