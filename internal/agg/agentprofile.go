package agg

import (
	"context"
	"sort"

	"github.com/luarss/cea-live/internal/apperr"
	"github.com/luarss/cea-live/internal/period"
)

// AgentProfile is the full per-agent breakdown.
type AgentProfile struct {
	RegNum          string          `json:"regNum"`
	Name            string          `json:"name"`
	Total           int64           `json:"total"`
	DateRange       DateRange       `json:"dateRange"`
	PropertyType    []PercentBucket `json:"propertyType"`
	TransactionType []PercentBucket `json:"transactionType"`
	Represented     []PercentBucket `json:"represented"`
	TopTowns        []PercentBucket `json:"topTowns"`
	Monthly         []PeriodPoint   `json:"monthly"`
}

// AgentProfile produces the full per-agent breakdown for the given
// registration number: basic totals, date range, breakdowns by
// property type/transaction type/represented, top-10 towns (excluding
// sentinel), and the agent's full monthly time series.
func (k *Kernels) AgentProfile(ctx context.Context, regNum string) (AgentProfile, error) {
	basic, err := k.run(ctx, "SELECT MAX(salesperson_name) AS name, COUNT(*) AS total FROM transactions WHERE salesperson_reg_num = ?", []any{regNum})
	if err != nil {
		return AgentProfile{}, err
	}
	if len(basic) == 0 || asInt64(basic[0]["total"]) == 0 {
		return AgentProfile{}, apperr.ErrAgentNotFound.WithDetail("regNum", regNum)
	}
	total := asInt64(basic[0]["total"])
	name := asString(basic[0]["name"])

	where := "WHERE salesperson_reg_num = ?"
	args := []any{regNum}

	dateRange, err := k.dateRange(ctx, where, args)
	if err != nil {
		return AgentProfile{}, err
	}

	propertyType, err := k.percentDistribution(ctx, "property_type", where, args, total)
	if err != nil {
		return AgentProfile{}, err
	}
	transactionType, err := k.percentDistribution(ctx, "transaction_type", where, args, total)
	if err != nil {
		return AgentProfile{}, err
	}
	represented, err := k.percentDistribution(ctx, "represented", where, args, total)
	if err != nil {
		return AgentProfile{}, err
	}

	towns, err := k.topTowns(ctx, regNum, total)
	if err != nil {
		return AgentProfile{}, err
	}

	monthlyRows, err := k.run(ctx, "SELECT transaction_date FROM transactions WHERE salesperson_reg_num = ?", []any{regNum})
	if err != nil {
		return AgentProfile{}, err
	}
	monthlyCounts := map[string]int64{}
	for _, row := range monthlyRows {
		bucket, ok := period.Normalize(asString(row["transaction_date"]), period.Month)
		if !ok {
			continue
		}
		monthlyCounts[bucket]++
	}
	monthly := make([]PeriodPoint, 0, len(monthlyCounts))
	for bucket, count := range monthlyCounts {
		monthly = append(monthly, PeriodPoint{Period: bucket, Count: count})
	}
	sort.Slice(monthly, func(i, j int) bool { return monthly[i].Period < monthly[j].Period })

	return AgentProfile{
		RegNum:          regNum,
		Name:            name,
		Total:           total,
		DateRange:       dateRange,
		PropertyType:    propertyType,
		TransactionType: transactionType,
		Represented:     represented,
		TopTowns:        towns,
		Monthly:         monthly,
	}, nil
}

func (k *Kernels) topTowns(ctx context.Context, regNum string, total int64) ([]PercentBucket, error) {
	query := "SELECT town AS value, COUNT(*) AS count FROM transactions " +
		"WHERE salesperson_reg_num = ? AND town != '-' AND town != '' " +
		"GROUP BY town ORDER BY count DESC LIMIT 10"
	rows, err := k.run(ctx, query, []any{regNum})
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
	return out, nil
}
