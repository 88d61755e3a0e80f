package precomp

import (
	"context"
	"database/sql"
	"math"

	"github.com/luarss/cea-live/internal/period"
)

func buildTopAgents(ctx context.Context, db *sql.DB) (*buildResult, error) {
	basicQuery := `
		SELECT salesperson_reg_num, MAX(salesperson_name), COUNT(*)
		FROM transactions
		WHERE salesperson_reg_num != '-' AND salesperson_reg_num != ''
		GROUP BY salesperson_reg_num
	`
	basicRows, err := db.QueryContext(ctx, basicQuery)
	if err != nil {
		return nil, err
	}

	type agentBasic struct {
		reg   string
		name  string
		count int64
	}
	var agents []agentBasic
	for basicRows.Next() {
		var a agentBasic
		if err := basicRows.Scan(&a.reg, &a.name, &a.count); err != nil {
			basicRows.Close()
			return nil, err
		}
		agents = append(agents, a)
	}
	closeErr := basicRows.Close()
	if err := basicRows.Err(); err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}

	// transaction_date sorts lexicographically, not chronologically, so
	// the "last" date per agent is computed by normalizing every date
	// rather than taking a raw SQL MAX().
	dateQuery := `
		SELECT salesperson_reg_num, transaction_date
		FROM transactions
		WHERE salesperson_reg_num != '-' AND salesperson_reg_num != ''
		AND transaction_date != '-' AND transaction_date != ''
	`
	dateRows, err := db.QueryContext(ctx, dateQuery)
	if err != nil {
		return nil, err
	}
	lastDate := map[string]string{} // reg -> normalized YYYY-MM
	lastRaw := map[string]string{}  // reg -> original MMM-YYYY
	for dateRows.Next() {
		var reg, raw string
		if err := dateRows.Scan(&reg, &raw); err != nil {
			dateRows.Close()
			return nil, err
		}
		normalized, ok := period.ToMonth(raw)
		if !ok {
			continue
		}
		if normalized > lastDate[reg] {
			lastDate[reg] = normalized
			lastRaw[reg] = raw
		}
	}
	closeErr = dateRows.Close()
	if err := dateRows.Err(); err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}

	result := &buildResult{table: "top_agents"}
	for _, a := range agents {
		result.rows = append(result.rows, tableRow{a.reg, a.name, a.count, lastRaw[a.reg]})
	}
	return result, nil
}

func buildMonthlyStats(ctx context.Context, db *sql.DB) (*buildResult, error) {
	return buildMonthlyBuckets(ctx, db, `
		SELECT transaction_date, property_type, transaction_type, COUNT(*)
		FROM transactions
		WHERE transaction_date != '-' AND transaction_date != ''
		GROUP BY transaction_date, property_type, transaction_type
	`, "monthly_stats")
}

func buildMonthlyBuckets(ctx context.Context, db *sql.DB, query, table string) (*buildResult, error) {
	rawRows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rawRows.Close()

	agg := map[[3]string]int64{}
	for rawRows.Next() {
		var date, a, b string
		var count int64
		if err := rawRows.Scan(&date, &a, &b, &count); err != nil {
			return nil, err
		}
		monthBucket, ok := period.ToMonth(date)
		if !ok {
			continue
		}
		agg[[3]string{monthBucket, a, b}] += count
	}
	if err := rawRows.Err(); err != nil {
		return nil, err
	}

	result := &buildResult{table: table}
	for key, count := range agg {
		result.rows = append(result.rows, tableRow{key[0], key[1], key[2], count})
	}
	return result, nil
}

func buildMonthlyStatsByDim(ctx context.Context, db *sql.DB) (*buildResult, error) {
	result := &buildResult{table: "monthly_stats_by_dim"}
	for _, dim := range groupByDimensions {
		query := `SELECT transaction_date, ` + dim + `, COUNT(*) FROM transactions WHERE transaction_date != '-' AND transaction_date != '' GROUP BY transaction_date, ` + dim
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}

		agg := map[[2]string]int64{}
		for rows.Next() {
			var date, value string
			var count int64
			if err := rows.Scan(&date, &value, &count); err != nil {
				rows.Close()
				return nil, err
			}
			monthBucket, ok := period.ToMonth(date)
			if !ok {
				continue
			}
			if value == "" {
				value = "Unknown"
			}
			agg[[2]string{monthBucket, value}] += count
		}
		closeErr := rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}

		for key, count := range agg {
			result.rows = append(result.rows, tableRow{dim, key[0], key[1], count})
		}
	}
	return result, nil
}

func buildPropertyTypeStats(ctx context.Context, db *sql.DB) (*buildResult, error) {
	return buildPercentTable(ctx, db, "property_type", "", "property_type_stats")
}

func buildTransactionTypeStats(ctx context.Context, db *sql.DB) (*buildResult, error) {
	return buildPercentTable(ctx, db, "transaction_type", "", "transaction_type_stats")
}

func buildTownStats(ctx context.Context, db *sql.DB) (*buildResult, error) {
	return buildPercentTable(ctx, db, "town", "town != '-' AND town != ''", "town_stats")
}

func buildPercentTable(ctx context.Context, db *sql.DB, column, guard, table string) (*buildResult, error) {
	where := ""
	if guard != "" {
		where = "WHERE " + guard
	}
	query := "SELECT " + column + ", COUNT(*) FROM transactions " + where + " GROUP BY " + column

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type bucket struct {
		value string
		count int64
	}
	var buckets []bucket
	var total int64
	for rows.Next() {
		var b bucket
		if err := rows.Scan(&b.value, &b.count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
		total += b.count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &buildResult{table: table}
	for _, b := range buckets {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(b.count)/float64(total)*100*100) / 100
		}
		result.rows = append(result.rows, tableRow{b.value, b.count, pct})
	}
	return result, nil
}
