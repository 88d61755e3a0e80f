package agg

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/luarss/cea-live/internal/filter"
	"github.com/luarss/cea-live/internal/plan"
)

// TopValue is a (value, count) pair: the most frequent value of some
// dimension for an agent, and how many of the agent's transactions
// carried it.
type TopValue struct {
	Value string
	Count int64
}

// AgentSummary is one row in the top-agents roll-up.
type AgentSummary struct {
	RegNum          string
	Name            string
	Count           int64
	TopPropertyType TopValue
	TopTransaction  TopValue
	TopRepresented  TopValue
	TopTown         TopValue
}

// TopAgentsResult is the full roll-up response.
type TopAgentsResult struct {
	Agents              []AgentSummary `json:"agents"`
	Total               int64          `json:"total"`
	TopAgentMarketShare float64        `json:"topAgentMarketShare"`
	Top10MarketShare    float64        `json:"top10MarketShare"`
}

// TopAgents selects the top-L agents by transaction count, then
// executes four batched window-function queries — one per dimension —
// to fill in each agent's top value without a per-agent query loop.
// Total is the uncapped count of agents matching filter/search, kept
// separate from len(Agents) so limit (<= 250) never masks how many
// agents actually matched.
func (k *Kernels) TopAgents(ctx context.Context, limit int, search string, f filter.Filter) (TopAgentsResult, error) {
	total, err := k.topAgentTotal(ctx, search, f)
	if err != nil {
		return TopAgentsResult{}, err
	}

	regNums, counts, names, err := k.topAgentRegNums(ctx, limit, search, f)
	if err != nil {
		return TopAgentsResult{}, err
	}
	if len(regNums) == 0 {
		return TopAgentsResult{Total: total}, nil
	}

	topProperty, err := k.topValuePerAgent(ctx, "property_type", regNums, false)
	if err != nil {
		return TopAgentsResult{}, err
	}
	topTransaction, err := k.topValuePerAgent(ctx, "transaction_type", regNums, false)
	if err != nil {
		return TopAgentsResult{}, err
	}
	topRepresented, err := k.topValuePerAgent(ctx, "represented", regNums, false)
	if err != nil {
		return TopAgentsResult{}, err
	}
	topTown, err := k.topValuePerAgent(ctx, "town", regNums, true)
	if err != nil {
		return TopAgentsResult{}, err
	}

	agents := make([]AgentSummary, len(regNums))
	for i, reg := range regNums {
		agents[i] = AgentSummary{
			RegNum:          reg,
			Name:            names[reg],
			Count:           counts[reg],
			TopPropertyType: topProperty[reg],
			TopTransaction:  topTransaction[reg],
			TopRepresented:  topRepresented[reg],
			TopTown:         topTown[reg],
		}
	}

	return TopAgentsResult{
		Agents:              agents,
		Total:               total,
		TopAgentMarketShare: marketShare(counts, regNums, 1),
		Top10MarketShare:    marketShare(counts, regNums, min(10, len(regNums))),
	}, nil
}

// topAgentWhere builds the WHERE clause and args shared by the
// ranking query and the uncapped total count, so both see the same
// filter/search/sentinel-guard semantics.
func topAgentWhere(search string, f filter.Filter) (string, []any) {
	b := filter.NewBuilder(f)
	where, args := b.WhereClause()
	if search != "" {
		searchClause := "(salesperson_name LIKE ? OR salesperson_reg_num LIKE ?)"
		needle := "%" + search + "%"
		if where == "" {
			where = "WHERE " + searchClause
		} else {
			where += " AND " + searchClause
		}
		args = append(args, needle, needle)
	}
	guard := "salesperson_reg_num != '-' AND salesperson_reg_num != ''"
	if where == "" {
		where = "WHERE " + guard
	} else {
		where += " AND " + guard
	}
	return where, args
}

func (k *Kernels) topAgentRegNums(ctx context.Context, limit int, search string, f filter.Filter) ([]string, map[string]int64, map[string]string, error) {
	hasSearch := search != ""
	path := plan.Select(plan.EndpointTopAgents, f, hasSearch)

	if path == plan.PathFast {
		rows, err := k.run(ctx, "SELECT reg_num, name, total_transactions FROM top_agents ORDER BY total_transactions DESC, reg_num ASC LIMIT ?", []any{limit})
		if err != nil {
			return nil, nil, nil, err
		}
		return extractAgentRows(rows, "reg_num", "name", "total_transactions")
	}

	where, args := topAgentWhere(search, f)
	query := fmt.Sprintf(
		"SELECT salesperson_reg_num AS reg_num, MAX(salesperson_name) AS name, COUNT(*) AS total_transactions "+
			"FROM transactions %s GROUP BY salesperson_reg_num ORDER BY total_transactions DESC, reg_num ASC LIMIT %d",
		where, limit,
	)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return nil, nil, nil, err
	}
	return extractAgentRows(rows, "reg_num", "name", "total_transactions")
}

// topAgentTotal counts the distinct agents matching filter/search,
// uncapped by limit — the fast path reuses the pre-computed top_agents
// row count since it is already one row per agent with no filter.
func (k *Kernels) topAgentTotal(ctx context.Context, search string, f filter.Filter) (int64, error) {
	hasSearch := search != ""
	path := plan.Select(plan.EndpointTopAgents, f, hasSearch)

	if path == plan.PathFast {
		rows, err := k.run(ctx, "SELECT COUNT(*) AS n FROM top_agents", nil)
		if err != nil {
			return 0, err
		}
		return countRow(rows), nil
	}

	where, args := topAgentWhere(search, f)
	query := fmt.Sprintf("SELECT COUNT(DISTINCT salesperson_reg_num) AS n FROM transactions %s", where)
	rows, err := k.run(ctx, query, args)
	if err != nil {
		return 0, err
	}
	return countRow(rows), nil
}

func countRow(rows []map[string]any) int64 {
	if len(rows) == 0 {
		return 0
	}
	return asInt64(rows[0]["n"])
}

func extractAgentRows(rows []map[string]any, regKey, nameKey, countKey string) ([]string, map[string]int64, map[string]string, error) {
	regNums := make([]string, 0, len(rows))
	counts := map[string]int64{}
	names := map[string]string{}
	for _, row := range rows {
		reg := asString(row[regKey])
		regNums = append(regNums, reg)
		counts[reg] = asInt64(row[countKey])
		names[reg] = asString(row[nameKey])
	}
	return regNums, counts, names, nil
}

// topValuePerAgent runs a single window-function query that returns
// the highest-count value of dim for each agent in regNums, avoiding a
// per-agent query. Ties on count resolve by value ascending.
func (k *Kernels) topValuePerAgent(ctx context.Context, dim string, regNums []string, excludeSentinel bool) (map[string]TopValue, error) {
	placeholders := make([]string, len(regNums))
	args := make([]any, 0, len(regNums)+len(regNums))
	for i, reg := range regNums {
		placeholders[i] = "?"
		args = append(args, reg)
	}
	inClause := strings.Join(placeholders, ", ")

	sentinelGuard := ""
	if excludeSentinel {
		sentinelGuard = fmt.Sprintf("AND %s != '-' AND %s != ''", dim, dim)
	}

	query := fmt.Sprintf(`
		SELECT reg_num, value, cnt FROM (
			SELECT
				salesperson_reg_num AS reg_num,
				%s AS value,
				COUNT(*) AS cnt,
				ROW_NUMBER() OVER (
					PARTITION BY salesperson_reg_num
					ORDER BY COUNT(*) DESC, %s ASC
				) AS rn
			FROM transactions
			WHERE salesperson_reg_num IN (%s) %s
			GROUP BY salesperson_reg_num, %s
		) ranked
		WHERE rn = 1
	`, dim, dim, inClause, sentinelGuard, dim)

	rows, err := k.run(ctx, query, args)
	if err != nil {
		return nil, err
	}

	out := make(map[string]TopValue, len(rows))
	for _, row := range rows {
		out[asString(row["reg_num"])] = TopValue{Value: unknownProjection(row["value"]), Count: asInt64(row["cnt"])}
	}
	return out, nil
}

func marketShare(counts map[string]int64, order []string, topN int) float64 {
	var total, topSum int64
	for _, reg := range order {
		total += counts[reg]
	}
	for i := 0; i < topN && i < len(order); i++ {
		topSum += counts[order[i]]
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(topSum)/float64(total)*100*10) / 10
}
