// Package plan selects between the fast path (a pre-computed
// aggregate table) and the slow path (a parameterized aggregation
// against transactions) for each endpoint, per the documented table of fast- vs slow-path endpoints: pre-computed tables are orders of magnitude smaller than the
// raw transactions table, so the fast path is always preferred when
// it is legal for the request's filters and search term.
package plan

import "github.com/luarss/cea-live/internal/filter"

// Path is which query strategy AGG should use.
type Path int

const (
	PathFast Path = iota
	PathSlow
)

func (p Path) String() string {
	if p == PathFast {
		return "fast"
	}
	return "slow"
}

// Endpoint identifies which kernel is being planned for.
type Endpoint int

const (
	EndpointTopAgents Endpoint = iota
	EndpointPropertyTypeStats
	EndpointTransactionTypeStats
	EndpointTownStats
	EndpointTimeSeriesPlain
	EndpointTimeSeriesGrouped
	EndpointCrossTab
	EndpointMarketInsights
	EndpointAgentProfile
	EndpointPaginatedRows
)

// Select decides the query path for an endpoint given the parsed
// filter and whether a search term was supplied (top-agents only).
func Select(endpoint Endpoint, f filter.Filter, hasSearch bool) Path {
	switch endpoint {
	case EndpointTopAgents:
		if f.Empty() && !hasSearch {
			return PathFast
		}
	case EndpointPropertyTypeStats, EndpointTransactionTypeStats, EndpointTownStats, EndpointTimeSeriesPlain:
		if f.Empty() {
			return PathFast
		}
	case EndpointTimeSeriesGrouped:
		// [EXPANSION, Open Question #2]: promoted to a fast path when
		// unfiltered, reading monthly_stats_by_dim.
		if f.Empty() {
			return PathFast
		}
	}
	return PathSlow
}
