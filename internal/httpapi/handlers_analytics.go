package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luarss/cea-live/internal/agg"
)

// analyticsResponse is the GET .../analytics response shape from
// the documented response contract, covering both the one- and two-dimension cross-tab.
type analyticsResponse struct {
	Dimensions []string    `json:"dimensions"`
	Data       interface{} `json:"data"`
	ChartData  interface{} `json:"chartData,omitempty"`
	Total      int64       `json:"total"`
}

// handleAnalytics serves GET /api/datasets/{id}/analytics: a
// single-dimension cross-tab, or a two-dimension cross-tab when
// dimension2 is also supplied.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	dim1, err := requireField(r, "dimension1")
	if err != nil {
		WriteError(w, err)
		return
	}
	dim2 := r.URL.Query().Get("dimension2")
	f, err := parseFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	serveJSON(w, r, s.app.Cache.Stats, "stats", s.app.Metrics, func() (interface{}, error) {
		if dim2 == "" {
			result, err := s.app.Kernels.CrossTab(r.Context(), dim1, f)
			if err != nil {
				return nil, err
			}
			return analyticsResponse{
				Dimensions: []string{dim1},
				Data:       result.Buckets,
				ChartData:  result.Chart,
				Total:      result.Total,
			}, nil
		}

		result, err := s.app.Kernels.CrossTab2D(r.Context(), dim1, dim2, f)
		if err != nil {
			return nil, err
		}
		return analyticsResponse{
			Dimensions: []string{dim1, dim2},
			Data:       result.Buckets,
			Total:      result.Total,
		}, nil
	})
}

// timeSeriesResponse is the GET .../timeseries response shape.
type timeSeriesResponse struct {
	Period    string      `json:"period"`
	GroupBy   string      `json:"groupBy,omitempty"`
	Series    interface{} `json:"series"`
	ChartData interface{} `json:"chartData"`
	Total     int64       `json:"total"`
}

// handleTimeSeries serves GET /api/datasets/{id}/timeseries.
func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	granularity, err := parseGranularity(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	groupBy := r.URL.Query().Get("groupBy")
	f, err := parseFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	serveJSON(w, r, s.app.Cache.Stats, "stats", s.app.Metrics, func() (interface{}, error) {
		result, err := s.app.Kernels.TimeSeries(r.Context(), granularity, groupBy, f)
		if err != nil {
			return nil, err
		}
		var total int64
		for _, p := range result.Full {
			total += p.Count
		}
		return timeSeriesResponse{
			Period:    string(granularity),
			GroupBy:   groupBy,
			Series:    result.Full,
			ChartData: result.Chart,
			Total:     total,
		}, nil
	})
}

// handleInsights serves GET /api/datasets/{id}/insights.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	serveJSON(w, r, s.app.Cache.Stats, "stats", s.app.Metrics, func() (interface{}, error) {
		insights, err := s.app.Kernels.MarketInsights(r.Context(), f)
		if err != nil {
			return nil, err
		}
		return insightsResponse{
			Summary: insightsSummary{
				Total:          insights.Total,
				DateRange:      insights.DateRange,
				MonthlyAverage: insights.MonthlyAverage,
			},
			Trends: insightsTrends{
				YearlyGrowth: insights.YearlyGrowthPct,
			},
			Distributions: insightsDistributions{
				PropertyType:    insights.PropertyType,
				TransactionType: insights.TransactionType,
				Represented:     insights.Represented,
			},
		}, nil
	})
}

// insightsResponse is the GET .../insights response shape from
// the documented response contract, reshaping agg.MarketInsights' flat fields into the
// documented summary/trends/distributions envelope.
type insightsResponse struct {
	Summary       insightsSummary       `json:"summary"`
	Trends        insightsTrends        `json:"trends"`
	Distributions insightsDistributions `json:"distributions"`
}

type insightsSummary struct {
	Total          int64         `json:"total"`
	DateRange      agg.DateRange `json:"dateRange"`
	MonthlyAverage int64         `json:"monthlyAverage"`
}

type insightsTrends struct {
	YearlyGrowth string `json:"yearlyGrowth"`
}

type insightsDistributions struct {
	PropertyType    []agg.PercentBucket `json:"propertyType"`
	TransactionType []agg.PercentBucket `json:"transactionType"`
	Represented     []agg.PercentBucket `json:"represented"`
}

// handleTopAgents serves GET /api/datasets/{id}/agents/top.
func (s *Server) handleTopAgents(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	limit, err := parseTopLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	search := r.URL.Query().Get("search")
	f, err := parseFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	serveJSON(w, r, s.app.Cache.Stats, "stats", s.app.Metrics, func() (interface{}, error) {
		result, err := s.app.Kernels.TopAgents(r.Context(), limit, search, f)
		if err != nil {
			return nil, err
		}
		agents := make([]topAgent, len(result.Agents))
		for i, a := range result.Agents {
			agents[i] = topAgent{
				RegNum:             a.RegNum,
				Name:               a.Name,
				TotalTransactions:  a.Count,
				TopPropertyType:    topValuePair(a.TopPropertyType),
				TopTransactionType: topValuePair(a.TopTransaction),
				TopRepresented:     topValuePair(a.TopRepresented),
				TopTown:            topValuePair(a.TopTown),
			}
		}
		return struct {
			Total      int64                  `json:"total"`
			Showing    int                    `json:"showing"`
			Agents     []topAgent             `json:"agents"`
			Statistics map[string]interface{} `json:"statistics"`
		}{
			Total:   result.Total,
			Showing: len(agents),
			Agents:  agents,
			Statistics: map[string]interface{}{
				"topAgentMarketShare": result.TopAgentMarketShare,
				"top10MarketShare":    result.Top10MarketShare,
			},
		}, nil
	})
}

// topAgent is one row of GET .../agents/top, reshaping agg.AgentSummary's
// TopValue pairs into the [value, count] tuples the response contract documents.
type topAgent struct {
	RegNum             string         `json:"regNum"`
	Name               string         `json:"name"`
	TotalTransactions  int64          `json:"totalTransactions"`
	TopPropertyType    [2]interface{} `json:"topPropertyType"`
	TopTransactionType [2]interface{} `json:"topTransactionType"`
	TopRepresented     [2]interface{} `json:"topRepresented"`
	TopTown            [2]interface{} `json:"topTown"`
}

func topValuePair(v agg.TopValue) [2]interface{} {
	return [2]interface{}{v.Value, v.Count}
}

// handleAgentProfile serves GET /api/datasets/{id}/agents/{regNum}.
func (s *Server) handleAgentProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	regNum := mux.Vars(r)["regNum"]

	serveJSON(w, r, s.app.Cache.Stats, "stats", s.app.Metrics, func() (interface{}, error) {
		profile, err := s.app.Kernels.AgentProfile(r.Context(), regNum)
		if err != nil {
			return nil, err
		}
		return agentProfileResponse{
			Agent:            agentSummary{RegNum: profile.RegNum, Name: profile.Name, Total: profile.Total},
			DateRange:        profile.DateRange,
			PropertyTypes:    profile.PropertyType,
			TransactionTypes: profile.TransactionType,
			Representation:   profile.Represented,
			TopTowns:         profile.TopTowns,
			MonthlyActivity:  profile.Monthly,
		}, nil
	})
}

// agentProfileResponse is the GET .../agents/{regNum} response shape.
type agentProfileResponse struct {
	Agent            agentSummary        `json:"agent"`
	DateRange        agg.DateRange       `json:"dateRange"`
	PropertyTypes    []agg.PercentBucket `json:"propertyTypes"`
	TransactionTypes []agg.PercentBucket `json:"transactionTypes"`
	Representation   []agg.PercentBucket `json:"representation"`
	TopTowns         []agg.PercentBucket `json:"topTowns"`
	MonthlyActivity  []agg.PeriodPoint   `json:"monthlyActivity"`
}

type agentSummary struct {
	RegNum string `json:"regNum"`
	Name   string `json:"name"`
	Total  int64  `json:"total"`
}
