package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luarss/cea-live/internal/agg"
	"github.com/luarss/cea-live/internal/apperr"
)

// handleListDatasets serves GET /api/datasets: the raw catalog
// document, passed through verbatim.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, r, s.app.Catalog.List())
}

// handleGetDataset serves GET /api/datasets/{id}: the per-dataset
// metadata snapshot, or 404 if the id isn't in the catalog.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	detail, err := s.app.Catalog.Detail(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if detail == nil {
		detail = []byte(`{}`)
	}
	writeRaw(w, r, detail)
}

// handleRows serves GET /api/datasets/{id}/data: paginated raw rows.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	page, limit, err := parsePage(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	serveJSON(w, r, s.app.Cache.API, "api", s.app.Metrics, func() (interface{}, error) {
		result, err := s.app.Kernels.Rows(r.Context(), page, limit, f)
		if err != nil {
			return nil, err
		}
		return rowsResponse{
			Data: result.Rows,
			Pagination: pagination{
				Page:       result.Page,
				Limit:      result.Limit,
				Total:      result.Total,
				TotalPages: result.TotalPages,
			},
		}, nil
	})
}

// rowsResponse is the GET .../data response shape.
type rowsResponse struct {
	Data       []agg.Row  `json:"data"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// requireDataset 404s via apperr.ErrDatasetNotFound when the path's
// {id} isn't in the catalog, since this service serves exactly one
// transactions table but still honors the multi-dataset URL shape.
func (s *Server) requireDataset(w http.ResponseWriter, r *http.Request) bool {
	id := mux.Vars(r)["id"]
	if !s.app.Catalog.Exists(id) {
		WriteError(w, apperr.ErrDatasetNotFound.WithDetail("id", id))
		return false
	}
	return true
}

// statsResponse is the GET .../stats response shape.
type statsResponse struct {
	Field        string       `json:"field"`
	Total        int64        `json:"total"`
	UniqueValues int          `json:"uniqueValues"`
	Stats        []agg.Bucket `json:"stats"`
}

// handleStats serves GET /api/datasets/{id}/stats: the value/count
// distribution of a single field, capped at `limit` (default 100).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireDataset(w, r) {
		return
	}
	field, err := requireField(r, "field")
	if err != nil {
		WriteError(w, err)
		return
	}
	limit, err := parseStatsLimit(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	serveJSON(w, r, s.app.Cache.Stats, "stats", s.app.Metrics, func() (interface{}, error) {
		result, err := s.app.Kernels.CrossTab(r.Context(), field, f)
		if err != nil {
			return nil, err
		}
		stats := result.Buckets
		if limit > 0 && len(stats) > limit {
			stats = stats[:limit]
		}
		return statsResponse{Field: field, Total: result.Total, UniqueValues: len(result.Buckets), Stats: stats}, nil
	})
}
