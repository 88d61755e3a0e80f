package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// handleCacheStats serves GET /api/cache/stats: hit-rate diagnostics
// for both pools. This endpoint is never itself cached.
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.app.Cache.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

// handleCacheClear serves POST /api/cache/clear[/{datasetId}]: a full
// flush of both pools, or a dataset-scoped flush when {datasetId} is
// present in the path.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	datasetID := mux.Vars(r)["datasetId"]

	resp := struct {
		Message        string `json:"message"`
		EntriesCleared *int   `json:"entriesCleared,omitempty"`
	}{}

	if datasetID == "" {
		s.app.Cache.API.Clear()
		s.app.Cache.Stats.Clear()
		resp.Message = "cache cleared"
	} else {
		n := s.app.Cache.InvalidateDataset(datasetID)
		resp.Message = "cache entries cleared for dataset"
		resp.EntriesCleared = &n
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
