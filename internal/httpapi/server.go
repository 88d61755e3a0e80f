package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/luarss/cea-live/internal/app"
	"github.com/luarss/cea-live/internal/health"
)

// Server holds the dependency container and exposes the routed
// http.Handler the serve command listens with.
type Server struct {
	app *app.App
}

// NewServer wraps an already-constructed App for routing.
func NewServer(a *app.App) *Server {
	return &Server{app: a}
}

// Router builds the full route table wrapped in the middleware stack
// described in the documented contract's Router expansion.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", health.Handler(s.app.Health)).Methods("GET")
	r.Handle("/metrics", s.app.Metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/datasets", s.handleListDatasets).Methods("GET")
	api.HandleFunc("/datasets/{id}", s.handleGetDataset).Methods("GET")
	api.HandleFunc("/datasets/{id}/data", s.handleRows).Methods("GET")
	api.HandleFunc("/datasets/{id}/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/datasets/{id}/analytics", s.handleAnalytics).Methods("GET")
	api.HandleFunc("/datasets/{id}/timeseries", s.handleTimeSeries).Methods("GET")
	api.HandleFunc("/datasets/{id}/insights", s.handleInsights).Methods("GET")
	api.HandleFunc("/datasets/{id}/agents/top", s.handleTopAgents).Methods("GET")
	api.HandleFunc("/datasets/{id}/agents/{regNum}", s.handleAgentProfile).Methods("GET")
	api.HandleFunc("/cache/stats", s.handleCacheStats).Methods("GET")
	api.HandleFunc("/cache/clear", s.handleCacheClear).Methods("POST")
	api.HandleFunc("/cache/clear/{datasetId}", s.handleCacheClear).Methods("POST")

	r.Use(recoverMiddleware(s.app.Logger))
	r.Use(requestID)
	r.Use(accessLog(s.app.Logger, s.app.Metrics))
	r.Use(queryBudget(s.app.Config.Server.QueryBudget))
	r.Use(corsMiddleware(s.app.Config.CORS))

	return r
}

// routeTemplate returns the matched mux route's path template (e.g.
// "/api/datasets/{id}/data") for low-cardinality metric labels,
// falling back to the raw path when no route matched.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
