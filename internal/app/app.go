// Package app is the explicit dependency container: a store handle,
// the two cache pools, and the ambient logger/metrics collector,
// constructed once at startup and passed into every handler — rather
// than the closure-over-module-global pattern it replaces, this
// eliminates initialization-order hazards and lets the test suite spin
// up isolated instances per case.
package app

import (
	"context"

	"github.com/luarss/cea-live/internal/agg"
	"github.com/luarss/cea-live/internal/cache"
	"github.com/luarss/cea-live/internal/config"
	"github.com/luarss/cea-live/internal/dataset"
	"github.com/luarss/cea-live/internal/health"
	"github.com/luarss/cea-live/internal/logging"
	"github.com/luarss/cea-live/internal/metrics"
	"github.com/luarss/cea-live/internal/store"
)

// App bundles every dependency an HTTP handler needs.
type App struct {
	Config  *config.Config
	Store   *store.Store
	Cache   *cache.Pools
	Kernels *agg.Kernels
	Catalog *dataset.Catalog
	Logger  logging.Logger
	Metrics *metrics.Collector
	Health  *health.StoreChecker
}

// New opens the store and dataset catalog and wires every dependency
// into a single container, ready for internal/httpapi to route
// requests against.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	storePath := cfg.Store.DataDir + "/cea-transactions.db"
	s, err := store.Open(ctx, storePath, store.ReadOnly)
	if err != nil {
		return nil, err
	}

	catalog, err := dataset.Load(cfg.Store.DataDir)
	if err != nil {
		s.Close()
		return nil, err
	}

	pools := cache.NewPools()
	collector := metrics.New()

	return &App{
		Config:  cfg,
		Store:   s,
		Cache:   pools,
		Kernels: agg.New(s),
		Catalog: catalog,
		Logger:  logger,
		Metrics: collector,
		Health:  health.NewStoreChecker(s.Ping),
	}, nil
}

// Close releases the store handle. Safe to call once, at shutdown.
func (a *App) Close() error {
	return a.Store.Close()
}
