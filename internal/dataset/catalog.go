// Package dataset loads the on-disk dataset catalog: datasets.json
// plus an optional per-dataset <id>.json metadata snapshot. Both are
// kept as raw JSON passthrough for the schema/visualizationRecommendations
// fields, which are opaque to the query engine.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/luarss/cea-live/internal/apperr"
)

// Summary is one entry in the top-level datasets.json listing.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CatalogDocument is the decoded shape of datasets.json.
type CatalogDocument struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Datasets    []Summary `json:"datasets"`
}

// Detail is a per-dataset <id>.json snapshot, passed through to
// clients verbatim; only ID is inspected by the engine.
type Detail struct {
	ID  string
	Raw json.RawMessage
}

// Catalog holds the loaded datasets.json and any per-dataset detail
// snapshots found alongside it.
type Catalog struct {
	mu       sync.RWMutex
	document CatalogDocument
	raw      json.RawMessage
	details  map[string]Detail
}

// Load reads datasets.json from dir, then opportunistically loads a
// <id>.json snapshot for every dataset it lists.
func Load(dir string) (*Catalog, error) {
	catalogPath := filepath.Join(dir, "datasets.json")
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, apperr.Wrap(err, "read dataset catalog: "+catalogPath)
	}

	var doc CatalogDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperr.Wrap(err, "parse dataset catalog: "+catalogPath)
	}

	c := &Catalog{document: doc, raw: raw, details: make(map[string]Detail, len(doc.Datasets))}

	for _, s := range doc.Datasets {
		detailPath := filepath.Join(dir, fmt.Sprintf("%s.json", s.ID))
		detailRaw, err := os.ReadFile(detailPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, apperr.Wrap(err, "read dataset detail: "+detailPath)
		}
		c.details[s.ID] = Detail{ID: s.ID, Raw: detailRaw}
	}

	return c, nil
}

// List returns the raw datasets.json body, returned verbatim by
// GET /api/datasets.
func (c *Catalog) List() json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raw
}

// Exists reports whether id is a known dataset.
func (c *Catalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exists(id)
}

// Detail returns the raw <id>.json snapshot for GET /api/datasets/{id},
// or apperr.ErrDatasetNotFound if id isn't in the catalog.
func (c *Catalog) Detail(id string) (json.RawMessage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.exists(id) {
		return nil, apperr.ErrDatasetNotFound.WithDetail("id", id)
	}
	if d, ok := c.details[id]; ok {
		return d.Raw, nil
	}
	return nil, nil
}

func (c *Catalog) exists(id string) bool {
	for _, s := range c.document.Datasets {
		if s.ID == id {
			return true
		}
	}
	return false
}
