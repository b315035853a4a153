package catalog

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonathan/mindtype/internal/types"
)

// Source supplies raw catalog tables, e.g. from a seed file or the database.
type Source interface {
	Name() string
	LoadTables(ctx context.Context) (*types.CatalogTables, error)
}

// Store publishes the current catalog snapshot. Readers take one snapshot per request and keep
// using it even if a reload swaps in a newer one.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store publishing the given snapshot.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current returns the published snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap publishes c and returns the previous snapshot.
func (s *Store) Swap(c *Catalog) *Catalog {
	return s.current.Swap(c)
}

// Load builds a snapshot from src without publishing it.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	tables, err := src.LoadTables(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Cause: err}
	}
	c, err := New(tables)
	if err != nil {
		return nil, fmt.Errorf("catalog from %s: %w", src.Name(), err)
	}
	return c, nil
}

// Reload builds a fresh snapshot from src and publishes it only if it is valid.
// On failure the current snapshot stays in place.
func (s *Store) Reload(ctx context.Context, src Source) (*Catalog, error) {
	c, err := Load(ctx, src)
	if err != nil {
		return nil, err
	}
	s.Swap(c)
	return c, nil
}
