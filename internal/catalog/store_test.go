package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mindtype/internal/catalog"
	ct "github.com/jonathan/mindtype/internal/catalog/catalogtest"
	"github.com/jonathan/mindtype/internal/types"
)

type stubSource struct {
	tables *types.CatalogTables
	err    error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) LoadTables(context.Context) (*types.CatalogTables, error) {
	return s.tables, s.err
}

func TestLoad(t *testing.T) {
	cat, err := catalog.Load(context.Background(), stubSource{tables: ct.Tables()})
	require.NoError(t, err)
	assert.Equal(t, "test-1", cat.Version())
}

func TestLoad_SourceError(t *testing.T) {
	_, err := catalog.Load(context.Background(), stubSource{err: errors.New("connection refused")})

	var loadErr *catalog.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "stub", loadErr.Source)
	assert.Equal(t, "failed to load catalog from stub: connection refused", err.Error())
}

func TestLoad_InvalidTables(t *testing.T) {
	tables := ct.Tables()
	tables.FinalTypes = nil

	_, err := catalog.Load(context.Background(), stubSource{tables: tables})
	var vErr *catalog.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "catalog from stub")
}

func TestStore_Reload(t *testing.T) {
	store := catalog.NewStore(ct.New())
	old := store.Current()

	next := ct.Tables()
	next.Version = "test-2"
	cat, err := store.Reload(context.Background(), stubSource{tables: next})
	require.NoError(t, err)

	assert.Equal(t, "test-2", cat.Version())
	assert.Same(t, cat, store.Current())
	// readers holding the old snapshot keep a consistent view
	assert.Equal(t, "test-1", old.Version())
}

func TestStore_ReloadFailureKeepsCurrent(t *testing.T) {
	store := catalog.NewStore(ct.New())
	before := store.Current()

	bad := ct.Tables()
	bad.Weights = bad.Weights[:1]
	_, err := store.Reload(context.Background(), stubSource{tables: bad})
	require.Error(t, err)
	assert.Same(t, before, store.Current())

	_, err = store.Reload(context.Background(), stubSource{err: errors.New("boom")})
	require.Error(t, err)
	assert.Same(t, before, store.Current())
}

func TestStore_Swap(t *testing.T) {
	first := ct.New()
	second := ct.NewFull()
	store := catalog.NewStore(first)

	prev := store.Swap(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, store.Current())
}

func TestStore_ConcurrentReadsDuringSwap(t *testing.T) {
	store := catalog.NewStore(ct.New())
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cat := store.Current()
				_, err := cat.WeightForRank(1)
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		store.Swap(ct.New())
	}
	wg.Wait()
}
