package classify

import (
	"errors"
	"strconv"
	"time"

	"github.com/jonathan/mindtype/internal/catalog"
	"github.com/jonathan/mindtype/internal/logger"
	"github.com/jonathan/mindtype/internal/metrics"
	"github.com/jonathan/mindtype/internal/types"
)

// Engine classifies against whatever snapshot the store currently publishes, logging and
// counting each outcome.
type Engine struct {
	store *catalog.Store
	log   *logger.Logger
}

// NewEngine creates an engine reading snapshots from store.
func NewEngine(store *catalog.Store, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{store: store, log: log}
}

// Catalog returns the snapshot a new classification would use.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.store.Current()
}

// Classify runs one classification on the current snapshot.
func (e *Engine) Classify(input types.SelectionInput, debug bool) (*types.ClassificationResult, error) {
	return e.ClassifyWith(e.store.Current(), input, debug)
}

// ClassifyWith runs one classification on a snapshot the caller already holds.
func (e *Engine) ClassifyWith(cat *catalog.Catalog, input types.SelectionInput, debug bool) (*types.ClassificationResult, error) {
	start := time.Now()
	result, err := Classify(cat, input, debug)
	metrics.ClassificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		code := ErrorCode(err)
		metrics.ClassificationsTotal.WithLabelValues(code).Inc()

		var inputErr InputError
		if errors.As(err, &inputErr) {
			e.log.Debug("rejected selections", "code", code, "error", err)
		} else {
			e.log.Error("classification failed", "code", code, "error", err, "catalog_version", cat.Version())
		}
		return nil, err
	}

	e.Record(result)
	e.log.Debug("classified selections",
		"final_type_id", result.FinalTypeID,
		"dominant", result.DominantIntermediateIDs,
		"debug", debug,
	)
	return result, nil
}

// Record counts a successful classification. Callers serving a memoized result call it
// directly so outcome counts match responses.
func (e *Engine) Record(result *types.ClassificationResult) {
	metrics.ClassificationsTotal.WithLabelValues("ok").Inc()
	metrics.FinalTypesTotal.WithLabelValues(strconv.Itoa(result.FinalTypeID)).Inc()
}
