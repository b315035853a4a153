package classify

import (
	"github.com/jonathan/mindtype/internal/types"
)

// recorder observes each stage. It must never feed anything back into the computation.
type recorder interface {
	selection(step types.SelectionTrace)
	combined(v types.Vector)
	lookup(l types.LookupTrace)
	result() *types.Trace
}

type nopRecorder struct{}

func (nopRecorder) selection(types.SelectionTrace) {}
func (nopRecorder) combined(types.Vector)          {}
func (nopRecorder) lookup(types.LookupTrace)       {}
func (nopRecorder) result() *types.Trace           { return nil }

// traceRecorder appends entries in evaluation order.
type traceRecorder struct {
	trace types.Trace
}

func newTraceRecorder(weights map[int]float64) *traceRecorder {
	return &traceRecorder{trace: types.Trace{Weights: weights}}
}

func (r *traceRecorder) selection(step types.SelectionTrace) {
	r.trace.Entries = append(r.trace.Entries, types.TraceEntry{
		Kind:      types.TraceSelection,
		Selection: &step,
	})
}

func (r *traceRecorder) combined(v types.Vector) {
	r.trace.Entries = append(r.trace.Entries, types.TraceEntry{
		Kind:     types.TraceCombined,
		Combined: &v,
	})
}

func (r *traceRecorder) lookup(l types.LookupTrace) {
	r.trace.Entries = append(r.trace.Entries, types.TraceEntry{
		Kind:   types.TraceLookup,
		Lookup: &l,
	})
}

func (r *traceRecorder) result() *types.Trace {
	return &r.trace
}
