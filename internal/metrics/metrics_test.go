package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("ok"))
	CatalogReloadsTotal.WithLabelValues("ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("ok")))

	before = testutil.ToFloat64(ResultCacheLookups.WithLabelValues("hit"))
	ResultCacheLookups.WithLabelValues("hit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ResultCacheLookups.WithLabelValues("hit")))
}

func TestHistogramObserves(t *testing.T) {
	ClassificationDuration.Observe(0.0002)
	assert.Equal(t, 1, testutil.CollectAndCount(ClassificationDuration))
}
