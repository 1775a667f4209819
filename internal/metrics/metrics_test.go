package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservers(t *testing.T) {
	Init()

	before := testutil.ToFloat64(requestAttemptsTotal.WithLabelValues("page"))
	ObserveAttempts("page", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(requestAttemptsTotal.WithLabelValues("page")))

	before = testutil.ToFloat64(assetsTotal.WithLabelValues("cad", "skipped"))
	ObserveAsset("cad", "skipped")
	assert.Equal(t, before+1, testutil.ToFloat64(assetsTotal.WithLabelValues("cad", "skipped")))

	before = testutil.ToFloat64(pagesTotal.WithLabelValues("dropped"))
	ObservePage("dropped")
	assert.Equal(t, before+1, testutil.ToFloat64(pagesTotal.WithLabelValues("dropped")))

	before = testutil.ToFloat64(productsTotal.WithLabelValues("persisted"))
	ObserveProduct("persisted")
	assert.Equal(t, before+1, testutil.ToFloat64(productsTotal.WithLabelValues("persisted")))

	SetDiscovered(15)
	assert.Equal(t, 15.0, testutil.ToFloat64(refsDiscovered))
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
