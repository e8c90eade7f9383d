package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsAreIsolatedPerRegistry(t *testing.T) {
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.IncMessage("scan-page", "ok")
	a.IncMessage("scan-page", "ok")
	a.AddImagesCollected(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.MessagesTotal.WithLabelValues("scan-page", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.ImagesCollectedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MessagesTotal.WithLabelValues("scan-page", "ok")))
}
