package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("seo")
	// A second collector must not clash with the first
	NewCollector("seo")

	c.ObserveRequest("POST", "/api/v1/analyze", "200", 20*time.Millisecond)
	c.CacheLookup("content", true)
	c.CacheLookup("content", false)
	c.CacheLookup("content", false)
	c.PageFetched("ok", time.Second)
	c.BreakerState(gobreaker.StateOpen)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/api/v1/analyze", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("content", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("content", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PageFetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BreakerOpen))

	c.BreakerState(gobreaker.StateHalfOpen)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.BreakerOpen))
}

func TestHandler(t *testing.T) {
	c := NewCollector("seo")
	c.ReportsSaved.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "seo_reports_saved_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
