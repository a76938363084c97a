package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRequest("/api/auth/login", "POST", 200, 15*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 200, 5*time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "INVALID_CREDENTIALS")
	m.RecordReview("accepted")
	m.RecordReview("DUPLICATE_REVIEW")
	m.RecordNearbySearch(3)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/auth/login", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/api/auth/login", "POST", "INVALID_CREDENTIALS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reviews.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.nearbySearches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Second)
		m.RecordError("/", "GET", "X")
		m.RecordReview("accepted")
		m.RecordNearbySearch(0)
		m.RecordCacheLookup(true)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordNearbySearch(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "garage_service_nearby_searches_total 1")
}

func TestRequestLogger_LogsAndCounts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMetrics(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/:id", "GET", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/boom", "GET", "503")))
	assert.Equal(t, 1, logs.FilterMessage("request completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}
