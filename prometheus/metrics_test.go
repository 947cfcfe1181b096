package prometheus

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetGauge().GetValue()
}

func requestCounter(endpoint, status string) prometheus.Counter {
	return HTTPRequestCounter.With(prometheus.Labels{
		"endpoint": endpoint,
		"method":   http.MethodGet,
		"status":   status,
	})
}

func TestMetricsMiddlewareLabelsFinalStatus(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/mw/created", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})
	e.GET("/mw/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})
	e.GET("/mw/boom", func(c echo.Context) error {
		return errors.New("boom")
	})

	tests := []struct {
		path     string
		status   int
		category string
	}{
		{"/mw/created", http.StatusCreated, "2xx"},
		{"/mw/missing", http.StatusNotFound, "4xx"},
		{"/mw/boom", http.StatusInternalServerError, "5xx"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			counter := requestCounter(tt.path, strconv.Itoa(tt.status))
			category := StatusCategoryCounter.With(prometheus.Labels{"category": tt.category})
			before, beforeCategory := counterValue(t, counter), counterValue(t, category)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			if got := counterValue(t, counter) - before; got != 1 {
				t.Errorf("request counter delta = %v, want 1", got)
			}
			if got := counterValue(t, category) - beforeCategory; got != 1 {
				t.Errorf("%s counter delta = %v, want 1", tt.category, got)
			}
		})
	}
}

func TestProductInventoryGauge(t *testing.T) {
	UpdateProductInventory("gauge-test", 7)
	if got := gaugeValue(t, ProductInventoryGauge.WithLabelValues("gauge-test")); got != 7 {
		t.Errorf("gauge = %v, want 7", got)
	}

	DeleteProductInventory("gauge-test")
	// a fresh series starts at zero once the old one is gone
	if got := gaugeValue(t, ProductInventoryGauge.WithLabelValues("gauge-test")); got != 0 {
		t.Errorf("gauge after delete = %v, want 0", got)
	}
	DeleteProductInventory("gauge-test")
}

func TestRecordProductOperation(t *testing.T) {
	counter := ProductOperationsCounter.With(prometheus.Labels{"operation": "create", "result": "ok"})
	before := counterValue(t, counter)

	RecordProductOperation("create", "ok")

	if got := counterValue(t, counter) - before; got != 1 {
		t.Errorf("counter delta = %v, want 1", got)
	}
}

func TestTrackDBOperation(t *testing.T) {
	TrackDBOperation("query")(time.Now().Add(-10 * time.Millisecond))

	var m dto.Metric
	observer := DBOperationDuration.With(prometheus.Labels{"operation": "query"})
	if err := observer.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("expected at least one observation")
	}
}
