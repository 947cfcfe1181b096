package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Responses by status category (2xx, 4xx, 5xx)
	StatusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_status_category_total",
			Help: "Total number of responses by status category",
		},
		[]string{"category"},
	)

	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_admin_login_total",
			Help: "Total number of admin login attempts",
		},
	)

	AuthSuccessCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_admin_auth_success_total",
			Help: "Total number of successful admin token validations",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_admin_auth_errors_total",
			Help: "Total number of admin authentication errors",
		},
		[]string{"type"}, // "invalid_credentials", "missing_token", "invalid_token", "rate_limited"...
	)

	ProductOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation", "result"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	ProductInventoryGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_product_inventory",
			Help: "Current total inventory across the variants of a product",
		},
		[]string{"product_id"},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_info",
			Help: "Information about the catalog service",
		},
		[]string{"version", "store"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(StatusCategoryCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(AuthSuccessCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(ProductOperationsCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ProductInventoryGauge)
	prometheus.MustRegister(InfoGauge)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// SetInfo publishes the running version and store backend
func SetInfo(version, store string) {
	InfoGauge.With(prometheus.Labels{"version": version, "store": store}).Set(1)
}

// TrackDBOperation measures a database operation, use as
// defer TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// write the error response now so the status label is final
				c.Error(err)
			}

			status := c.Response().Status
			labels := prometheus.Labels{
				"endpoint": c.Path(),
				"method":   c.Request().Method,
				"status":   strconv.Itoa(status),
			}

			RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.With(labels).Inc()
			recordStatusCategory(status)

			return nil
		}
	}
}

func recordStatusCategory(status int) {
	var category string
	switch {
	case status >= 200 && status < 300:
		category = "2xx"
	case status >= 400 && status < 500:
		category = "4xx"
	case status >= 500 && status < 600:
		category = "5xx"
	default:
		return
	}
	StatusCategoryCounter.With(prometheus.Labels{"category": category}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordProductOperation counts a product operation and its outcome
func RecordProductOperation(operation, result string) {
	ProductOperationsCounter.With(prometheus.Labels{
		"operation": operation,
		"result":    result,
	}).Inc()
}

// UpdateProductInventory sets the total inventory gauge of a product
func UpdateProductInventory(productID string, total int) {
	ProductInventoryGauge.With(prometheus.Labels{"product_id": productID}).Set(float64(total))
}

// DeleteProductInventory drops the gauge series of a deleted product
func DeleteProductInventory(productID string) {
	ProductInventoryGauge.Delete(prometheus.Labels{"product_id": productID})
}
