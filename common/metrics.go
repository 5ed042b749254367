package common

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes API latency by route and status.
	// Routes use the gin pattern, never the raw path, to bound cardinality.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	// LoadsTotal counts ingestion cycles by trigger and result.
	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_loads_total",
		Help: "Total number of catalog loads, by trigger and result.",
	}, []string{"trigger", "result"})

	// RowsSkippedTotal counts rows dropped during parsing by reason.
	RowsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rows_skipped_total",
		Help: "Total number of source rows skipped during parsing, by reason.",
	}, []string{"reason"})

	// LoadDuration observes full ingestion cycles.
	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Help:    "Duration of catalog loads including fetch and parse.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	// CatalogMovies reports the size of the current snapshot.
	CatalogMovies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_movies",
		Help: "Number of movies in the current catalog snapshot.",
	})

	// CatalogCategories reports the bucket count of the current snapshot.
	CatalogCategories = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_categories",
		Help: "Number of categories in the current catalog snapshot.",
	})
)

// MetricsMiddleware tracks API performance metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Generate request ID for tracing
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		// Record start time
		startTime := time.Now()

		// Process request
		c.Next()

		duration := time.Since(startTime)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(duration.Seconds())

		// Get rows processed (if set by handler)
		rowsProcessed := 0
		if rows, exists := c.Get("rows_processed"); exists {
			if r, ok := rows.(int); ok {
				rowsProcessed = r
			}
		}

		// Get errors (if any)
		errors := ""
		if len(c.Errors) > 0 {
			errors = c.Errors.String()
		}

		metric := ApiMetric{
			RequestID:     requestID,
			Endpoint:      route,
			Method:        c.Request.Method,
			StatusCode:    c.Writer.Status(),
			DurationMs:    int(duration.Milliseconds()),
			RowsProcessed: rowsProcessed,
			Errors:        errors,
			Timestamp:     startTime,
		}

		// Save metric asynchronously
		db := GetDB()
		if db == nil {
			return
		}
		go func() {
			if err := db.Create(&metric).Error; err != nil {
				log := WithComponent("metrics")
				log.Debug().Err(err).Msg("persist api metric")
			}
		}()
	}
}
