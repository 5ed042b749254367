package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware_PersistsApiMetric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := TestDBInit(t.TempDir())
	defer TestDBFree(db)

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/movies/:name", func(c *gin.Context) {
		c.Set("rows_processed", 3)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/movies/Alpha", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	requestID := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, requestID)

	var metric ApiMetric
	require.Eventually(t, func() bool {
		return db.Where("request_id = ?", requestID).First(&metric).Error == nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "/movies/:name", metric.Endpoint)
	assert.Equal(t, http.MethodGet, metric.Method)
	assert.Equal(t, http.StatusNoContent, metric.StatusCode)
	assert.Equal(t, 3, metric.RowsProcessed)
}
