package imports

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"movie-catalog/common"
)

const (
	defaultJobsLimit = 20
	maxJobsLimit     = 100
)

// GetImportResponse represents the response for load job status
type GetImportResponse struct {
	JobID         string                          `json:"job_id"`
	Trigger       string                          `json:"trigger"`
	Status        string                          `json:"status"`
	SourceURL     string                          `json:"source_url"`
	Format        string                          `json:"format"`
	TotalRows     int                             `json:"total_rows"`
	LoadedCount   int                             `json:"loaded_count"`
	SkippedCount  int                             `json:"skipped_count"`
	CategoryCount int                             `json:"category_count"`
	Skipped       []common.RecordValidationResult `json:"skipped,omitempty"`
	Error         string                          `json:"error,omitempty"`
	CreatedAt     string                          `json:"created_at"`
	UpdatedAt     string                          `json:"updated_at"`
	CompletedAt   *string                         `json:"completed_at,omitempty"`
}

func newImportResponse(job *common.LoadJob, withSkipped bool) GetImportResponse {
	response := GetImportResponse{
		JobID:         job.ID,
		Trigger:       job.Trigger,
		Status:        job.Status,
		SourceURL:     job.SourceURL,
		Format:        job.Format,
		TotalRows:     job.TotalRows,
		LoadedCount:   job.LoadedCount,
		SkippedCount:  job.SkippedCount,
		CategoryCount: job.CategoryCount,
		Error:         job.Error,
		CreatedAt:     job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     job.UpdatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		completedStr := job.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completedStr
	}
	if withSkipped {
		response.Skipped = job.SkippedRows()
	}
	return response
}

// RegisterRoutes mounts the load job endpoints
func RegisterRoutes(router *gin.RouterGroup, loader *Loader) {
	router.POST("", CreateImport(loader))
	router.GET("", ListImports(loader))
	router.GET("/:job_id", GetImport(loader))
}

// CreateImport godoc
// @Summary Reload the catalog
// @Description Fetches the source again and replaces the catalog snapshot. Joins a load already in progress.
// @Tags imports
// @Produce json
// @Success 200 {object} GetImportResponse "Load completed"
// @Failure 429 {object} map[string]string "Reload throttled"
// @Failure 502 {object} GetImportResponse "Source could not be loaded, previous catalog kept"
// @Router /imports [post]
func CreateImport(loader *Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := loader.Reload(c.Request.Context())
		switch {
		case errors.Is(err, ErrReloadThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Reload requested too soon, try again later"})
			return
		case job == nil && err != nil:
			// Caller went away before the shared load finished
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		c.Set("rows_processed", job.TotalRows)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusBadGateway, newImportResponse(job, false))
			return
		}
		c.JSON(http.StatusOK, newImportResponse(job, false))
	}
}

// ListImports godoc
// @Summary List recent load jobs
// @Tags imports
// @Produce json
// @Param limit query int false "Maximum jobs to return (default 20, max 100)"
// @Success 200 {object} map[string]interface{} "Recent jobs, newest first"
// @Router /imports [get]
func ListImports(loader *Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultJobsLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxJobsLimit)
		}

		jobs, err := loader.Jobs(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list load jobs"})
			return
		}

		responses := make([]GetImportResponse, 0, len(jobs))
		for i := range jobs {
			responses = append(responses, newImportResponse(&jobs[i], false))
		}
		c.JSON(http.StatusOK, gin.H{"jobs": responses})
	}
}

// GetImport godoc
// @Summary Get load job status
// @Description Retrieves a load job including the rows skipped while parsing
// @Tags imports
// @Produce json
// @Param job_id path string true "Load Job ID"
// @Success 200 {object} GetImportResponse "Load job details"
// @Failure 404 {object} map[string]string "Job not found"
// @Router /imports/{job_id} [get]
func GetImport(loader *Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := loader.Job(c.Param("job_id"))
		if errors.Is(err, ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Load job not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load job"})
			return
		}

		// Set rows processed for metrics
		c.Set("rows_processed", job.TotalRows)
		c.JSON(http.StatusOK, newImportResponse(job, true))
	}
}
