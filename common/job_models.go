package common

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Load job statuses
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// What started a load
const (
	TriggerStartup  = "startup"
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

// LoadJob records one ingestion cycle of the catalog source
type LoadJob struct {
	ID            string     `gorm:"primaryKey;type:text" json:"id"`
	Trigger       string     `gorm:"not null" json:"trigger"` // startup, manual, schedule
	SourceURL     string     `gorm:"not null" json:"source_url"`
	Format        string     `gorm:"not null" json:"format"` // csv, ndjson
	Status        string     `gorm:"not null;index" json:"status"`
	TotalRows     int        `gorm:"default:0" json:"total_rows"`
	LoadedCount   int        `gorm:"default:0" json:"loaded_count"`
	SkippedCount  int        `gorm:"default:0" json:"skipped_count"`
	CategoryCount int        `gorm:"default:0" json:"category_count"`
	Skipped       string     `gorm:"type:text" json:"-"` // JSON array of RecordValidationResult
	Error         string     `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// SetSkipped stores skipped row details as JSON
func (j *LoadJob) SetSkipped(results []RecordValidationResult) {
	j.SkippedCount = len(results)
	if len(results) == 0 {
		j.Skipped = ""
		return
	}
	data, _ := json.Marshal(results)
	j.Skipped = string(data)
}

// SkippedRows decodes the stored skipped row details
func (j *LoadJob) SkippedRows() []RecordValidationResult {
	if j.Skipped == "" {
		return nil
	}
	var results []RecordValidationResult
	if err := json.Unmarshal([]byte(j.Skipped), &results); err != nil {
		return nil
	}
	return results
}

// Finish marks the job completed, or failed when err is non-nil
func (j *LoadJob) Finish(err error) {
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
	if err != nil {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobStatusCompleted
}

// ApiMetric tracks API performance metrics
type ApiMetric struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RequestID     string    `gorm:"index" json:"request_id"`
	Endpoint      string    `gorm:"not null" json:"endpoint"`
	Method        string    `gorm:"not null" json:"method"`
	StatusCode    int       `gorm:"not null" json:"status_code"`
	DurationMs    int       `gorm:"not null" json:"duration_ms"`
	RowsProcessed int       `gorm:"default:0" json:"rows_processed"`
	Errors        string    `gorm:"type:text" json:"errors,omitempty"` // JSON errors
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}

func (LoadJob) TableName() string   { return "load_jobs" }
func (ApiMetric) TableName() string { return "api_metrics" }

// AutoMigrateJobs creates job tracking tables
func AutoMigrateJobs(db *gorm.DB) error {
	return db.AutoMigrate(&LoadJob{}, &ApiMetric{})
}
