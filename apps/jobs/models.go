package jobs

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the outcome of one job run.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobExecution is the persisted record of one job run, including which
// instance ran it and how it ended.
type JobExecution struct {
	ID               uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	JobName          string     `gorm:"size:100;not null;index:idx_job_started,priority:1" json:"job_name"`
	InstanceID       string     `gorm:"size:100;not null" json:"instance_id"`
	Status           JobStatus  `gorm:"size:20;not null;default:running" json:"status"`
	StartedAt        time.Time  `gorm:"not null;index:idx_job_started,priority:2" json:"started_at"`
	CompletedAt      *time.Time `gorm:"" json:"completed_at"`
	DurationMs       int64      `gorm:"default:0" json:"duration_ms"`
	RecordsProcessed int        `gorm:"default:0" json:"records_processed"`
	Error            string     `gorm:"type:text" json:"error,omitempty"`
	Metadata         string     `gorm:"type:json" json:"metadata,omitempty"`
}

func (JobExecution) TableName() string {
	return "job_executions"
}

// JobDefinition describes one scheduled job.
type JobDefinition struct {
	Name        string
	Description string
	Schedule    string // six-field cron expression, with seconds
	Timeout     time.Duration
	Handler     JobHandler
	Enabled     bool
}

// JobHandler is the signature every job implements.
type JobHandler func(ctx *JobContext) error

// JobContext carries per-run bookkeeping into a handler: a processed
// counter and free-form metadata, both persisted on the execution record.
type JobContext struct {
	JobName     string
	ExecutionID uuid.UUID
	StartedAt   time.Time
	processed   int
	metadata    map[string]interface{}
}

// NewJobContext builds the context handed to a handler for one run.
func NewJobContext(jobName string, executionID uuid.UUID) *JobContext {
	return &JobContext{
		JobName:     jobName,
		ExecutionID: executionID,
		StartedAt:   time.Now(),
		metadata:    make(map[string]interface{}),
	}
}

// IncrementProcessed adds to the run's processed-records counter.
func (ctx *JobContext) IncrementProcessed(count int) {
	ctx.processed += count
}

func (ctx *JobContext) GetProcessed() int {
	return ctx.processed
}

// SetMetadata records a value on the execution record, e.g. how many
// employees a selection run picked.
func (ctx *JobContext) SetMetadata(key string, value interface{}) {
	ctx.metadata[key] = value
}

func (ctx *JobContext) GetMetadata() map[string]interface{} {
	return ctx.metadata
}
