package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Scheduler drives the registered jobs on their cron schedules. Every run
// takes the distributed lock first, so a job executes on exactly one
// instance at a time, and leaves a JobExecution row behind.
type Scheduler struct {
	cron    *cron.Cron
	locks   *LockManager
	jobs    map[string]*JobDefinition
	mu      sync.RWMutex
	running bool
}

var (
	scheduler *Scheduler
	once      sync.Once
)

// GetScheduler returns the process-wide scheduler, or nil before WhenReady.
func GetScheduler() *Scheduler {
	return scheduler
}

// NewScheduler creates the singleton scheduler. Schedules use six-field cron
// expressions (with seconds); a panicking handler is recovered and logged.
func NewScheduler(locks *LockManager) *Scheduler {
	once.Do(func() {
		scheduler = &Scheduler{
			cron: cron.New(cron.WithSeconds(), cron.WithChain(
				cron.Recover(cron.DefaultLogger),
			)),
			locks: locks,
			jobs:  make(map[string]*JobDefinition),
		}
	})
	return scheduler
}

// RegisterJob puts a job on its schedule. Disabled jobs are skipped so a
// single settings flag can turn one off without touching the registry.
func (s *Scheduler) RegisterJob(job JobDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !job.Enabled {
		log.Info("[jobs] %s is disabled, not scheduling", job.Name)
		return nil
	}

	s.jobs[job.Name] = &job
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.execute(job.Name) }); err != nil {
		return err
	}

	log.Info("[jobs] scheduled %s (%s)", job.Name, job.Schedule)
	return nil
}

// execute runs one job under the distributed lock and records the outcome.
func (s *Scheduler) execute(name string) {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		log.Error("[jobs] unknown job %s", name)
		return
	}

	if !s.locks.TryLock(name) {
		log.Debug("[jobs] %s is running on another instance, skipping", name)
		return
	}
	defer s.locks.Unlock(name)

	execution := &JobExecution{
		ID:         uuid.New(),
		JobName:    name,
		InstanceID: s.locks.GetInstanceID(),
		Status:     JobStatusRunning,
		StartedAt:  time.Now(),
	}
	if err := db.Create(execution).Error; err != nil {
		log.Error("[jobs] failed to record execution of %s: %v", name, err)
		return
	}

	log.Info("[jobs] starting %s (execution %s)", name, execution.ID)

	ctx := NewJobContext(name, execution.ID)
	var jobErr error
	if job.Timeout > 0 {
		jobErr = callWithTimeout(ctx, job.Handler, job.Timeout)
	} else {
		jobErr = job.Handler(ctx)
	}

	s.finish(execution, ctx, jobErr)
}

func (s *Scheduler) finish(execution *JobExecution, ctx *JobContext, jobErr error) {
	now := time.Now()
	execution.CompletedAt = &now
	execution.DurationMs = now.Sub(execution.StartedAt).Milliseconds()
	execution.RecordsProcessed = ctx.GetProcessed()

	if jobErr != nil {
		execution.Status = JobStatusFailed
		execution.Error = jobErr.Error()
		log.Error("[jobs] %s failed: %v", execution.JobName, jobErr)
	} else {
		execution.Status = JobStatusCompleted
		log.Info("[jobs] %s completed (%d records, %dms)",
			execution.JobName, execution.RecordsProcessed, execution.DurationMs)
	}

	if metadata := ctx.GetMetadata(); len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			execution.Metadata = string(raw)
		}
	}

	if err := db.Save(execution).Error; err != nil {
		log.Error("[jobs] failed to update execution %s: %v", execution.ID, err)
	}
}

// callWithTimeout abandons the handler when it overruns its budget. The
// goroutine keeps running; the execution is recorded as failed.
func callWithTimeout(jobCtx *JobContext, handler JobHandler, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- handler(jobCtx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start begins dispatching. Idempotent.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	log.Info("[jobs] scheduler started with %d jobs", len(s.jobs))
}

// Stop waits for in-flight runs to finish before returning.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	log.Info("[jobs] scheduler stopped")
}

// RunNow triggers one off-schedule run of a job. Unknown names are ignored;
// the admin endpoint validates against the registry first.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	_, exists := s.jobs[name]
	s.mu.RUnlock()
	if !exists {
		return nil
	}
	go s.execute(name)
	return nil
}

// GetRecentExecutions lists executions newest first, optionally filtered to
// one job.
func (s *Scheduler) GetRecentExecutions(jobName string, limit int) ([]JobExecution, error) {
	var executions []JobExecution
	query := db.Model(&JobExecution{}).Order("started_at DESC").Limit(limit)
	if jobName != "" {
		query = query.Where("job_name = ?", jobName)
	}
	if err := query.Find(&executions).Error; err != nil {
		return nil, err
	}
	return executions, nil
}

// GetLastExecution returns a job's most recent execution.
func (s *Scheduler) GetLastExecution(jobName string) (*JobExecution, error) {
	var execution JobExecution
	err := db.Model(&JobExecution{}).
		Where("job_name = ?", jobName).
		Order("started_at DESC").
		First(&execution).Error
	if err != nil {
		return nil, err
	}
	return &execution, nil
}

// CleanupOldExecutions deletes execution rows older than the given age and
// returns how many were removed.
func (s *Scheduler) CleanupOldExecutions(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := db.Where("started_at < ?", cutoff).Delete(&JobExecution{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
