package jobs

import (
	"fmt"
	"sync"
	"time"
)

// Registry is the catalog of known jobs. The scheduler owns when they run;
// the registry is what the admin endpoints list and validate against.
type Registry struct {
	jobs map[string]*JobDefinition
	mu   sync.RWMutex
}

var (
	registry *Registry
	regOnce  sync.Once
)

// GetRegistry returns the process-wide registry.
func GetRegistry() *Registry {
	regOnce.Do(func() {
		registry = &Registry{
			jobs: make(map[string]*JobDefinition),
		}
	})
	return registry
}

// Register validates and adds a job. Jobs without an explicit timeout get
// five minutes.
func (r *Registry) Register(job JobDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.Name == "" {
		return fmt.Errorf("job name cannot be empty")
	}
	if job.Handler == nil {
		return fmt.Errorf("job handler cannot be nil")
	}
	if job.Schedule == "" {
		return fmt.Errorf("job %s has no cron schedule", job.Name)
	}
	if _, exists := r.jobs[job.Name]; exists {
		return fmt.Errorf("job %s is already registered", job.Name)
	}

	if job.Timeout <= 0 {
		job.Timeout = 5 * time.Minute
	}

	r.jobs[job.Name] = &job
	return nil
}

// Get looks a job up by name.
func (r *Registry) Get(name string) (*JobDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[name]
	return job, exists
}

// All returns every registered job definition
func (r *Registry) All() []*JobDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]*JobDefinition, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// Count reports how many jobs are registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
