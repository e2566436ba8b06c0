package jobs

import (
	"github.com/getevo/evo/v2"
	"github.com/solacehr/solace-backend/lib/response"
)

// JobInfo is the list view of one registered job.
type JobInfo struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Schedule      string        `json:"schedule"`
	Enabled       bool          `json:"enabled"`
	LastExecution *JobExecution `json:"last_execution,omitempty"`
}

// GetJobs lists registered jobs with their most recent execution.
// GET /api/admin/jobs
func GetJobs(request *evo.Request) any {
	jobs := GetRegistry().All()

	infos := make([]JobInfo, 0, len(jobs))
	for _, job := range jobs {
		info := JobInfo{
			Name:        job.Name,
			Description: job.Description,
			Schedule:    job.Schedule,
			Enabled:     job.Enabled,
		}
		if scheduler := GetScheduler(); scheduler != nil {
			if last, err := scheduler.GetLastExecution(job.Name); err == nil {
				info.LastExecution = last
			}
		}
		infos = append(infos, info)
	}
	return response.List(infos, len(infos))
}

// GetJobExecutions lists recent executions, optionally filtered by job name.
// GET /api/admin/jobs/executions?job=<name>&limit=<n>
func GetJobExecutions(request *evo.Request) any {
	scheduler := GetScheduler()
	if scheduler == nil {
		return response.Error(response.InvalidState("Job scheduler is not running"))
	}

	limit := request.Query("limit").Int()
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	executions, err := scheduler.GetRecentExecutions(request.Query("job").String(), limit)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(executions, len(executions))
}

// RunJob triggers one job immediately, outside its schedule.
// POST /api/admin/jobs/:name/run
func RunJob(request *evo.Request) any {
	name := request.Param("name").String()
	if _, exists := GetRegistry().Get(name); !exists {
		return response.Error(response.ErrNotFound)
	}

	scheduler := GetScheduler()
	if scheduler == nil {
		return response.Error(response.InvalidState("Job scheduler is not running"))
	}
	if err := scheduler.RunNow(name); err != nil {
		return response.Error(response.ErrInternalError)
	}
	return response.Message("Job " + name + " triggered")
}
