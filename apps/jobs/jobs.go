package jobs

import (
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/evo/v2/lib/settings"
)

// Job names as constants for consistency
const (
	JobEmployeeSelection    = "employee_selection"
	JobSessionDeadlineCheck = "session_deadline_check"
	JobNotificationCleanup  = "notification_cleanup"
	JobCleanupJobExecutions = "cleanup_job_executions"
)

// RegisterAllJobs registers all background jobs with the registry and the
// scheduler. Schedules are cron expressions with seconds, overridable via
// JOBS.* settings.
func RegisterAllJobs(scheduler *Scheduler) {
	registry := GetRegistry()

	definitions := []JobDefinition{
		{
			Name:        JobEmployeeSelection,
			Description: "Run the anomaly-detection selector over employee company data and open counseling chains for flagged employees",
			Schedule:    settings.Get("JOBS.SELECTION_SCHEDULE", "0 0 9 * * *").String(),
			Timeout:     30 * time.Minute,
			Handler:     handleEmployeeSelection,
			Enabled:     settings.Get("JOBS.SELECTION_ENABLED", true).Bool(),
		},
		{
			Name:        JobSessionDeadlineCheck,
			Description: "Remind employees about overdue sessions and escalate chains whose deadline passed",
			Schedule:    settings.Get("JOBS.DEADLINE_SCHEDULE", "0 15 10 * * *").String(),
			Timeout:     15 * time.Minute,
			Handler:     handleSessionDeadlineCheck,
			Enabled:     settings.Get("JOBS.DEADLINE_ENABLED", true).Bool(),
		},
		{
			Name:        JobNotificationCleanup,
			Description: "Delete in-app notifications past the retention window",
			Schedule:    settings.Get("JOBS.NOTIFICATION_CLEANUP_SCHEDULE", "0 30 3 * * *").String(),
			Timeout:     5 * time.Minute,
			Handler:     handleNotificationCleanup,
			Enabled:     true,
		},
		{
			Name:        JobCleanupJobExecutions,
			Description: "Clean up job execution history past the retention window",
			Schedule:    settings.Get("JOBS.EXECUTION_CLEANUP_SCHEDULE", "0 45 3 * * *").String(),
			Timeout:     5 * time.Minute,
			Handler:     handleCleanupJobExecutions,
			Enabled:     true,
		},
	}

	for _, definition := range definitions {
		if err := registry.Register(definition); err != nil {
			log.Error("[jobs] failed to register %s: %v", definition.Name, err)
			continue
		}
		if err := scheduler.RegisterJob(definition); err != nil {
			log.Error("[jobs] failed to schedule %s: %v", definition.Name, err)
		}
	}

	log.Info("[jobs] Registered %d jobs", registry.Count())
}
