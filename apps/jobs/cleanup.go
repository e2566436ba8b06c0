package jobs

import (
	"time"

	"github.com/getevo/evo/v2/lib/settings"
	"github.com/solacehr/solace-backend/apps/models"
)

// NotificationRetentionDays is how long in-app notifications are kept.
const NotificationRetentionDays = 10

func handleNotificationCleanup(ctx *JobContext) error {
	retention := settings.Get("JOBS.NOTIFICATION_RETENTION_DAYS", NotificationRetentionDays).Int()
	cutoff := time.Now().UTC().AddDate(0, 0, -retention)

	deleted, err := models.DeleteNotificationsBefore(cutoff)
	if err != nil {
		return err
	}
	ctx.IncrementProcessed(int(deleted))
	ctx.SetMetadata("cutoff", cutoff.Format(time.RFC3339))
	return nil
}

func handleCleanupJobExecutions(ctx *JobContext) error {
	retentionDays := settings.Get("JOBS.EXECUTION_RETENTION_DAYS", 7).Int()

	deleted, err := GetScheduler().CleanupOldExecutions(time.Duration(retentionDays) * 24 * time.Hour)
	if err != nil {
		return err
	}
	ctx.IncrementProcessed(int(deleted))
	return nil
}
