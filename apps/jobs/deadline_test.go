package jobs

import (
	"testing"
	"time"

	"github.com/solacehr/solace-backend/apps/models"
	"github.com/stretchr/testify/assert"
)

func overdueSession(status string, overdue time.Duration, now time.Time) *models.Session {
	return &models.Session{
		SessionID:   models.NewSessionID(),
		EmployeeID:  "EMP0001",
		ChatID:      models.NewChatID(),
		Status:      status,
		ScheduledAt: now.Add(-overdue),
	}
}

func TestClassifyDeadlineNotYetOverdue(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusPending, 6*time.Hour, now)
	assert.Equal(t, DeadlineNone, ClassifyDeadline(session, nil, now))
}

func TestClassifyDeadlineRemindsAfterOneDay(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusPending, 30*time.Hour, now)
	assert.Equal(t, DeadlineRemind, ClassifyDeadline(session, nil, now))
}

func TestClassifyDeadlineRemindsOnlyOnce(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusPending, 30*time.Hour, now)
	sent := now.Add(-2 * time.Hour)
	session.ReminderSentAt = &sent
	assert.Equal(t, DeadlineNone, ClassifyDeadline(session, nil, now))
}

func TestClassifyDeadlineEscalatesAfterTwoDays(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusPending, 49*time.Hour, now)
	assert.Equal(t, DeadlineEscalate, ClassifyDeadline(session, nil, now))
}

func TestClassifyDeadlineEscalationBeatsStaleReminder(t *testing.T) {
	// a session that was reminded still escalates once two days pass
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusPending, 50*time.Hour, now)
	sent := now.Add(-20 * time.Hour)
	session.ReminderSentAt = &sent
	assert.Equal(t, DeadlineEscalate, ClassifyDeadline(session, nil, now))
}

func TestClassifyDeadlineGraceForLiveConversation(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusActive, 49*time.Hour, now)
	recent := now.Add(-10 * time.Minute)
	assert.Equal(t, DeadlineNone, ClassifyDeadline(session, &recent, now))
}

func TestClassifyDeadlineGraceExpires(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusActive, 49*time.Hour, now)
	stale := now.Add(-90 * time.Minute)
	assert.Equal(t, DeadlineEscalate, ClassifyDeadline(session, &stale, now))
}

func TestClassifyDeadlineNoGraceForPending(t *testing.T) {
	// grace only applies to active sessions; a pending one never started
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	session := overdueSession(models.SessionStatusPending, 49*time.Hour, now)
	recent := now.Add(-10 * time.Minute)
	assert.Equal(t, DeadlineEscalate, ClassifyDeadline(session, &recent, now))
}

func TestClassifyDeadlineTerminalSessionsUntouched(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	for _, status := range []string{models.SessionStatusCompleted, models.SessionStatusCancelled} {
		session := overdueSession(status, 72*time.Hour, now)
		assert.Equal(t, DeadlineNone, ClassifyDeadline(session, nil, now), status)
	}
}

func TestFilterEligibleDropsCooldownAndActive(t *testing.T) {
	selected := []string{"EMP0001", "EMP0002", "EMP0003", "EMP0004"}
	onCooldown := map[string]bool{"EMP0002": true}
	active := func(id string) bool { return id == "EMP0003" }

	eligible := FilterEligible(selected, onCooldown, active)
	assert.Equal(t, []string{"EMP0001", "EMP0004"}, eligible)
}

func TestFilterEligibleEmptySelection(t *testing.T) {
	assert.Empty(t, FilterEligible(nil, nil, func(string) bool { return false }))
}
