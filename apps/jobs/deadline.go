package jobs

import (
	"errors"
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/chain"
	"github.com/solacehr/solace-backend/apps/mail"
	"github.com/solacehr/solace-backend/apps/models"
)

// Overdue thresholds for unattended sessions.
const (
	ReminderAfter = 24 * time.Hour
	EscalateAfter = 48 * time.Hour

	// ChatGrace protects an active session whose chat saw a message
	// recently: the employee is mid-conversation, not absent.
	ChatGrace = time.Hour
)

// DeadlineAction is the deadline check's verdict for one session.
type DeadlineAction int

const (
	DeadlineNone DeadlineAction = iota
	DeadlineRemind
	DeadlineEscalate
)

// ClassifyDeadline decides what the deadline job should do with a session.
// lastChatAt is the timestamp of the newest chat message, nil for an empty
// chat. Reminders fire once (reminder_sent_at marker); escalation is skipped
// for active sessions whose chat is inside the grace window. Terminal
// sessions always map to DeadlineNone, which makes re-runs idempotent.
func ClassifyDeadline(session *models.Session, lastChatAt *time.Time, now time.Time) DeadlineAction {
	if session.Status != models.SessionStatusPending && session.Status != models.SessionStatusActive {
		return DeadlineNone
	}

	overdue := now.Sub(session.ScheduledAt)
	if overdue >= EscalateAfter {
		if session.Status == models.SessionStatusActive && lastChatAt != nil && now.Sub(*lastChatAt) < ChatGrace {
			return DeadlineNone
		}
		return DeadlineEscalate
	}
	if overdue >= ReminderAfter {
		if session.ReminderSentAt != nil {
			return DeadlineNone
		}
		return DeadlineRemind
	}
	return DeadlineNone
}

func handleSessionDeadlineCheck(ctx *JobContext) error {
	now := time.Now().UTC()

	reminded, escalated := 0, 0
	for _, status := range []string{models.SessionStatusPending, models.SessionStatusActive} {
		sessions, err := models.GetSessionsByStatus(status)
		if err != nil {
			return err
		}
		for i := range sessions {
			session := &sessions[i]

			var lastChatAt *time.Time
			if last, err := models.GetLastMessage(session.ChatID); err == nil {
				lastChatAt = &last.Timestamp
			}

			switch ClassifyDeadline(session, lastChatAt, now) {
			case DeadlineRemind:
				if err := remindSession(session, now); err != nil {
					log.Error("[%s] reminder for session %s failed: %v", JobSessionDeadlineCheck, session.SessionID, err)
					continue
				}
				reminded++
				ctx.IncrementProcessed(1)
			case DeadlineEscalate:
				if err := escalateSession(session); err != nil {
					log.Error("[%s] escalation for session %s failed: %v", JobSessionDeadlineCheck, session.SessionID, err)
					continue
				}
				escalated++
				ctx.IncrementProcessed(1)
			}
		}
	}

	ctx.SetMetadata("reminded", reminded)
	ctx.SetMetadata("escalated", escalated)
	return nil
}

func remindSession(session *models.Session, now time.Time) error {
	employee, err := models.GetEmployeeByID(session.EmployeeID)
	if err != nil {
		return err
	}

	session.ReminderSentAt = &now
	session.UpdatedAt = now
	if err := models.SaveSession(session); err != nil {
		return err
	}

	mail.NotifySessionReminder(employee.Email, employee.Name, session.ScheduledAt)
	if _, err := models.CreateNotification(session.EmployeeID,
		"Check-in Reminder",
		"Your wellness check-in has not been started yet. Please complete it soon."); err != nil {
		log.Warning("[%s] failed to notify employee %s: %v", JobSessionDeadlineCheck, session.EmployeeID, err)
	}
	return nil
}

func escalateSession(session *models.Session) error {
	linked, err := models.GetChainBySessionID(session.SessionID)
	if err != nil {
		return err
	}
	if linked.Status != models.ChainStatusActive {
		// already handled by a previous run or a live escalation
		return nil
	}

	if err := chain.Escalate(linked, "deadline exceeded"); err != nil {
		if errors.Is(err, models.ErrInvalidState) || errors.Is(err, models.ErrConflict) {
			return nil
		}
		return err
	}

	if employee, err := models.GetEmployeeByID(session.EmployeeID); err == nil {
		mail.NotifyFinalNotice(employee.Email, employee.Name)
	}
	return nil
}
