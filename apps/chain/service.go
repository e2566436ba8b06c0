package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/llm"
	"github.com/solacehr/solace-backend/apps/mail"
	"github.com/solacehr/solace-backend/apps/meet"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/apps/nats"
	"github.com/solacehr/solace-backend/lib/saga"
)

// ErrActiveChainExists rejects chain creation while the employee already has
// an active counseling episode.
var ErrActiveChainExists = errors.New("employee already has an active chain")

// DefaultSessionTime returns the default schedule for a new session: the
// next day at 10:00 UTC.
func DefaultSessionTime(now time.Time) time.Time {
	next := now.UTC().AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 10, 0, 0, 0, time.UTC)
}

// Create opens a counseling chain for an employee: a chat, a pending first
// session, the chain itself, a notification and the external report analysis,
// executed as a saga with compensating deletes. scheduledAt nil means the
// default next-day slot.
func Create(ctx context.Context, employeeID string, scheduledAt *time.Time, notes *string) (*models.Chain, error) {
	employee, err := models.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, err
	}

	if _, err := models.GetActiveChainByEmployee(employeeID); err == nil {
		return nil, fmt.Errorf("%w: employee %s", ErrActiveChainExists, employeeID)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	when := DefaultSessionTime(time.Now())
	if scheduledAt != nil {
		when = scheduledAt.UTC()
	}

	chat := models.NewChat(employeeID)
	session := models.NewSession(employeeID, chat.ChatID, when, nil)
	chain := models.NewChain(employeeID, []string{session.SessionID}, notes)

	var notificationID uint
	err = saga.New("chain-creation").Execute(
		saga.Step{
			Name: "create-chat",
			Run:  func() error { return models.CreateChat(chat) },
			Undo: func() error { return models.DeleteChat(chat.ChatID) },
		},
		saga.Step{
			Name: "create-session",
			Run:  func() error { return models.CreateSession(session) },
			Undo: func() error { return models.DeleteSession(session.SessionID) },
		},
		saga.Step{
			Name: "create-chain",
			Run:  func() error { return models.CreateChain(chain) },
			Undo: func() error { return models.DeleteChain(chain.ChainID) },
		},
		saga.Step{
			Name: "create-notification",
			Run: func() error {
				notification, err := models.CreateNotification(employeeID,
					"Counseling Session Scheduled",
					fmt.Sprintf("A wellness check-in has been scheduled for %s UTC.", when.Format("2006-01-02 15:04")))
				if err != nil {
					return err
				}
				notificationID = notification.ID
				return nil
			},
			Undo: func() error { return models.DeleteNotification(notificationID) },
		},
		saga.Step{
			Name: "analyze-report",
			Run: func() error {
				client := llm.GetClient()
				if client == nil {
					log.Warning("[chain] LLM service not configured, skipping report analysis for chain %s", chain.ChainID)
					return nil
				}
				return client.AnalyzeReport(ctx, employeeID, []byte(employee.CompanyData), chain.ChainID)
			},
		},
	)
	if err != nil {
		return nil, err
	}

	mail.NotifySessionScheduled(employee.Email, employee.Name, when)
	nats.PublishEvent(nats.SubjectChainCreated, employeeID, chain.ChainID, map[string]any{
		"session_id":   session.SessionID,
		"scheduled_at": when,
	})

	return chain, nil
}

// Complete finishes an active chain and cascade-completes its active
// sessions. Sessions in any other status are left as they are.
func Complete(chain *models.Chain) error {
	now := time.Now().UTC()
	if err := chain.MarkCompleted(now); err != nil {
		return err
	}
	if err := models.SaveChain(chain); err != nil {
		return err
	}
	if err := cascadeSessions(chain, now, false); err != nil {
		return err
	}

	if _, err := models.CreateNotification(chain.EmployeeID,
		"Counseling Chain Completed",
		"Your wellness check-in has concluded. Thank you for participating."); err != nil {
		log.Warning("[chain] failed to notify employee %s: %v", chain.EmployeeID, err)
	}
	nats.PublishEvent(nats.SubjectChainCompleted, chain.EmployeeID, chain.ChainID, nil)
	return nil
}

// Escalate hands an active chain over to HR: cascade-completes every
// non-terminal session, books an HR meeting at the earliest free slot and
// records the meeting and reason on the chain. Both parties are emailed by
// the escalation coordinator.
func Escalate(chain *models.Chain, reason string) error {
	return escalate(chain, reason, func(employee *models.Employee) (*models.Meet, error) {
		return meet.CreateEscalationMeeting(employee, reason)
	})
}

// EscalateViaProbe escalates a chain from the live-chat path: the meeting is
// booked with the buffered probe algorithm instead of earliest-possible.
func EscalateViaProbe(chain *models.Chain, reason string, durationMinutes int) error {
	return escalate(chain, reason, func(employee *models.Employee) (*models.Meet, error) {
		return meet.CreateProbeEscalationMeeting(employee, reason, durationMinutes)
	})
}

func escalate(chain *models.Chain, reason string, book func(*models.Employee) (*models.Meet, error)) error {
	now := time.Now().UTC()
	if chain.Status != models.ChainStatusActive {
		return fmt.Errorf("%w: only active chains can be escalated, chain %s is %s", models.ErrInvalidState, chain.ChainID, chain.Status)
	}

	employee, err := models.GetEmployeeByID(chain.EmployeeID)
	if err != nil {
		return fmt.Errorf("employee %s of chain %s not found: %w", chain.EmployeeID, chain.ChainID, err)
	}

	meeting, err := book(employee)
	if err != nil {
		return fmt.Errorf("failed to book escalation meeting: %w", err)
	}

	if err := chain.MarkEscalated(reason, meeting.MeetID, now); err != nil {
		return err
	}
	if err := models.SaveChain(chain); err != nil {
		return err
	}
	if err := cascadeSessions(chain, now, true); err != nil {
		return err
	}

	nats.PublishEvent(nats.SubjectChainEscalated, chain.EmployeeID, chain.ChainID, map[string]any{
		"meet_id": meeting.MeetID,
		"reason":  reason,
	})
	return nil
}

// Cancel cancels an active or escalated chain and cancels its pending and
// active sessions.
func Cancel(chain *models.Chain, cancelledBy string) error {
	now := time.Now().UTC()
	if err := chain.MarkCancelled(now); err != nil {
		return err
	}
	if err := models.SaveChain(chain); err != nil {
		return err
	}

	sessions, err := models.GetSessionsByIDs(chain.SessionIDs)
	if err != nil {
		return err
	}
	for i := range sessions {
		session := &sessions[i]
		if session.Status != models.SessionStatusPending && session.Status != models.SessionStatusActive {
			continue
		}
		if err := session.Cancel(cancelledBy, now); err != nil {
			return err
		}
		if err := models.SaveSession(session); err != nil {
			return err
		}
	}

	nats.PublishEvent(nats.SubjectChainCancelled, chain.EmployeeID, chain.ChainID, nil)
	return nil
}

// AppendNextSession creates the employee's next pending session with its own
// chat and links it to the chain. Used when a chat session ends and the
// follow-up gets booked for the next day.
func AppendNextSession(chain *models.Chain, scheduledAt time.Time) (*models.Session, error) {
	now := time.Now().UTC()

	chat := models.NewChat(chain.EmployeeID)
	if err := models.CreateChat(chat); err != nil {
		return nil, err
	}

	session := models.NewSession(chain.EmployeeID, chat.ChatID, scheduledAt, nil)
	if err := models.CreateSession(session); err != nil {
		if dErr := models.DeleteChat(chat.ChatID); dErr != nil {
			log.Error("[chain] failed to clean up chat %s after session creation failure: %v", chat.ChatID, dErr)
		}
		return nil, err
	}

	if err := chain.AddSession(session.SessionID, now); err != nil {
		return nil, err
	}
	if err := models.SaveChain(chain); err != nil {
		return nil, err
	}
	return session, nil
}

// cascadeSessions completes the chain's sessions. Active sessions always
// complete; pending ones only when includePending is set, since escalation
// must leave no session in a live status while plain completion skips them.
func cascadeSessions(chain *models.Chain, now time.Time, includePending bool) error {
	sessions, err := models.GetSessionsByIDs(chain.SessionIDs)
	if err != nil {
		return err
	}
	for i := range sessions {
		session := &sessions[i]
		switch session.Status {
		case models.SessionStatusActive:
		case models.SessionStatusPending:
			if !includePending {
				continue
			}
			if err := session.Start(now); err != nil {
				return err
			}
		default:
			continue
		}
		if err := session.Complete(now); err != nil {
			return err
		}
		if err := models.SaveSession(session); err != nil {
			return err
		}
	}
	return nil
}
