package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/restify"
	"gorm.io/gorm"
)

// Session status constants
const (
	SessionStatusPending   = "pending"
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// Session is one scheduled counseling conversation bound to a single chat.
// Transitions are monotonic: pending→active→completed, with cancellation
// possible from pending or active only. A completed session is immutable.
type Session struct {
	SessionID      string     `gorm:"column:session_id;size:12;primaryKey" json:"session_id"`
	EmployeeID     string     `gorm:"column:employee_id;size:12;not null;index" json:"employee_id"`
	ChatID         string     `gorm:"column:chat_id;size:12;not null;index" json:"chat_id"`
	Status         string     `gorm:"column:status;size:20;not null;index;check:status IN ('pending','active','completed','cancelled')" json:"status"`
	ScheduledAt    time.Time  `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	ReminderSentAt *time.Time `gorm:"column:reminder_sent_at" json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy    *string    `gorm:"column:cancelled_by;size:12" json:"cancelled_by,omitempty"`
	Notes          *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Version        uint       `gorm:"column:version;not null;default:0" json:"-"`

	restify.API
}

func (Session) TableName() string {
	return "sessions"
}

// NewSession builds a pending session for an employee and chat.
func NewSession(employeeID, chatID string, scheduledAt time.Time, notes *string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID:   NewSessionID(),
		EmployeeID:  employeeID,
		ChatID:      chatID,
		Status:      SessionStatusPending,
		ScheduledAt: scheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
		Notes:       notes,
	}
}

// Start transitions pending→active.
func (s *Session) Start(now time.Time) error {
	if s.Status != SessionStatusPending {
		return fmt.Errorf("%w: only pending sessions can be started, session %s is %s", ErrInvalidState, s.SessionID, s.Status)
	}
	s.Status = SessionStatusActive
	s.UpdatedAt = now
	return nil
}

// Complete transitions active→completed.
func (s *Session) Complete(now time.Time) error {
	if s.Status != SessionStatusActive {
		return fmt.Errorf("%w: only active sessions can be completed, session %s is %s", ErrInvalidState, s.SessionID, s.Status)
	}
	s.Status = SessionStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel transitions pending|active→cancelled, recording the actor.
func (s *Session) Cancel(cancelledBy string, now time.Time) error {
	if s.Status != SessionStatusPending && s.Status != SessionStatusActive {
		return fmt.Errorf("%w: only pending or active sessions can be cancelled, session %s is %s", ErrInvalidState, s.SessionID, s.Status)
	}
	s.Status = SessionStatusCancelled
	s.CancelledAt = &now
	s.CancelledBy = &cancelledBy
	s.UpdatedAt = now
	return nil
}

// CreateSession persists a new session record.
func CreateSession(s *Session) error {
	return db.Create(s).Error
}

// SaveSession persists session mutations with a compare-and-swap on the
// version column. Concurrent writers (a scheduler job racing a live chat)
// lose with ErrConflict instead of silently clobbering each other.
func SaveSession(s *Session) error {
	prev := s.Version
	s.Version = prev + 1
	result := db.Model(&Session{}).
		Where("session_id = ? AND version = ?", s.SessionID, prev).
		Select("*").Omit("created_at").
		Updates(s)
	if result.Error != nil {
		s.Version = prev
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.Version = prev
		return fmt.Errorf("%w: session %s was modified concurrently", ErrConflict, s.SessionID)
	}
	return nil
}

// DeleteSession removes a session. Only used as saga compensation during
// chain-creation rollback; sessions are never deleted in normal operation.
func DeleteSession(sessionID string) error {
	return db.Where("session_id = ?", sessionID).Delete(&Session{}).Error
}

// GetSessionByID fetches one session by business identifier.
func GetSessionByID(sessionID string) (*Session, error) {
	var session Session
	err := db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetSessionByChatID fetches the session bound to a chat. Exactly one
// session references a given chat.
func GetSessionByChatID(chatID string) (*Session, error) {
	var session Session
	err := db.Where("chat_id = ?", chatID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetSessionsByEmployee lists all sessions of an employee.
func GetSessionsByEmployee(employeeID string) ([]Session, error) {
	var sessions []Session
	err := db.Where("employee_id = ?", employeeID).Order("scheduled_at").Find(&sessions).Error
	return sessions, err
}

// GetSessionsByIDs fetches the sessions referenced by a chain.
func GetSessionsByIDs(sessionIDs []string) ([]Session, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var sessions []Session
	err := db.Where("session_id IN ?", sessionIDs).Find(&sessions).Error
	return sessions, err
}

// GetSessionsByStatus lists sessions in a given status, oldest schedule first.
func GetSessionsByStatus(status string) ([]Session, error) {
	var sessions []Session
	err := db.Where("status = ?", status).Order("scheduled_at").Find(&sessions).Error
	return sessions, err
}

// GetSessionsForEmployees lists sessions of the given employees in the given
// statuses, oldest schedule first. Used by HR/admin dashboards.
func GetSessionsForEmployees(employeeIDs, statuses []string) ([]Session, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var sessions []Session
	err := db.Where("employee_id IN ? AND status IN ?", employeeIDs, statuses).
		Order("scheduled_at").
		Find(&sessions).Error
	return sessions, err
}

// CountUpcomingPendingSessions counts pending future sessions of an employee.
func CountUpcomingPendingSessions(employeeID string, now time.Time) (int64, error) {
	var count int64
	err := db.Model(&Session{}).
		Where("employee_id = ? AND status = ? AND scheduled_at > ?", employeeID, SessionStatusPending, now).
		Count(&count).Error
	return count, err
}

// GetSessionsCreatedSince lists sessions created at or after the cutoff.
// Used by the selection job's cooldown filter.
func GetSessionsCreatedSince(cutoff time.Time) ([]Session, error) {
	var sessions []Session
	err := db.Where("created_at >= ?", cutoff).Find(&sessions).Error
	return sessions, err
}
