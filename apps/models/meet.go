package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/restify"
	"gorm.io/gorm"
)

// Meet status constants
const (
	MeetStatusScheduled  = "scheduled"
	MeetStatusInProgress = "in_progress"
	MeetStatusCompleted  = "completed"
	MeetStatusCancelled  = "cancelled"
	MeetStatusNoShow     = "no_show"
)

// Meet duration bounds in minutes
const (
	MeetMinDuration = 1
	MeetMaxDuration = 480
)

// Meet is a calendar meeting between an organizer (HR/admin) and an
// attendee. Status transitions form a strict DAG: start requires scheduled,
// complete requires in_progress, cancel only from scheduled/in_progress.
type Meet struct {
	MeetID          string     `gorm:"column:meet_id;size:12;primaryKey" json:"meet_id"`
	UserID          string     `gorm:"column:user_id;size:12;not null;index" json:"user_id"`
	WithUserID      string     `gorm:"column:with_user_id;size:12;not null;index" json:"with_user_id"`
	ScheduledAt     time.Time  `gorm:"column:scheduled_at;not null;index" json:"scheduled_at"`
	DurationMinutes int        `gorm:"column:duration_minutes;not null" json:"duration_minutes" validate:"gte=1,lte=480"`
	Status          string     `gorm:"column:status;size:20;not null;index;check:status IN ('scheduled','in_progress','completed','cancelled','no_show')" json:"status"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
	StartedAt       *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	EndedAt         *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancelledBy     *string    `gorm:"column:cancelled_by;size:12" json:"cancelled_by,omitempty"`
	MeetingLink     *string    `gorm:"column:meeting_link;size:500" json:"meeting_link,omitempty"`
	Location        *string    `gorm:"column:location;size:255" json:"location,omitempty"`
	Notes           *string    `gorm:"column:notes;type:text" json:"notes,omitempty"`

	restify.API
}

func (Meet) TableName() string {
	return "meets"
}

// End returns the moment the meeting's scheduled slot finishes.
func (m *Meet) End() time.Time {
	return m.ScheduledAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// NewMeet builds a scheduled meeting.
func NewMeet(userID, withUserID string, scheduledAt time.Time, durationMinutes int, meetingLink, location, notes *string) (*Meet, error) {
	if durationMinutes < MeetMinDuration || durationMinutes > MeetMaxDuration {
		return nil, fmt.Errorf("duration must be between %d and %d minutes, got %d", MeetMinDuration, MeetMaxDuration, durationMinutes)
	}
	now := time.Now().UTC()
	return &Meet{
		MeetID:          NewMeetID(),
		UserID:          userID,
		WithUserID:      withUserID,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		Status:          MeetStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
		MeetingLink:     meetingLink,
		Location:        location,
		Notes:           notes,
	}, nil
}

// Start transitions scheduled→in_progress.
func (m *Meet) Start(now time.Time) error {
	if m.Status != MeetStatusScheduled {
		return fmt.Errorf("%w: only scheduled meetings can be started, meet %s is %s", ErrInvalidState, m.MeetID, m.Status)
	}
	m.Status = MeetStatusInProgress
	m.StartedAt = &now
	m.UpdatedAt = now
	return nil
}

// Complete transitions in_progress→completed.
func (m *Meet) Complete(now time.Time) error {
	if m.Status != MeetStatusInProgress {
		return fmt.Errorf("%w: only in-progress meetings can be completed, meet %s is %s", ErrInvalidState, m.MeetID, m.Status)
	}
	m.Status = MeetStatusCompleted
	m.EndedAt = &now
	m.UpdatedAt = now
	return nil
}

// MarkNoShow transitions scheduled→no_show.
func (m *Meet) MarkNoShow(now time.Time) error {
	if m.Status != MeetStatusScheduled {
		return fmt.Errorf("%w: only scheduled meetings can be marked no-show, meet %s is %s", ErrInvalidState, m.MeetID, m.Status)
	}
	m.Status = MeetStatusNoShow
	m.UpdatedAt = now
	return nil
}

// Cancel transitions scheduled|in_progress→cancelled.
func (m *Meet) Cancel(cancelledBy string, now time.Time) error {
	if m.Status != MeetStatusScheduled && m.Status != MeetStatusInProgress {
		return fmt.Errorf("%w: only scheduled or in-progress meetings can be cancelled, meet %s is %s", ErrInvalidState, m.MeetID, m.Status)
	}
	m.Status = MeetStatusCancelled
	m.CancelledAt = &now
	m.CancelledBy = &cancelledBy
	m.UpdatedAt = now
	return nil
}

// CreateMeet persists a new meeting record.
func CreateMeet(m *Meet) error {
	return db.Create(m).Error
}

// SaveMeet persists meeting mutations.
func SaveMeet(m *Meet) error {
	m.UpdatedAt = time.Now().UTC()
	return db.Save(m).Error
}

// GetMeetByID fetches one meeting by business identifier.
func GetMeetByID(meetID string) (*Meet, error) {
	var meet Meet
	err := db.Where("meet_id = ?", meetID).First(&meet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &meet, nil
}

// GetMeetsByOrganizer lists meetings organized by a user, soonest first.
func GetMeetsByOrganizer(userID string) ([]Meet, error) {
	var meets []Meet
	err := db.Where("user_id = ?", userID).Order("scheduled_at").Find(&meets).Error
	return meets, err
}

// GetMeetsByAttendee lists meetings a user attends, soonest first.
func GetMeetsByAttendee(withUserID string) ([]Meet, error) {
	var meets []Meet
	err := db.Where("with_user_id = ?", withUserID).Order("scheduled_at").Find(&meets).Error
	return meets, err
}

// CountUpcomingMeets counts still-scheduled future meetings where the user
// participates on either side.
func CountUpcomingMeets(userID string, now time.Time) (int64, error) {
	var count int64
	err := db.Model(&Meet{}).
		Where("status = ? AND scheduled_at > ?", MeetStatusScheduled, now).
		Where("user_id = ? OR with_user_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

// GetScheduledMeetsForUser lists still-scheduled meetings where the user is
// organizer or attendee, used for slot conflict checks.
func GetScheduledMeetsForUser(userID string) ([]Meet, error) {
	var meets []Meet
	err := db.Where("status = ?", MeetStatusScheduled).
		Where("user_id = ? OR with_user_id = ?", userID, userID).
		Order("scheduled_at").
		Find(&meets).Error
	return meets, err
}
