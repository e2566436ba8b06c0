package meet

import (
	"fmt"
	"time"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

// ScheduleMeetRequest is the payload for admin/HR meeting scheduling.
type ScheduleMeetRequest struct {
	UserID          string  `json:"user_id" validate:"required"`
	ScheduledDate   string  `json:"scheduled_date" validate:"required"` // YYYY-MM-DD
	ScheduledTime   string  `json:"scheduled_time" validate:"required"` // HH:MM
	DurationMinutes int     `json:"duration_minutes" validate:"gte=1,lte=480"`
	MeetingLink     *string `json:"meeting_link,omitempty"`
	Location        *string `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (r ScheduleMeetRequest) parseSchedule() (time.Time, error) {
	return time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", r.ScheduledDate, r.ScheduledTime))
}

// MeetView is a meeting with the counterpart's identity resolved.
type MeetView struct {
	models.Meet
	Counterpart *CounterpartInfo `json:"counterpart,omitempty"`
}

type CounterpartInfo struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

// AdminSchedule books a meeting between the admin and any employee.
func (c Controller) AdminSchedule(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}
	if actor.Role != models.RoleAdmin {
		return response.Error(response.ErrForbidden)
	}

	var req ScheduleMeetRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	target, err := models.GetEmployeeByID(req.UserID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}

	scheduledAt, err := req.parseSchedule()
	if err != nil {
		return response.Error(response.Validation("Invalid date or time format. Use YYYY-MM-DD for date and HH:MM for time."))
	}
	if scheduledAt.Before(time.Now().UTC()) {
		return response.Error(response.Validation("Cannot schedule meetings in the past"))
	}

	meet, err := models.NewMeet(actor.EmployeeID, target.EmployeeID, scheduledAt, req.DurationMinutes, req.MeetingLink, req.Location, req.Notes)
	if err != nil {
		return response.Error(response.Validation(err.Error()))
	}
	if err := models.CreateMeet(meet); err != nil {
		log.Error("[meet] failed to create meeting: %v", err)
		return response.Error(response.ErrDatabaseError)
	}

	return response.Created(meet)
}

// HRSchedule books a meeting between the HR and one of their reports, using
// the HR's stored meeting link.
func (c Controller) HRSchedule(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	var req ScheduleMeetRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}

	target, err := models.GetEmployeeByID(req.UserID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}

	if err := auth.AuthorizeEmployee(actor, auth.ActionScheduleMeet, target); err != nil {
		return response.Error(response.ErrForbidden)
	}

	if actor.MeetingLink == nil || *actor.MeetingLink == "" {
		return response.Error(response.Validation("Please set up your meeting link first before scheduling meetings"))
	}

	scheduledAt, err := req.parseSchedule()
	if err != nil {
		return response.Error(response.Validation("Invalid date or time format. Use YYYY-MM-DD for date and HH:MM for time."))
	}
	if scheduledAt.Before(time.Now().UTC()) {
		return response.Error(response.Validation("Cannot schedule meetings in the past"))
	}

	meet, err := models.NewMeet(actor.EmployeeID, target.EmployeeID, scheduledAt, req.DurationMinutes, actor.MeetingLink, req.Location, req.Notes)
	if err != nil {
		return response.Error(response.Validation(err.Error()))
	}
	if err := models.CreateMeet(meet); err != nil {
		log.Error("[meet] failed to create meeting: %v", err)
		return response.Error(response.ErrDatabaseError)
	}

	return response.Created(meet)
}

// OrganizedMeetings lists meetings organized by the current user.
func (c Controller) OrganizedMeetings(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	meets, err := models.GetMeetsByOrganizer(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	views := make([]MeetView, 0, len(meets))
	for _, m := range meets {
		views = append(views, MeetView{Meet: m, Counterpart: counterpartInfo(m.WithUserID)})
	}
	return response.List(views, len(views))
}

// MeetingsToAttend lists meetings where the current user is the attendee.
func (c Controller) MeetingsToAttend(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	meets, err := models.GetMeetsByAttendee(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	views := make([]MeetView, 0, len(meets))
	for _, m := range meets {
		views = append(views, MeetView{Meet: m, Counterpart: counterpartInfo(m.UserID)})
	}
	return response.List(views, len(views))
}

func counterpartInfo(employeeID string) *CounterpartInfo {
	employee, err := models.GetEmployeeByID(employeeID)
	if err != nil {
		return nil
	}
	return &CounterpartInfo{
		EmployeeID: employee.EmployeeID,
		Name:       employee.Name,
		Role:       employee.Role,
	}
}

// StartMeet marks a scheduled meeting as in progress.
func (c Controller) StartMeet(request *evo.Request) any {
	return c.transition(request, func(m *models.Meet, now time.Time) error {
		return m.Start(now)
	})
}

// CompleteMeet marks an in-progress meeting as completed.
func (c Controller) CompleteMeet(request *evo.Request) any {
	return c.transition(request, func(m *models.Meet, now time.Time) error {
		return m.Complete(now)
	})
}

// NoShowMeet marks a scheduled meeting as a no-show.
func (c Controller) NoShowMeet(request *evo.Request) any {
	return c.transition(request, func(m *models.Meet, now time.Time) error {
		return m.MarkNoShow(now)
	})
}

// CancelMeet cancels a scheduled or in-progress meeting.
func (c Controller) CancelMeet(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}
	return c.transition(request, func(m *models.Meet, now time.Time) error {
		return m.Cancel(actor.EmployeeID, now)
	})
}

func (c Controller) transition(request *evo.Request, apply func(*models.Meet, time.Time) error) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	meet, err := models.GetMeetByID(request.Param("meet_id").String())
	if err != nil {
		return response.Error(response.ErrMeetNotFound)
	}

	// Subject is the attendee; the organizer plays the manager role.
	if err := auth.Authorize(actor, auth.ActionScheduleMeet, meet.WithUserID, meet.UserID); err != nil {
		return response.Error(response.ErrForbidden)
	}

	if err := apply(meet, time.Now().UTC()); err != nil {
		return response.Error(response.InvalidState(err.Error()))
	}
	if err := models.SaveMeet(meet); err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	return response.OK(meet)
}
