package hr

import (
	"encoding/json"
	"time"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/go-playground/validator/v10"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/lib/response"
)

type Controller struct {
}

var validate = validator.New()

// CreateSessionRequest schedules a counseling session for a report.
type CreateSessionRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

// UpdateMeetingLinkRequest carries the HR's virtual meeting link.
type UpdateMeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link" validate:"required,url"`
}

// AssignedUser is the dashboard view of one report.
type AssignedUser struct {
	EmployeeID string              `json:"employee_id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Status     string              `json:"status"`
	LatestVibe *models.VibeRecord  `json:"latest_vibe,omitempty"`
	MoodScores []models.VibeRecord `json:"mood_scores,omitempty"`
	LastPing   *time.Time          `json:"last_ping,omitempty"`
}

// ListAssignedUsers lists the HR's reports with their vibemeter history.
func (c Controller) ListAssignedUsers(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	employees, err := models.GetEmployeesByManager(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	users := make([]AssignedUser, 0, len(employees))
	for _, employee := range employees {
		user := AssignedUser{
			EmployeeID: employee.EmployeeID,
			Name:       employee.Name,
			Email:      employee.Email,
			Status:     "active",
			LastPing:   employee.LastPing,
		}
		if employee.IsBlocked {
			user.Status = "blocked"
		}

		var data struct {
			Vibemeter []models.VibeRecord `json:"vibemeter"`
		}
		if err := json.Unmarshal(employee.CompanyData, &data); err == nil && len(data.Vibemeter) > 0 {
			user.MoodScores = data.Vibemeter
			user.LatestVibe = &data.Vibemeter[len(data.Vibemeter)-1]
		}

		users = append(users, user)
	}
	return response.List(users, len(users))
}

// Sessions lists live (pending + active) sessions of the HR's reports.
func (c Controller) Sessions(request *evo.Request) any {
	return c.listSessions(request, []string{models.SessionStatusPending, models.SessionStatusActive})
}

// SessionsByStatus lists the reports' sessions in one status.
func (c Controller) SessionsByStatus(request *evo.Request) any {
	status := request.Param("status").String()
	switch status {
	case models.SessionStatusPending, models.SessionStatusActive,
		models.SessionStatusCompleted, models.SessionStatusCancelled:
	default:
		return response.Error(response.Validation("Unknown session status " + status))
	}
	return c.listSessions(request, []string{status})
}

func (c Controller) listSessions(request *evo.Request, statuses []string) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	employees, err := models.GetEmployeesByManager(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	employeeIDs := make([]string, 0, len(employees))
	for _, employee := range employees {
		employeeIDs = append(employeeIDs, employee.EmployeeID)
	}

	sessions, err := models.GetSessionsForEmployees(employeeIDs, statuses)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	return response.List(sessions, len(sessions))
}

// CreateSession books a standalone session for one of the HR's reports.
func (c Controller) CreateSession(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	employee, err := models.GetEmployeeByID(request.Param("user_id").String())
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	if err := auth.AuthorizeEmployee(actor, auth.ActionManageSession, employee); err != nil {
		return response.Error(response.ErrForbidden)
	}

	var req CreateSessionRequest
	if err := request.BodyParser(&req); err != nil || req.ScheduledAt.IsZero() {
		return response.Error(response.Validation("scheduled_at is required"))
	}

	chat := models.NewChat(employee.EmployeeID)
	if err := models.CreateChat(chat); err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	session := models.NewSession(employee.EmployeeID, chat.ChatID, req.ScheduledAt.UTC(), req.Notes)
	if err := models.CreateSession(session); err != nil {
		if dErr := models.DeleteChat(chat.ChatID); dErr != nil {
			log.Error("[hr] failed to clean up chat %s: %v", chat.ChatID, dErr)
		}
		return response.Error(response.ErrDatabaseError)
	}

	return response.Created(map[string]string{
		"chat_id":    chat.ChatID,
		"session_id": session.SessionID,
	})
}

// Meets lists meetings the HR organizes or attends.
func (c Controller) Meets(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	organized, err := models.GetMeetsByOrganizer(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}
	attending, err := models.GetMeetsByAttendee(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	meets := append(organized, attending...)
	return response.List(meets, len(meets))
}

// UpdateMeetingLink stores the HR's link used for escalation meetings.
func (c Controller) UpdateMeetingLink(request *evo.Request) any {
	actor := auth.CurrentUser(request)
	if actor == nil {
		return response.Error(response.ErrUnauthorized)
	}

	var req UpdateMeetingLinkRequest
	if err := request.BodyParser(&req); err != nil {
		return response.Error(response.ErrInvalidInput)
	}
	if err := validate.Struct(req); err != nil {
		return response.Error(response.Validation("meeting_link must be a valid URL"))
	}

	employee, err := models.GetEmployeeByID(actor.EmployeeID)
	if err != nil {
		return response.Error(response.ErrEmployeeNotFound)
	}
	employee.MeetingLink = &req.MeetingLink
	if err := models.SaveEmployee(employee); err != nil {
		return response.Error(response.ErrDatabaseError)
	}

	return response.OKWithMessage(map[string]string{"meeting_link": req.MeetingLink}, "Meeting link updated")
}
