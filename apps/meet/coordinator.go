package meet

import (
	"fmt"
	"time"

	"github.com/getevo/evo/v2/lib/log"
	"github.com/solacehr/solace-backend/apps/mail"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/apps/nats"
)

// EscalationMeetingMinutes is the slot length for HR follow-up meetings
// created when a chain escalates.
const EscalationMeetingMinutes = 30

// ProbeMeetingMinutes is the default slot length for meetings created by
// chat-triggered escalation when the caller supplies no duration.
const ProbeMeetingMinutes = 480

// CreateEscalationMeeting books the earliest free HR slot for a follow-up
// with the employee, then fans out notifications and email to both parties.
// Used by the chain-escalation path, which wants earliest-possible.
func CreateEscalationMeeting(employee *models.Employee, reason string) (*models.Meet, error) {
	hr, err := managerOf(employee)
	if err != nil {
		return nil, err
	}

	meetings, err := models.GetScheduledMeetsForUser(hr.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load HR schedule: %w", err)
	}

	slot := NextFreeSlot(meetings, time.Now().UTC(), EscalationMeetingMinutes*time.Minute)
	return bookEscalation(hr, employee, slot, EscalationMeetingMinutes, reason)
}

// CreateProbeEscalationMeeting books a buffered HR slot via the jittered
// first-fit probe. Used by chat-triggered escalation, which wants breathing
// room before HR is contacted.
func CreateProbeEscalationMeeting(employee *models.Employee, reason string, durationMinutes int) (*models.Meet, error) {
	if durationMinutes <= 0 {
		durationMinutes = ProbeMeetingMinutes
	}

	hr, err := managerOf(employee)
	if err != nil {
		return nil, err
	}

	meetings, err := models.GetScheduledMeetsForUser(hr.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load HR schedule: %w", err)
	}

	slot := ProbeSlot(meetings, time.Now().UTC(), time.Duration(durationMinutes)*time.Minute)
	return bookEscalation(hr, employee, slot, durationMinutes, reason)
}

func managerOf(employee *models.Employee) (*models.Employee, error) {
	if employee.ManagerID == nil || *employee.ManagerID == "" {
		return nil, fmt.Errorf("employee %s has no assigned HR manager", employee.EmployeeID)
	}
	hr, err := models.GetEmployeeByID(*employee.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("HR manager %s of employee %s not found: %w", *employee.ManagerID, employee.EmployeeID, err)
	}
	return hr, nil
}

func bookEscalation(hr, employee *models.Employee, slot time.Time, durationMinutes int, reason string) (*models.Meet, error) {
	notes := fmt.Sprintf("Escalated wellness case: %s", reason)
	meet, err := models.NewMeet(hr.EmployeeID, employee.EmployeeID, slot, durationMinutes, hr.MeetingLink, nil, &notes)
	if err != nil {
		return nil, err
	}
	if err := models.CreateMeet(meet); err != nil {
		return nil, fmt.Errorf("failed to create escalation meeting: %w", err)
	}

	description := fmt.Sprintf("A follow-up meeting has been scheduled for %s UTC.", slot.Format("2006-01-02 15:04"))
	if _, err := models.CreateNotification(employee.EmployeeID, "HR Follow-up Meeting Scheduled", description); err != nil {
		log.Warning("[meet] failed to notify employee %s: %v", employee.EmployeeID, err)
	}
	if _, err := models.CreateNotification(hr.EmployeeID, "Escalated Case Meeting Scheduled", description); err != nil {
		log.Warning("[meet] failed to notify HR %s: %v", hr.EmployeeID, err)
	}

	meetingLink := ""
	if hr.MeetingLink != nil {
		meetingLink = *hr.MeetingLink
	}
	mail.NotifyEscalationMeeting(employee.Email, employee.Name, slot, meetingLink)
	mail.NotifyEscalationMeeting(hr.Email, hr.Name, slot, meetingLink)

	nats.PublishEvent(nats.SubjectMeetScheduled, employee.EmployeeID, meet.MeetID, map[string]any{
		"organizer": hr.EmployeeID,
		"reason":    reason,
	})

	return meet, nil
}
