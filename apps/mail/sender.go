package mail

import (
	"fmt"
	"sync"
	"time"

	"github.com/getevo/evo/v2/lib/log"
)

var (
	defaultClient *SMTPClient
	clientMu      sync.RWMutex
)

// SetDefaultClient installs the client used by the notification helpers.
func SetDefaultClient(client *SMTPClient) {
	clientMu.Lock()
	defer clientMu.Unlock()
	defaultClient = client
}

func getClient() *SMTPClient {
	clientMu.RLock()
	defer clientMu.RUnlock()
	return defaultClient
}

// Send renders and sends one notification email synchronously.
func Send(to, subject string, data TemplateData) error {
	client := getClient()
	if client == nil {
		return fmt.Errorf("mail not configured")
	}

	htmlBody, err := RenderTemplate(data)
	if err != nil {
		return fmt.Errorf("failed to render mail template: %w", err)
	}

	email := Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: htmlBody,
		Body:     StripHTML(htmlBody),
		Date:     time.Now().UTC(),
	}

	if _, err := client.Send(email); err != nil {
		return err
	}
	return nil
}

// SendAsync delivers a notification email on a background goroutine.
// Email is advisory: failures are logged and never propagated to callers.
func SendAsync(to, subject string, data TemplateData) {
	go func() {
		if err := Send(to, subject, data); err != nil {
			log.Warning("[mail] failed to send %q to %s: %v", subject, to, err)
		}
	}()
}

// NotifySessionScheduled tells an employee a counseling session was created.
func NotifySessionScheduled(to, name string, scheduledAt time.Time) {
	SendAsync(to, "Your wellness check-in is scheduled", TemplateData{
		RecipientName: name,
		Heading:       "Wellness Check-in Scheduled",
		Message:       "A wellness check-in session has been scheduled for you.",
		Detail:        "Scheduled for " + scheduledAt.UTC().Format("Monday, January 2 2006 at 15:04 MST") + ".",
		ActionHint:    "Open the wellness portal to start the conversation once the session begins.",
	})
}

// NotifySessionReminder nudges an employee about a pending session.
func NotifySessionReminder(to, name string, scheduledAt time.Time) {
	SendAsync(to, "Reminder: your wellness check-in is waiting", TemplateData{
		RecipientName: name,
		Heading:       "Check-in Reminder",
		Message:       "You have a wellness check-in session that has not been started yet.",
		Detail:        "It was scheduled for " + scheduledAt.UTC().Format("Monday, January 2 2006 at 15:04 MST") + ".",
		ActionHint:    "Please complete it soon so we can close the loop.",
	})
}

// NotifyFinalNotice warns the employee the session deadline has passed and
// the case was handed to HR.
func NotifyFinalNotice(to, name string) {
	SendAsync(to, "Your wellness check-in was escalated", TemplateData{
		RecipientName: name,
		Heading:       "Check-in Escalated",
		Message:       "Your wellness check-in deadline has passed, so the case was forwarded to HR for a personal follow-up.",
		ActionHint:    "HR will reach out to arrange a short meeting.",
	})
}

// NotifyEscalationMeeting invites a participant to the HR follow-up meeting.
func NotifyEscalationMeeting(to, name string, scheduledAt time.Time, meetingLink string) {
	detail := "Scheduled for " + scheduledAt.UTC().Format("Monday, January 2 2006 at 15:04 MST") + "."
	if meetingLink != "" {
		detail += " Join via " + meetingLink
	}
	SendAsync(to, "HR follow-up meeting scheduled", TemplateData{
		RecipientName: name,
		Heading:       "HR Follow-up Meeting",
		Message:       "A follow-up meeting has been scheduled to discuss a wellness case.",
		Detail:        detail,
	})
}
