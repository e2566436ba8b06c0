// Package mail provides outbound SMTP notification email delivery.
package mail

import "time"

// Config holds the SMTP transport configuration.
type Config struct {
	SMTPHost       string `json:"smtp_host"`
	SMTPPort       int    `json:"smtp_port"`
	SMTPUsername   string `json:"smtp_username"`
	SMTPPassword   string `json:"smtp_password"`
	SMTPEncryption string `json:"smtp_encryption"` // none, ssl, tls

	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
}

// Email represents one outbound message.
type Email struct {
	MessageID string    `json:"message_id"`
	To        []string  `json:"to"`
	CC        []string  `json:"cc"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`      // Plain text body
	HTMLBody  string    `json:"html_body"` // HTML body
	Date      time.Time `json:"date"`
}

// TemplateData holds data for rendering notification templates.
type TemplateData struct {
	RecipientName string `json:"recipient_name"`
	Heading       string `json:"heading"`
	Message       string `json:"message"`
	Detail        string `json:"detail"`
	ActionHint    string `json:"action_hint"`
	Date          string `json:"date"`
}

// DefaultTemplate is the HTML shell for all notification emails.
const DefaultTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .header { background: #6366F1; color: white; padding: 20px; }
    .header h2 { margin: 0; font-size: 18px; }
    .content { padding: 20px; color: #111827; }
    .detail { background: #f9fafb; border-left: 4px solid #6366F1; padding: 15px; margin: 15px 0; border-radius: 0 8px 8px 0; }
    .hint { font-size: 13px; color: #6b7280; margin-top: 15px; }
    .footer { padding: 15px 20px; background: #f9fafb; border-top: 1px solid #e5e7eb; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>{{.Heading}}</h2>
    </div>
    <div class="content">
      <p>Hi {{.RecipientName}},</p>
      <p>{{.Message}}</p>
      {{if .Detail}}<div class="detail">{{.Detail}}</div>{{end}}
      {{if .ActionHint}}<p class="hint">{{.ActionHint}}</p>{{end}}
    </div>
    <div class="footer">
      Sent {{.Date}}. This mailbox is not monitored.
    </div>
  </div>
</body>
</html>`
