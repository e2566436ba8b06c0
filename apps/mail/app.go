package mail

import (
	"github.com/getevo/evo/v2/lib/application"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/evo/v2/lib/settings"
)

// App represents the outbound mail application module
type App struct{}

// Register initializes the mail module
func (App) Register() error {
	log.Info("Registering mail app...")
	return nil
}

// Router registers HTTP routes (none for mail)
func (App) Router() error {
	return nil
}

// WhenReady loads the SMTP configuration
func (App) WhenReady() error {
	config := Config{
		SMTPHost:       settings.Get("MAIL.SMTP_HOST").String(),
		SMTPPort:       settings.Get("MAIL.SMTP_PORT", 587).Int(),
		SMTPUsername:   settings.Get("MAIL.SMTP_USERNAME").String(),
		SMTPPassword:   settings.Get("MAIL.SMTP_PASSWORD").String(),
		SMTPEncryption: settings.Get("MAIL.SMTP_ENCRYPTION", "tls").String(),
		FromEmail:      settings.Get("MAIL.FROM_EMAIL", "no-reply@solacehr.example").String(),
		FromName:       settings.Get("MAIL.FROM_NAME", "Solace Wellness").String(),
	}

	if config.SMTPHost == "" {
		log.Warning("MAIL.SMTP_HOST not configured. Outbound email is disabled.")
		return nil
	}

	SetDefaultClient(NewSMTPClient(config))
	log.Info("Mail app ready (SMTP %s:%d)", config.SMTPHost, config.SMTPPort)
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "mail"
}

var _ application.Application = (*App)(nil)
