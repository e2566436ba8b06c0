package employee

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/auth"
)

// App represents the employee self-service application module
type App struct{}

// Register initializes the employee module
func (App) Register() error {
	return nil
}

// Router registers employee self-service endpoints
func (App) Router() error {
	var controller Controller

	evo.Use("/api/employee", auth.Middleware)

	evo.Get("/api/employee/profile", controller.Profile)
	evo.Get("/api/employee/scheduled-sessions", controller.ScheduledSessions)
	evo.Get("/api/employee/scheduled-meets", controller.ScheduledMeets)
	evo.Get("/api/employee/chats", controller.Chats)
	evo.Get("/api/employee/notifications", controller.Notifications)
	evo.Post("/api/employee/notifications/:id/read", controller.MarkNotificationRead)

	return nil
}

// WhenReady has nothing to do for employee
func (App) WhenReady() error {
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "employee"
}

var _ application.Application = (*App)(nil)
