package hr

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/auth"
)

// App represents the HR application module
type App struct{}

// Register initializes the hr module
func (App) Register() error {
	return nil
}

// Router registers HR dashboard endpoints
func (App) Router() error {
	var controller Controller

	evo.Use("/api/hr", auth.StaffMiddleware)

	evo.Get("/api/hr/list-assigned-users", controller.ListAssignedUsers)
	evo.Get("/api/hr/sessions", controller.Sessions)
	evo.Get("/api/hr/sessions/:status", controller.SessionsByStatus)
	evo.Post("/api/hr/session/:user_id", controller.CreateSession)
	evo.Get("/api/hr/meets", controller.Meets)
	evo.Patch("/api/hr/update-meeting-link", controller.UpdateMeetingLink)

	return nil
}

// WhenReady has nothing to do for hr
func (App) WhenReady() error {
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "hr"
}

var _ application.Application = (*App)(nil)
