package admin

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/auth"
)

// App represents the admin application module
type App struct{}

// Register initializes the admin module
func (App) Register() error {
	return nil
}

// Router registers admin and shared staff endpoints
func (App) Router() error {
	var controller Controller

	evo.Use("/api/admin", auth.AdminMiddleware)
	evo.Use("/api/staff", auth.StaffMiddleware)

	// User account management
	evo.Post("/api/admin/create-user", controller.CreateUser)
	evo.Delete("/api/admin/delete-user", controller.DeleteUser)
	evo.Get("/api/admin/users", controller.ListUsers)

	// Global session overview and manual scheduling
	evo.Get("/api/admin/sessions/pending", controller.PendingSessions)
	evo.Post("/api/admin/session/:user_id", controller.CreateSessionForUser)

	// Shared between admin and HR; HR is limited to their reports
	evo.Post("/api/staff/block-user", controller.BlockUser)
	evo.Post("/api/staff/unblock-user", controller.UnblockUser)

	return nil
}

// WhenReady has nothing to do for admin
func (App) WhenReady() error {
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "admin"
}

var _ application.Application = (*App)(nil)
