package meet

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/auth"
)

// App represents the meetings application module
type App struct{}

// Register initializes the meet module
func (App) Register() error {
	return nil
}

// Router registers meeting endpoints
func (App) Router() error {
	var controller Controller

	evo.Use("/api/meet", auth.Middleware)

	evo.Post("/api/meet/admin-schedule", controller.AdminSchedule)
	evo.Post("/api/meet/hr-schedule", controller.HRSchedule)

	evo.Get("/api/meet/organized-meetings", controller.OrganizedMeetings)
	evo.Get("/api/meet/meetings-to-attend", controller.MeetingsToAttend)

	evo.Post("/api/meet/:meet_id/start", controller.StartMeet)
	evo.Post("/api/meet/:meet_id/complete", controller.CompleteMeet)
	evo.Post("/api/meet/:meet_id/cancel", controller.CancelMeet)
	evo.Post("/api/meet/:meet_id/no-show", controller.NoShowMeet)

	return nil
}

// WhenReady has nothing to do for meet
func (App) WhenReady() error {
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "meet"
}

var _ application.Application = (*App)(nil)
