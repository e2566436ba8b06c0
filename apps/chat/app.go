package chat

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/auth"
)

// App represents the chat gateway application module
type App struct{}

// Register initializes the chat module
func (App) Register() error {
	return nil
}

// Router registers chat endpoints
func (App) Router() error {
	var controller Controller

	evo.Use("/api/chat", auth.Middleware)

	evo.Post("/api/chat/:chat_id/initiate", controller.Initiate)
	evo.Post("/api/chat/:chat_id/message", controller.SendMessage)
	evo.Post("/api/chat/:chat_id/end", controller.EndSession)
	evo.Get("/api/chat/:chat_id/messages", controller.GetMessages)

	evo.Post("/api/chat/:chat_id/mode", controller.SetMode)
	evo.Post("/api/chat/:chat_id/escalate", controller.Escalate)

	return nil
}

// WhenReady has nothing to do for chat
func (App) WhenReady() error {
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "chat"
}

var _ application.Application = (*App)(nil)
