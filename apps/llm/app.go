package llm

import (
	"github.com/getevo/evo/v2/lib/application"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/evo/v2/lib/settings"
)

// App represents the LLM service client module
type App struct{}

// Register initializes the LLM module
func (App) Register() error {
	log.Info("Registering LLM app...")
	return nil
}

// Router registers HTTP routes (none for LLM)
func (App) Router() error {
	return nil
}

// WhenReady initializes the LLM service client
func (App) WhenReady() error {
	addr := settings.Get("LLM.ADDR").String()
	if addr == "" {
		log.Warning("LLM.ADDR not configured. Analysis and chatbot features are disabled.")
		return nil
	}

	SetClient(NewClient(addr))
	log.Info("LLM app ready (service at %s)", addr)
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "llm"
}

var _ application.Application = (*App)(nil)
