package chain

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/auth"
)

// App represents the counseling chain application module
type App struct{}

// Register initializes the chain module
func (App) Register() error {
	return nil
}

// Router registers chain lifecycle endpoints
func (App) Router() error {
	var controller Controller

	evo.Use("/api/chain", auth.Middleware)

	evo.Post("/api/chain", controller.CreateChain)
	evo.Get("/api/chain/employee/:employee_id", controller.ListEmployeeChains)
	evo.Get("/api/chain/:chain_id", controller.GetChain)

	evo.Post("/api/chain/:chain_id/complete", controller.CompleteChain)
	evo.Post("/api/chain/:chain_id/escalate", controller.EscalateChain)
	evo.Post("/api/chain/:chain_id/cancel", controller.CancelChain)

	return nil
}

// WhenReady has nothing to do for chain
func (App) WhenReady() error {
	return nil
}

// Name returns the app name
func (App) Name() string {
	return "chain"
}

var _ application.Application = (*App)(nil)
