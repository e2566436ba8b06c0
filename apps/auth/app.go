package auth

import (
	"os"

	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/args"
)

type App struct {
}

func (a App) Register() error {
	// Employee records double as accounts
	evo.SetUserInterface(&User{})

	if args.Exists("--create-admin") {
		CreateAdminUser()
		os.Exit(0)
	}

	InitializeJWTSecret()

	return nil
}

func (a App) Router() error {
	var controller Controller

	evo.Post("/api/auth/login", controller.LoginHandler)
	evo.Post("/api/auth/refresh", controller.RefreshHandler)
	evo.Post("/api/auth/forgot-password", controller.ForgotPasswordHandler)
	evo.Post("/api/auth/reset-password", controller.ResetPasswordHandler)

	evo.Get("/api/auth/profile", controller.GetProfile)

	return nil
}

func (a App) WhenReady() error {
	return nil
}

func (a App) Name() string {
	return "auth"
}
