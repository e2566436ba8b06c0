package models

import (
	"github.com/getevo/evo/v2/lib/args"
	"github.com/getevo/evo/v2/lib/db"
)

type App struct{}

func (a App) Register() error {
	db.UseModel(Employee{})
	db.UseModel(Chain{})
	db.UseModel(Session{})
	db.UseModel(Meet{})
	db.UseModel(Chat{})
	db.UseModel(ChatMessage{})
	db.UseModel(Notification{})

	return nil
}

func (a App) Router() error {
	return nil
}

func (a App) WhenReady() error {
	if args.Exists("--migration-do") {
		err := db.DoMigration()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a App) Name() string {
	return "models"
}
