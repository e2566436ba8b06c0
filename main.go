package main

import (
	"github.com/getevo/evo/v2"
	"github.com/getevo/evo/v2/lib/application"
	"github.com/solacehr/solace-backend/apps/admin"
	"github.com/solacehr/solace-backend/apps/auth"
	"github.com/solacehr/solace-backend/apps/chain"
	"github.com/solacehr/solace-backend/apps/chat"
	"github.com/solacehr/solace-backend/apps/employee"
	"github.com/solacehr/solace-backend/apps/hr"
	"github.com/solacehr/solace-backend/apps/jobs"
	"github.com/solacehr/solace-backend/apps/llm"
	"github.com/solacehr/solace-backend/apps/mail"
	"github.com/solacehr/solace-backend/apps/meet"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/solacehr/solace-backend/apps/nats"
	"github.com/solacehr/solace-backend/apps/redis"
)

func main() {
	evo.Setup()

	var apps = application.GetInstance()
	apps.Register(models.App{}, auth.App{}, redis.App{}, nats.App{}, mail.App{}, llm.App{}, chain.App{}, meet.App{}, chat.App{}, jobs.App{}, admin.App{}, hr.App{}, employee.App{})

	evo.Run()
}
