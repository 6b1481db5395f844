// Package main provides the Atrium drafts API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/atriumhq/atrium/pkg/eventbus"
	"github.com/atriumhq/atrium/pkg/persistence"
	"github.com/atriumhq/atrium/pkg/services"
	"github.com/atriumhq/atrium/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	draftService := services.NewDraft(a.persistence)
	publishingService := services.NewPublishing(a.persistence, nil)

	handlers := web.NewAPIHandlers(draftService, publishingService, a.validate, a.eventBus, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Atrium API")
	})

	d := app.Group("/drafts")
	d.Get("/", handlers.ListDrafts)
	d.Post("/", handlers.CreateDraft)

	// Registered before /:id so the literal segment wins.
	d.Get("/schemas/:type", handlers.GetSchemas)

	d.Get("/:id", handlers.GetDraft)
	d.Patch("/:id", handlers.UpdateDraft)
	d.Delete("/:id", handlers.DeleteDraft)
	d.Post("/:id/publish", handlers.PublishDraft)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
