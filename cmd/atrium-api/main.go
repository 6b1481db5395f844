package main

import (
	"context"
	"os"
	"time"

	"github.com/atriumhq/atrium/pkg/cmd"
	"github.com/atriumhq/atrium/pkg/janitor"
	"github.com/atriumhq/atrium/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 8085

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "atrium-api",
		Usage:                 "Create and manage listing drafts",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "purge-schedule",
				Usage:   "Cron schedule for purging stale drafts",
				Value:   "@daily",
				Sources: cli.EnvVars("PURGE_SCHEDULE"),
			},
			&cli.DurationFlag{
				Name:    "abandoned-after",
				Usage:   "How long untouched drafts are kept before purging",
				Value:   30 * 24 * time.Hour,
				Sources: cli.EnvVars("ABANDONED_AFTER"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Atrium API")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "atrium-api", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			cleaner := janitor.New(persistence, log.WithModule("janitor"), command.Duration("abandoned-after"))
			if err := cleaner.Start(command.String("purge-schedule")); err != nil {
				return err
			}
			defer cleaner.Stop()

			api := NewAPI(
				logger,
				persistence,
				eventBus,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
