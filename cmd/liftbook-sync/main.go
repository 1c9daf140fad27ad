// Package main provides the Liftbook sync daemon: it accepts workout
// submissions over a local control API, keeps them durably queued while the
// device is offline, and flushes them to the Liftbook backend.
package main

import (
	"context"
	"os"

	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/backend/httpapi"
	"github.com/liftbook/liftbook/pkg/cmd"
	"github.com/liftbook/liftbook/pkg/log"
	"github.com/liftbook/liftbook/pkg/otelhelper"
	"github.com/liftbook/liftbook/pkg/persistence"
	"github.com/liftbook/liftbook/pkg/submission"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 9090

func main() {
	logger := log.WithModule("liftbook-sync")

	command := &cli.Command{
		Name:                  "liftbook-sync",
		Usage:                 "Queue workout submissions offline and sync them to the Liftbook backend",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the control API on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Storage URL for drafts and queued submissions (file:// or redis://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "backend-url",
				Usage:    "Base URL of the Liftbook API",
				Required: true,
				Sources:  cli.EnvVars("BACKEND_URL"),
			},
			&cli.StringFlag{
				Name:    "auth-token",
				Usage:   "Device auth token used for backend calls",
				Sources: cli.EnvVars("AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "user-id",
				Usage:   "User the device token belongs to",
				Sources: cli.EnvVars("USER_ID"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Telemetry event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "flush-schedule",
				Usage:   "Cron schedule for background flush attempts",
				Value:   "@every 1m",
				Sources: cli.EnvVars("FLUSH_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for backend calls",
				Sources: cli.EnvVars("TRACING_ENABLED"),
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

			logger.InfoContext(ctx, "Initializing Liftbook sync daemon")

			var tracer trace.Tracer

			if command.Bool("tracing") {
				t, err := otelhelper.NewTracer(ctx, "liftbook-sync")
				if err != nil {
					return err
				}

				tracer = t
			}

			p, err := cmd.NewPersistence(command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := p.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			// Repair any outbox/placeholder pair broken by a crash between
			// their two writes before serving traffic.
			if err := persistence.Reconcile(ctx, p, logger); err != nil {
				return err
			}

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			client := httpapi.NewClient(command.String("backend-url"), nil, tracer)
			sessions := &backend.StaticSessionProvider{
				Token:  command.String("auth-token"),
				UserID: command.String("user-id"),
			}

			service := submission.NewService(p, client, client, eventBus, logger)
			processor := submission.NewProcessor(p, sessions, client, eventBus, logger)

			daemon := NewDaemon(logger, p, service, processor)

			return daemon.Start(ctx, command.Int("port"), command.String("flush-schedule"))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
