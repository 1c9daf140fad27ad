package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/liftbook/liftbook/pkg/persistence"
	"github.com/liftbook/liftbook/pkg/submission"
	"github.com/liftbook/liftbook/pkg/web"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

// Daemon runs the control API and the background flush schedule. Flushes are
// triggered from outside the processor: the cron tick here, the optional
// flush on submit, and the on-demand endpoint.
type Daemon struct {
	logger    *slog.Logger
	service   *submission.Service
	processor *submission.Processor

	persistence persistence.Persistence
	validate    *validator.Validate
}

func NewDaemon(
	logger *slog.Logger,
	persistence persistence.Persistence,
	service *submission.Service,
	processor *submission.Processor,
) *Daemon {
	return &Daemon{
		logger:      logger,
		service:     service,
		processor:   processor,
		persistence: persistence,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (d *Daemon) App() *fiber.App {
	handlers := web.NewAPIHandlers(d.service, d.processor, d.persistence, d.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get("/healthz", handlers.HealthCheck)

	v1 := app.Group("/v1")
	v1.Get("/status", handlers.GetStatus)
	v1.Post("/workouts", handlers.SubmitWorkout)
	v1.Post("/flush", handlers.Flush)

	return app
}

// Start runs until SIGINT or SIGTERM.
func (d *Daemon) Start(ctx context.Context, port int, flushSchedule string) error {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(flushSchedule, func() {
		result, err := d.processor.Process(ctx)
		if err != nil {
			d.logger.ErrorContext(ctx, "Scheduled flush failed", "error", err)

			return
		}

		d.logger.DebugContext(ctx, "Scheduled flush finished", "status", result.Status)
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()

	app := d.App()

	go d.handleSignals(ctx, app)

	d.logger.InfoContext(ctx, "Starting control API", "port", port, "flushSchedule", flushSchedule)

	return app.Listen(":" + strconv.Itoa(port))
}

// handleSignals sets up signal handling for graceful shutdown.
func (d *Daemon) handleSignals(ctx context.Context, app *fiber.App) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signals
	d.logger.InfoContext(ctx, "Received signal, shutting down gracefully", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		d.logger.ErrorContext(ctx, "Failed to shut down control API", "error", err)
	}
}
