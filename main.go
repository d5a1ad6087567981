package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brightpath-hr/employment-verification-api/api"
	"github.com/brightpath-hr/employment-verification-api/pkg/core"

	"github.com/gofiber/fiber/v2"
)

func main() {
	if err := core.LoadEnv(); err != nil {
		log.Printf("env files: %v", err)
	}

	cfg, err := core.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelSvc, err := core.NewOtelService(ctx, &cfg)
	if err != nil {
		log.Fatalf("failed to init otel: %v", err)
	}

	logger := core.NewLoggerWithOtel(cfg, otelSvc)
	defer otelSvc.Shutdown(context.Background(), logger)

	app, err := api.New(&api.Config{
		Otel:   otelSvc,
		Logger: logger,
		Config: cfg,
	})
	if err != nil {
		logger.Error("failed to build app", "err", err)
		return
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := runServer(ctx, app, addr); err != nil {
		logger.Error("server error", "err", err)
	}
}

func runServer(ctx context.Context, app *fiber.App, addr string) error {
	srvErr := make(chan error, 1)

	go func() {
		srvErr <- app.Listen(addr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	// inline if since this err is only needed in the scope of this if statement.
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
