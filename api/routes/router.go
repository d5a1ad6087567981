package routes

import (
	"log/slog"

	"github.com/brightpath-hr/employment-verification-api/api/handlers"
	"github.com/brightpath-hr/employment-verification-api/api/middleware"
	"github.com/brightpath-hr/employment-verification-api/pkg/circuitbreaker"
	"github.com/brightpath-hr/employment-verification-api/pkg/core"
	"github.com/brightpath-hr/employment-verification-api/pkg/ultipro"
	"github.com/brightpath-hr/employment-verification-api/pkg/verification"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(app fiber.Router, cfg *core.Config, rdb *redis.Client, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Backend running!")
	})

	api := app.Group("/api")

	// With incomplete backend config the verify handler answers 500 itself;
	// the service stays nil rather than failing startup.
	var verifySvc verification.Service
	if err := cfg.Backend.Validate(); err != nil {
		logger.Error("backend config incomplete, verify route degraded", slog.Any("err", err))
	} else {
		backend, err := ultipro.New(&cfg.Backend, ultipro.Options{Logger: logger})
		if err != nil {
			logger.Error("failed to init hr backend client, verify route degraded", slog.Any("err", err))
		} else {
			verifySvc = verification.New(backend, &cfg.Backend, verification.Options{Logger: logger})
		}
	}

	withCB := middleware.WithCircuitBreaker(func(name string) *circuitbreaker.RedisBreaker {
		return circuitbreaker.NewRedisBreaker(
			rdb,
			name,
			circuitbreaker.DefaultOptions(),
		)
	})

	verify := handlers.VerifyHandler(cfg, verifySvc, logger)

	api.Get("/verify", withCB(verify))
	api.Post("/verify", withCB(verify))
}
