package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/brightpath-hr/employment-verification-api/pkg/core"
	"github.com/brightpath-hr/employment-verification-api/pkg/ultipro"
	"github.com/brightpath-hr/employment-verification-api/pkg/verification"
	"github.com/gofiber/fiber/v2"
)

// Three upstream round-trips per request, so roomier than the usual 5s.
const verifyContextTimeout = 20 * time.Second

type verifyRequest struct {
	Email string `json:"email"`
	Debug bool   `json:"debug"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// VerifyHandler answers GET /api/verify?email=&debug= and POST /api/verify
// with a JSON {email, debug} body. Outcome-to-status mapping lives in the
// verification package; this handler owns only parsing, config validation,
// and the error taxonomy at the HTTP boundary.
func VerifyHandler(cfg *core.Config, svc verification.Service, logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("handler", "VerifyHandler"))

	return func(c *fiber.Ctx) error {
		email, verbose, err := parseVerifyRequest(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
				Error: err.Error(),
			})
		}

		// Required configuration is confirmed before any outbound call.
		if err := cfg.Backend.Validate(); err != nil {
			logger.Error("backend config invalid", slog.Any("err", err))
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
				Error: "server misconfigured",
			})
		}
		if svc == nil {
			logger.Error("missing verification service")
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
				Error: "server misconfigured",
			})
		}

		ctx, cancel := context.WithTimeout(c.Context(), verifyContextTimeout)
		defer cancel()

		result, err := svc.Verify(ctx, email)
		if err != nil {
			if errors.Is(err, ultipro.ErrAuthFailed) {
				logger.Error("backend authentication failed", slog.Any("err", err))
				return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{
					Error: "Authentication with HR backend failed",
				})
			}

			logger.Error("verification failed", slog.Any("err", err))
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
				Error: "Internal server error: " + err.Error(),
			})
		}

		body, status := verification.BuildResponse(result, email, verbose)
		return c.Status(status).JSON(body)
	}
}

func parseVerifyRequest(c *fiber.Ctx) (email string, verbose bool, err error) {
	if c.Method() == fiber.MethodPost {
		var req verifyRequest
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return "", false, errors.New("invalid request body")
		}
		email = req.Email
		verbose = req.Debug
	} else {
		email = c.Query("email")
		verbose = strings.EqualFold(c.Query("debug"), "true")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return "", false, errors.New("email is required")
	}

	return email, verbose, nil
}
