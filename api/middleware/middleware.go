package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/brightpath-hr/employment-verification-api/pkg/circuitbreaker"
	"github.com/brightpath-hr/employment-verification-api/pkg/core"
	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const apiKeyHeader = "X-API-Key"

// APIVerifier gates inbound requests. Two modes: a static API key compared
// against the X-API-Key header, or an Authorization bearer token verified
// against a JWKS endpoint. The static key wins when both are configured.
type APIVerifier struct {
	cfg    core.AuthConfig
	cache  *jwk.Cache
	client *http.Client
}

func NewAPIVerifier(cfg core.AuthConfig) (*APIVerifier, error) {
	if cfg.APIKey == "" && cfg.JWKSURL == "" {
		return nil, errors.New("either APIKey or JWKSURL is required")
	}

	v := &APIVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
	}

	if cfg.JWKSURL != "" {
		cache := jwk.NewCache(context.Background())
		// register the JWKS URL with a refresh window
		if err := cache.Register(cfg.JWKSURL); err != nil {
			return nil, err
		}
		v.cache = cache
	}

	return v, nil
}

func (v *APIVerifier) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v.cfg.APIKey != "" {
			return v.checkAPIKey(c)
		}
		return v.checkBearer(c)
	}
}

func (v *APIVerifier) checkAPIKey(c *fiber.Ctx) error {
	raw := c.Get(apiKeyHeader)
	if raw == "" {
		return fiber.ErrUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(raw), []byte(v.cfg.APIKey)) != 1 {
		return fiber.ErrUnauthorized
	}

	return c.Next()
}

func (v *APIVerifier) checkBearer(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if raw == "" {
		return fiber.ErrUnauthorized
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(raw, bearerPrefix) {
		return fiber.ErrUnauthorized
	}
	raw = strings.TrimPrefix(raw, bearerPrefix)

	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	keyset, err := v.cache.Get(ctx, v.cfg.JWKSURL)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unable to load jwks")
	}

	parseOpts := []jwt.ParseOption{
		jwt.WithKeySet(keyset),
		jwt.WithValidate(true),
	}
	if v.cfg.Issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(v.cfg.Issuer))
	}

	tok, err := jwt.Parse([]byte(raw), parseOpts...)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	if v.cfg.ClientID != "" {
		if cid, ok := tok.Get("client_id"); !ok || cid != v.cfg.ClientID {
			return fiber.ErrUnauthorized
		}
	}

	// put useful info on context; locals live only for this request
	if sub, ok := tok.Get("sub"); ok {
		c.Locals("sub", sub)
	}
	if scope, ok := tok.Get("scope"); ok {
		c.Locals("scope", scope)
	}

	return c.Next()
}

// WithCircuitBreaker wraps a handler with a named breaker. The handler's
// outcome feeds the breaker: an error or a 5xx response counts as a failure,
// anything else clears the failure streak. Client-facing 4xx answers (not
// found, bad input) say nothing about backend health and are ignored.
func WithCircuitBreaker(newBreaker func(name string) *circuitbreaker.RedisBreaker) func(fiber.Handler) fiber.Handler {
	var mu sync.RWMutex
	breakers := make(map[string]*circuitbreaker.RedisBreaker)

	getBreaker := func(name string) *circuitbreaker.RedisBreaker {
		mu.RLock()
		b := breakers[name]
		mu.RUnlock()
		if b != nil {
			return b
		}

		mu.Lock()
		defer mu.Unlock()
		if b = breakers[name]; b != nil {
			return b
		}

		b = newBreaker(name)
		breakers[name] = b
		return b
	}

	return func(next fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			name := breakerName(c)
			breaker := getBreaker(name)

			if err := breaker.Allow(c.Context()); err != nil {
				if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
					return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
						"error": "service temporarily unavailable",
						"code":  "CIRCUIT_OPEN",
					})
				}

				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "service temporarily unavailable",
					"code":  "BREAKER_ERROR",
				})
			}

			err := next(c)

			if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
				breaker.OnFailure(c.Context())
			} else {
				breaker.OnSuccess(c.Context())
			}

			return err
		}
	}
}

func breakerName(c *fiber.Ctx) string {
	var path string
	r := c.Route()
	if r != nil && r.Path != "" {
		path = r.Path
	} else {
		path = c.Path()
	}

	return c.Method() + " " + path
}
