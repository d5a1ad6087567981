package core

import (
	"errors"
	"strings"
)

type Config struct {
	Environment string
	Otel        OtelConfig
	Port        int
	SkipAuth    bool
	Auth        AuthConfig
	Redis       RedisConfig
	Backend     BackendConfig
}

type OtlpConfig struct {
	Endpoint string
	Insecure bool
}

type OtelConfig struct {
	OtlpExporter OtlpConfig
	Disable      bool
}

// AuthConfig drives the inbound API gate. When APIKey is set the gate
// compares the X-API-Key header against it; otherwise a bearer token is
// verified against the JWKS endpoint.
type AuthConfig struct {
	APIKey   string
	Issuer   string
	JWKSURL  string
	ClientID string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BackendConfig holds the long-lived credentials for the UltiPro web
// services backend. All five credential fields are required before any
// remote call is attempted.
type BackendConfig struct {
	CustomerKey string
	UserKey     string
	Username    string
	Password    string
	BaseURL     string

	// LookupStrategy selects how emails resolve to SSO identities:
	// "exact" (default) or "search" for full-candidate-set reconciliation.
	LookupStrategy string
}

var ErrMissingBackendConfig = errors.New("backend configuration incomplete")

// Validate confirms every required backend credential is present. A failure
// here is a server misconfiguration (500), never an auth failure (401).
func (b *BackendConfig) Validate() error {
	missing := make([]string, 0, 5)

	if strings.TrimSpace(b.CustomerKey) == "" {
		missing = append(missing, "BACKEND_CUSTOMER_KEY")
	}
	if strings.TrimSpace(b.UserKey) == "" {
		missing = append(missing, "BACKEND_USER_KEY")
	}
	if strings.TrimSpace(b.Username) == "" {
		missing = append(missing, "BACKEND_USERNAME")
	}
	if strings.TrimSpace(b.Password) == "" {
		missing = append(missing, "BACKEND_PASSWORD")
	}
	if strings.TrimSpace(b.BaseURL) == "" {
		missing = append(missing, "BACKEND_BASE_URL")
	}

	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// ConfigError reports which required settings were absent.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "backend configuration incomplete: missing " + strings.Join(e.Missing, ", ")
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingBackendConfig
}
