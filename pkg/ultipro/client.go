// Package ultipro is the client for the legacy UltiPro SOAP web services:
// token login, email-to-SSO-identity resolution, and employment-information
// lookup. Responses are read with the tolerant scanner in pkg/soapxml rather
// than a schema parser; the backend's wrapper nesting and namespace prefixes
// are not stable enough to bind a schema to.
package ultipro

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brightpath-hr/employment-verification-api/pkg/core"
)

const (
	loginService      = "LoginService"
	ssoService        = "EmployeeSsoUser"
	employmentService = "EmployeeEmploymentInformation"

	actionAuthenticate = "http://www.ultipro.com/services/loginservice/ILoginService/Authenticate"
	actionGetSsoUser   = "http://www.ultipro.com/services/employeessouser/IEmployeeSsoUser/GetSsoUserByUserName"
	actionFindSsoUsers = "http://www.ultipro.com/services/employeessouser/IEmployeeSsoUser/FindSsoUsers"
	actionGetEmployment = "http://www.ultipro.com/services/employeeemploymentinformation/" +
		"IEmployeeEmploymentInformation/GetEmploymentInformationByEmployeeIdentifier"

	contentTypeSOAP = "application/soap+xml; charset=utf-8"

	// Success element text on a result block.
	successSentinel = "true"

	optsTimeout = 10 * time.Second
)

// Service is the full surface against the HR backend. Tokens returned by
// Authenticate live for one request-handling cycle; they are never cached or
// reused across requests by design.
type Service interface {
	Authenticate(ctx context.Context) (string, error)
	GetSsoUserByUserName(ctx context.Context, token, email string) (IdentityLookup, error)
	FindSsoUsers(ctx context.Context, token, email string) (IdentityLookup, error)
	GetEmploymentInformation(ctx context.Context, token, companyCode, employeeNumber string) (EmploymentLookup, error)
}

type HTTPTransport interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	// Override for testing the HTTP client
	HTTPClient HTTPTransport
	// Structured logger using slog package
	Logger *slog.Logger
	// Context timeout
	Timeout time.Duration
}

type service struct {
	cfg     *core.BackendConfig
	client  HTTPTransport
	logger  *slog.Logger
	timeout time.Duration
}

func New(cfg *core.BackendConfig, opts Options) (Service, error) {
	if cfg == nil {
		return nil, errors.New("cfg is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "ultipro"),
		slog.String("vendor", "ukg"),
	)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: optsTimeout}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = optsTimeout
	}

	return &service{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// call names one remote operation: the target service under
// {baseURL}/services/, its action URI, extra header elements, and the body
// operation element.
type call struct {
	Service string
	Action  string
	Header  []Element
	Body    Element
}

// invoke POSTs the envelope and returns the raw response text.
func (s *service) invoke(ctx context.Context, c call) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/services/" + c.Service
	envelope := buildEnvelope(c.Action, endpoint, c.Header, c.Body)

	log := s.logger.With(
		slog.String("soap_service", c.Service),
		slog.String("soap_action", c.Action),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(envelope))
	if err != nil {
		log.Error("soap request build failed", slog.Any("error", err))
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", contentTypeSOAP)

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		log.Error("soap request failed",
			slog.Any("error", err),
			slog.Duration("latency", latency),
		)
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	log.Info("soap response received",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", latency),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("soap non-2xx",
			slog.Int("status", resp.StatusCode),
			slog.String("body_snippet", snippet(string(body), maxErrBodyBytes)),
		)
		return "", &RemoteError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return string(body), nil
}

// header elements common to the two post-login services.
func (s *service) sessionHeader(token string) []Element {
	return []Element{
		textElement("UltiProToken", coreNS, token),
		textElement("ClientAccessKey", coreNS, s.cfg.CustomerKey),
	}
}

func prefix(s string, n int) string {
	if n <= 0 || s == "" {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
