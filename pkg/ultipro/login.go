package ultipro

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brightpath-hr/employment-verification-api/pkg/soapxml"
)

// Authenticate exchanges the long-lived credentials for a short-lived
// session token. The four credential fields travel in the SOAP header; the
// body carries only the empty token request.
//
// The token element is matched anywhere in the response rather than inside a
// fixed result block: the backend is known to vary its wrapper nesting
// between deployments. Any failure here — transport, HTTP status, or a
// missing token — is ErrAuthFailed and terminal for the whole request.
func (s *service) Authenticate(ctx context.Context) (string, error) {
	header := []Element{
		textElement("ClientAccessKey", loginNS, s.cfg.CustomerKey),
		textElement("Password", loginNS, s.cfg.Password),
		textElement("UserAccessKey", loginNS, s.cfg.UserKey),
		textElement("UserName", loginNS, s.cfg.Username),
	}

	body := Element{
		Name:  "TokenRequest",
		Attrs: []Attr{{Name: "xmlns", Value: loginNS}},
	}

	resp, err := s.invoke(ctx, call{
		Service: loginService,
		Action:  actionAuthenticate,
		Header:  header,
		Body:    body,
	})
	if err != nil {
		s.logger.Error("backend login failed", slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	token, ok := soapxml.ExtractField(resp, "token")
	if !ok || strings.TrimSpace(token) == "" {
		s.logger.Error("backend login returned no token")
		return "", fmt.Errorf("%w: no token in response", ErrAuthFailed)
	}

	s.logger.Info("backend token acquired",
		slog.String("token_prefix", prefix(token, 12)),
	)

	return token, nil
}
