package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/staffops/pkg"
	"github.com/appetiteclub/staffops/pkg/auth"
)

const defaultTokenTTL = 8 * time.Hour

var ErrSigningKeyMissing = errors.New("auth.signing.key is not set")

// TokenRequest describes a role token for local testing.
type TokenRequest struct {
	SigningKey string
	Subject    string
	Name       string
	Role       string
	TTL        time.Duration
}

// TokenRequestFromConfig reads auth.signing.key and the token.* keys.
func TokenRequestFromConfig(config *aqm.Config) TokenRequest {
	return TokenRequest{
		SigningKey: config.GetStringOrDef("auth.signing.key", ""),
		Subject:    config.GetStringOrDef("token.subject", ""),
		Name:       config.GetStringOrDef("token.name", ""),
		Role:       config.GetStringOrDef("token.role", string(auth.RoleOwner)),
		TTL:        pkg.DurationOrDef(config, "token.ttl", defaultTokenTTL),
	}
}

// IssueToken signs the requested token with the services' signing key.
func IssueToken(req TokenRequest) (string, error) {
	if req.SigningKey == "" {
		return "", ErrSigningKeyMissing
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return "", fmt.Errorf("token.role: %w", err)
	}

	subject := req.Subject
	if subject == "" {
		subject = "local-" + string(role)
	}
	name := req.Name
	if name == "" {
		name = subject
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return auth.NewVerifier(req.SigningKey).Issue(subject, name, role, ttl)
}
