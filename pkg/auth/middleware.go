package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aquamarinepk/aqm"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

// ActorFrom names who performed a request for created_by style fields.
func ActorFrom(ctx context.Context, fallback string) string {
	if c, ok := ClaimsFrom(ctx); ok {
		if c.Name != "" {
			return c.Name
		}
		if c.Subject != "" {
			return c.Subject
		}
	}
	return fallback
}

// Guard reads role claims from the Authorization header. With enforcement
// off, requests without a token pass through and Require is a no-op.
type Guard struct {
	verifier *Verifier
	enforce  bool
	logger   aqm.Logger
}

func NewGuard(config *aqm.Config, logger aqm.Logger) *Guard {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	g := &Guard{logger: logger, verifier: NewVerifier("")}
	if config == nil {
		return g
	}
	key, _ := config.GetString("auth.signing.key")
	g.verifier = NewVerifier(key)
	g.enforce = config.GetStringOrDef("auth.enabled", "false") == "true"
	return g
}

func NewPermissiveGuard() *Guard {
	return &Guard{verifier: NewVerifier(""), logger: aqm.NewNoopLogger()}
}

func NewEnforcingGuard(signingKey string) *Guard {
	return &Guard{verifier: NewVerifier(signingKey), enforce: true, logger: aqm.NewNoopLogger()}
}

func (g *Guard) Enforcing() bool {
	return g.enforce
}

func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := g.verifier.Parse(token)
		if err != nil {
			g.logger.Debug("rejected role token", "error", err)
			if g.enforce || !errors.Is(err, ErrMissingToken) {
				aqm.RespondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (g *Guard) Require(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.enforce {
				next.ServeHTTP(w, r)
				return
			}
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				aqm.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !claims.HasRole(roles...) {
				g.logger.Info("role denied", "subject", claims.Subject, "role", string(claims.Role), "path", r.URL.Path)
				aqm.RespondError(w, http.StatusForbidden, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
