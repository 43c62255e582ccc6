package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/orderdesk/orderdesk/internal/auth"
)

type contextKeyAuth string

const (
	// AuthPrincipalKey is the context key for the authenticated principal.
	AuthPrincipalKey contextKeyAuth = "auth_principal"
)

// Principal is the authenticated identity attached to the request context.
// Downstream handlers read it and never re-derive authentication themselves.
type Principal struct {
	AdminID int64
	Email   string
}

// Authenticate returns the authentication gate: an HTTP middleware that
// extracts the request's artifact (Authorization bearer header or session
// cookie, depending on the deployment mode), resolves it to a principal, and
// attaches the principal to the request context.
//
// Every failure (no artifact, malformed artifact, bad signature, expired,
// revoked, admin missing) produces the same 401 response with one generic
// message. The distinction is logged at debug level only.
func Authenticate(authSvc *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			artifact, ok := extractArtifact(r, authSvc.Mode())
			if !ok {
				logger.Debug("auth rejected",
					"reason", "no artifact",
					"request_id", GetRequestID(r.Context()))
				writeUnauthorized(w)
				return
			}

			p, err := authSvc.Resolve(r.Context(), artifact)
			if err != nil {
				logger.Debug("auth rejected",
					"reason", err.Error(),
					"request_id", GetRequestID(r.Context()))
				writeUnauthorized(w)
				return
			}

			principal := &Principal{AdminID: p.AdminID, Email: p.Email}
			ctx := context.WithValue(r.Context(), AuthPrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractArtifact pulls the carried artifact out of the request. Returns
// ok=false when the request carries nothing for the configured mode.
func extractArtifact(r *http.Request, mode auth.Mode) (auth.Artifact, bool) {
	switch mode {
	case auth.ModeSession:
		cookie, err := r.Cookie(auth.SessionCookie)
		if err != nil || cookie.Value == "" {
			return auth.Artifact{}, false
		}
		return auth.Artifact{Kind: auth.ModeSession, Value: cookie.Value}, true
	default:
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return auth.Artifact{}, false
		}
		return auth.Artifact{Kind: auth.ModeBearer, Value: token}, true
	}
}

// GetPrincipal extracts the authenticated principal from the context.
// Returns nil if no principal is present (i.e., unauthenticated request).
func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(AuthPrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

// writeUnauthorized emits the gate's single client-facing rejection.
// JSON is constructed by hand to avoid an import cycle with handler.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"status":"error","message":"Authentication required"}`))
}
