// ABOUTME: Request gate guarding /admin and /api/admin before any handler runs
// ABOUTME: Verifies the session cookie, redirects or rejects, and forwards identity

package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	// AdminUIPrefix protects the admin pages and all their sub-paths.
	AdminUIPrefix = "/admin"

	// AdminAPIPrefix protects the admin JSON API and all its sub-paths.
	AdminAPIPrefix = "/api/admin"

	// LoginPath is the sign-in page. Signed-in users are bounced to AdminHome.
	LoginPath = "/login"

	// AdminHome is where a signed-in user lands when visiting LoginPath.
	AdminHome = "/admin"

	// AdminIDHeader carries the verified subject id from the gate to handlers.
	// It is only trusted when the gate set it; inbound values are stripped.
	AdminIDHeader = "X-Admin-Id"

	// RedirectParam is the login query parameter holding the return destination.
	RedirectParam = "redirectTo"
)

// SessionVerifier verifies a session token. *TokenService implements it.
type SessionVerifier interface {
	Verify(token string) (*Identity, bool)
}

// Gate is the single checkpoint every inbound request passes before routing.
type Gate struct {
	verifier SessionVerifier
	logger   *slog.Logger
}

// NewGate creates a gate backed by the given verifier.
func NewGate(verifier SessionVerifier, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		verifier: verifier,
		logger:   logger.With("component", "gate"),
	}
}

// hasPathPrefix matches prefix itself and anything below it, segment-aware,
// so "/administrator" does not match "/admin".
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsAdminAPIPath reports whether path belongs to the admin API.
func IsAdminAPIPath(path string) bool {
	return hasPathPrefix(path, AdminAPIPrefix)
}

// IsProtectedPath reports whether path requires an admin session.
func IsProtectedPath(path string) bool {
	return hasPathPrefix(path, AdminUIPrefix) || IsAdminAPIPath(path)
}

// LoginRedirectURL builds the login URL that returns the user to the
// original path and query string after signing in.
func LoginRedirectURL(r *http.Request) string {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	q := url.Values{}
	q.Set(RedirectParam, target)
	return LoginPath + "?" + q.Encode()
}

// verify extracts and verifies the session cookie. A missing cookie is
// simply unauthenticated and skips verification.
func (g *Gate) verify(r *http.Request) (*Identity, bool) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, false
	}
	return g.verifier.Verify(token)
}

// Middleware wraps next with the gate decision.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never let a client smuggle the forwarded identity in.
		if r.Header.Get(AdminIDHeader) != "" {
			r.Header.Del(AdminIDHeader)
		}

		path := r.URL.Path

		switch {
		case IsProtectedPath(path):
			id, ok := g.verify(r)
			if !ok {
				g.logger.Debug("unauthenticated admin request", "method", r.Method, "path", path)
				if IsAdminAPIPath(path) {
					writeUnauthorized(w)
					return
				}
				http.Redirect(w, r, LoginRedirectURL(r), http.StatusFound)
				return
			}

			forwarded := r.WithContext(WithIdentity(r.Context(), id))
			forwarded.Header = r.Header.Clone()
			forwarded.Header.Set(AdminIDHeader, id.Subject)
			next.ServeHTTP(w, forwarded)

		case path == LoginPath:
			if _, ok := g.verify(r); ok {
				http.Redirect(w, r, AdminHome, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)

		default:
			next.ServeHTTP(w, r)
		}
	})
}

// writeUnauthorized writes the uniform 401 body used by the gate and guard.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized"}` + "\n"))
}
