// ABOUTME: Session cookie codec for the admin token
// ABOUTME: Sets, clears and extracts portfolio_admin_token from requests

package auth

import (
	"net/http"
	"strings"
	"time"
)

const (
	// CookieName is the name of the session cookie carrying the admin token.
	CookieName = "portfolio_admin_token"

	// SessionMaxAge is the default cookie lifetime in seconds (7 days).
	SessionMaxAge = int(DefaultTokenTTL / time.Second)
)

// sessionCookie builds the cookie with the fixed attribute set. Secure is only
// set in production so local development over plain HTTP keeps working.
func sessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie issues the session cookie for a freshly signed token.
// ttl must be the lifetime the token was issued with so the cookie never
// outlives it; ttl <= 0 means DefaultTokenTTL, matching TokenService.Issue.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	maxAge := SessionMaxAge
	if ttl > 0 {
		maxAge = max(int(ttl/time.Second), 1)
	}
	http.SetCookie(w, sessionCookie(token, maxAge, secure))
}

// ClearSessionCookie instructs the client to drop the session cookie.
// net/http encodes MaxAge < 0 as "Max-Age=0" on the wire.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, sessionCookie("", -1, secure))
}

// TokenFromRequest returns the session token from the request cookie, or "".
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// TokenFromCookieHeader extracts the session token from a raw Cookie header
// value. Used when only the header string is available.
func TokenFromCookieHeader(raw string) string {
	for part := range strings.SplitSeq(raw, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name != CookieName {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		return value
	}
	return ""
}
