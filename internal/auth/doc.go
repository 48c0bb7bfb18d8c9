// Package auth guards the admin back office.
//
// # Session Tokens
//
// Admins sign in with email and password. On success the TokenService issues
// an HS256 JWT carrying the admin id (sub) and email, valid for seven days:
//
//	tokens, err := auth.NewTokenService(secret)
//	token, err := tokens.Issue(user.ID, user.Email, 0)
//	id, ok := tokens.Verify(token)
//
// Verify never reports why a token was rejected. Every failure is simply
// "not authenticated".
//
// # Session Cookie
//
// The token travels in the portfolio_admin_token cookie (HttpOnly,
// SameSite=Lax, Path=/, Secure in production). Its Max-Age is the token's
// TTL, so the cookie and the token expire together. SetSessionCookie and
// ClearSessionCookie are the only writers.
//
// # Two Layers
//
// The Gate wraps the whole server mux and protects /admin and /api/admin:
//
//   - Unauthenticated API calls get 401 {"message":"Unauthorized"}
//   - Unauthenticated page loads are redirected to /login?redirectTo=...
//   - Authenticated requests get the X-Admin-Id header and the Identity in context
//   - Signed-in visitors to /login are sent to /admin
//
// Each admin API handler additionally runs behind Guard.Require, which
// re-derives the identity from the gate's annotation or, failing that, from
// the raw Cookie header. A handler that ends up mounted outside the gate still
// refuses anonymous callers.
package auth
