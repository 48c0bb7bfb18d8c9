// ABOUTME: Login page plus the JSON login and logout endpoints
// ABOUTME: Unknown emails and wrong passwords are indistinguishable in status, body and timing

package webadmin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/content"
	"github.com/2389/portfolio/internal/store"
)

// handleLoginPage renders the login form. Signed-in users never get here;
// the gate redirects them to the dashboard.
func (a *Admin) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "login.html", loginData{
		pageData:   a.page(r, "Sign in"),
		RedirectTo: safeRedirect(r.URL.Query().Get(auth.RedirectParam)),
	})
}

// handleLogin processes POST /api/auth/login.
func (a *Admin) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in content.LoginInput
	if err := content.Decode(r.Body, &in); err != nil {
		a.logger.Debug("rejected login payload", "error", err)
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	user, err := a.store.GetAdminUserByEmail(ctx, in.Email)
	hash := ""
	switch {
	case err == nil:
		hash = user.PasswordHash
	case errors.Is(err, store.ErrAdminUserNotFound):
		// fall through with an empty hash so the dummy comparison runs
	default:
		a.logger.Error("failed to look up admin user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Unable to login")
		return
	}

	if err := auth.VerifyPassword(ctx, hash, in.Password); err != nil {
		switch {
		case ctx.Err() != nil:
			a.logger.Debug("login abandoned by client", "error", ctx.Err())
		case errors.Is(err, auth.ErrPasswordMismatch):
			a.logger.Info("admin login failed", "email", in.Email)
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			a.logger.Error("failed to verify password", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Unable to login")
		}
		return
	}

	token, err := a.tokens.Issue(user.ID, user.Email, a.config.TokenTTL)
	if err != nil {
		a.logger.Error("failed to issue session token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Unable to login")
		return
	}

	auth.SetSessionCookie(w, token, a.config.TokenTTL, a.config.SecureCookies)

	if err := a.store.AppendAuditLog(ctx, &store.AuditEntry{
		ActorID:    user.ID,
		Action:     store.AuditLogin,
		TargetType: "admin_user",
		TargetID:   user.ID,
	}); err != nil {
		a.logger.Warn("failed to append audit log", "error", err)
	}

	a.logger.Info("admin login successful", "id", user.ID)
	writeMessage(w, http.StatusOK, "Logged in")
}

// handleLogout processes POST /api/auth/logout. It needs no session and is
// safe to repeat.
func (a *Admin) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, a.config.SecureCookies)
	writeMessage(w, http.StatusOK, "Logged out")
}

// safeRedirect keeps post-login navigation on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return auth.AdminHome
	}
	return target
}
