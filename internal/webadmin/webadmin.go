// ABOUTME: Admin web UI package for the portfolio back office
// ABOUTME: Provides login/logout endpoints and the server-rendered admin pages

package webadmin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/portfolio/internal/deploy"
	"github.com/2389/portfolio/internal/store"
)

// Config holds admin UI configuration
type Config struct {
	// SiteTitle is shown in the page header
	SiteTitle string

	// SecureCookies sets the Secure attribute on the session cookie (production)
	SecureCookies bool

	// TokenTTL is the lifetime of issued session tokens; zero means the default
	TokenTTL time.Duration
}

// Store combines everything the admin pages read
type Store interface {
	store.AdminStore
	store.ContentStore
	store.ContactStore
	store.AuditStore
}

// TokenIssuer signs session tokens. *auth.TokenService implements it.
type TokenIssuer interface {
	Issue(subject, email string, ttl time.Duration) (string, error)
}

// Admin handles admin UI routes and authentication
type Admin struct {
	store   Store
	tokens  TokenIssuer
	deploys deploy.Source
	config  Config
	logger  *slog.Logger
}

// New creates a new Admin handler. deploys may be nil.
func New(s Store, tokens TokenIssuer, deploys deploy.Source, cfg Config, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = "Portfolio"
	}
	return &Admin{
		store:   s,
		tokens:  tokens,
		deploys: deploys,
		config:  cfg,
		logger:  logger.With("component", "webadmin"),
	}
}

// RegisterRoutes registers all admin routes on the given mux. Protection of
// /admin is the request gate's job; these handlers assume it ran.
func (a *Admin) RegisterRoutes(mux *http.ServeMux) {
	// Public routes
	mux.HandleFunc("GET /login", a.handleLoginPage)
	mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)

	// Pages
	mux.HandleFunc("GET /admin", a.handleDashboard)
	mux.HandleFunc("GET /admin/{$}", a.handleDashboard)
	mux.HandleFunc("GET /admin/projects", a.handleProjects)
	mux.HandleFunc("GET /admin/articles", a.handleArticles)
	mux.HandleFunc("GET /admin/services", a.handleServices)
	mux.HandleFunc("GET /admin/testimonials", a.handleTestimonials)
	mux.HandleFunc("GET /admin/contact", a.handleContact)
	mux.HandleFunc("GET /admin/audit", a.handleAudit)

	a.logger.Info("admin routes registered")
}

// latestDeployment asks the deployment source with a short deadline so a slow
// upstream cannot stall the dashboard.
func (a *Admin) latestDeployment(ctx context.Context) *deploy.Deployment {
	if a.deploys == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	d, err := a.deploys.Latest(ctx)
	if err != nil {
		a.logger.Debug("no deployment data for dashboard", "error", err)
		return nil
	}
	return d
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
