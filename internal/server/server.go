// ABOUTME: Server orchestrator that wires store, auth, handlers and listeners
// ABOUTME: Serves over TCP or a Tailscale node and shuts down gracefully

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"tailscale.com/tsnet"

	"github.com/2389/portfolio/internal/admin"
	"github.com/2389/portfolio/internal/assets"
	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/contact"
	"github.com/2389/portfolio/internal/deploy"
	"github.com/2389/portfolio/internal/site"
	"github.com/2389/portfolio/internal/store"
	"github.com/2389/portfolio/internal/webadmin"
)

// ReadHeaderTimeout bounds how long a client may take to send request headers.
const ReadHeaderTimeout = 10 * time.Second

// DeployPath is the public deployment status endpoint.
const DeployPath = "/api/integrations/vercel"

// Server orchestrates the portfolio HTTP surface.
type Server struct {
	config      *config.Config
	store       store.Store
	tokens      *auth.TokenService
	handler     http.Handler
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	logger      *slog.Logger
}

// Open connects to the configured database and builds a Server on it.
// The returned server owns the store and closes it on Shutdown.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := store.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	srv, err := New(cfg, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return srv, nil
}

// New builds a Server on an already open store.
func New(cfg *config.Config, s store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	notifier, err := contact.NotifiersFromConfig(cfg.Contact, logger)
	if err != nil {
		return nil, fmt.Errorf("creating contact notifiers: %w", err)
	}

	srv := &Server{
		config: cfg,
		store:  s,
		tokens: tokens,
		logger: logger.With("component", "server"),
	}

	deploys := deploy.NewClient(cfg.Vercel, logger)
	if !deploys.Configured() {
		srv.logger.Info("vercel integration not configured; deployment status disabled")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.HandleFunc("GET /health/ready", srv.handleReady)
	mux.Handle("GET "+assets.Prefix, http.StripPrefix(assets.Prefix, assets.FileServer()))
	mux.HandleFunc("GET "+DeployPath, deploy.Handler(deploys, logger))

	contact.New(s, notifier, logger).RegisterRoutes(mux)
	admin.New(s, auth.NewGuard(tokens, logger), logger).RegisterRoutes(mux)
	webadmin.New(s, tokens, deploys, webadmin.Config{
		SiteTitle:     cfg.Site.Title,
		SecureCookies: cfg.IsProduction(),
		TokenTTL:      cfg.Auth.TokenTTL,
	}, logger).RegisterRoutes(mux)
	site.New(s, cfg.Site, logger).RegisterRoutes(mux)

	// The gate runs before every handler; logging wraps it so redirects
	// and rejections are logged too.
	var h http.Handler = auth.NewGate(tokens, logger).Middleware(mux)
	h = securityHeaders(cfg.IsProduction(), h)
	h = accessLog(logger.With("component", "http"), h)
	h = requestID(h)
	srv.handler = h

	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return srv, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until the context is canceled, then shuts down gracefully.
// Returns nil on a clean shutdown, or the first server error.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since the run context is already canceled.
func (s *Server) gracefulShutdown() error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server, the Tailscale node and the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if s.tsnetServer != nil {
		if err := s.tsnetServer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tailscale shutdown: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	return errors.Join(errs...)
}

// handleHealth returns 200 OK if the process is serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
