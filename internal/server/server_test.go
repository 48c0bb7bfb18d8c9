// ABOUTME: End-to-end tests of the assembled handler over a real SQLite store
// ABOUTME: Exercises the gate, login, admin API, public pages and health probes

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:      config.EnvDevelopment,
		Server:   config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "server.db")},
		Auth:     config.AuthConfig{JWTSecret: "server-test-secret-at-least-32-bytes"},
		Site:     config.SiteConfig{Title: "Test Portfolio"},
		Vercel:   config.VercelConfig{BaseURL: config.DefaultVercelAPI},
	}
}

func newTestServer(t *testing.T) (*Server, *store.SQLStore) {
	t.Helper()
	cfg := testConfig(t)
	s, err := store.Open(context.Background(), cfg.Database, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	srv, err := New(cfg, s, nil)
	require.NoError(t, err)
	return srv, s
}

func do(t *testing.T, h http.Handler, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != "" {
		req.Header.Set("Cookie", auth.CookieName+"="+cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server, s *store.SQLStore) string {
	t.Helper()
	hash, err := auth.HashPassword("a long enough password")
	require.NoError(t, err)
	_, err = s.UpsertAdminUser(context.Background(), "owner@example.com", hash, "Owner")
	require.NoError(t, err)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/auth/login",
		`{"email":"owner@example.com","password":"a long enough password"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func TestNewRequiresSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""
	_, err := New(cfg, nil, nil)
	require.ErrorIs(t, err, auth.ErrMissingSecret)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(t, srv.Handler(), http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyFailsWhenStoreClosed(t *testing.T) {
	srv, s := newTestServer(t)
	require.NoError(t, s.Close())

	rec := do(t, srv.Handler(), http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCommonHeaders(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv.Handler(), http.MethodGet, "/", "", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "no HSTS outside production")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
}

func TestGateProtectsAdmin(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/admin/projects?tab=2", "", "")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/admin/projects?tab=2", loc.Query().Get("redirectTo"))

	rec = do(t, h, http.MethodGet, "/api/admin/projects", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/admin/projects", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminFlow(t *testing.T) {
	srv, s := newTestServer(t)
	h := srv.Handler()
	token := login(t, srv, s)

	rec := do(t, h, http.MethodGet, "/login", "", token)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, auth.AdminHome, rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/admin", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner@example.com")

	rec = do(t, h, http.MethodPost, "/api/admin/articles", `{
		"slug": "launch",
		"title": "Launch Notes",
		"excerpt": "What shipped",
		"contentMarkdown": "# Shipped\n\nIt *works*.",
		"publishedAt": "2024-05-01",
		"readingTime": "2 min read"
	}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/blog/launch", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<em>works</em>")

	rec = do(t, h, http.MethodPost, "/api/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestContactAndDeployRoutes(t *testing.T) {
	srv, s := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Let us build something"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	n, err := s.CountContactSubmissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rec = do(t, h, http.MethodGet, "/api/contact", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodGet, DeployPath, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Deployment data unavailable"}`, rec.Body.String())
}

func TestStaticAndPublicPages(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/static/site.css", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Test Portfolio")

	rec = do(t, h, http.MethodGet, "/does/not/exist", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunAndShutdown(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
