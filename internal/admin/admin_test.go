// ABOUTME: Tests for the admin content API against a real SQLite store
// ABOUTME: Covers authorization, CRUD status codes, error messages and audit entries

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/store"
)

var testSecret = []byte("admin-api-test-secret-32-bytes!!")

const projectBody = `{
	"slug": "alpha",
	"title": "Alpha",
	"tagline": "Fast",
	"summary": "Summary",
	"problem": "Problem",
	"contribution": "Contribution",
	"impact": "Impact",
	"stack": ["Go"]
}`

type testEnv struct {
	mux    *http.ServeMux
	store  *store.SQLStore
	cookie string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := store.Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "admin.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return newEnvWithStore(t, s, s)
}

func newEnvWithStore(t *testing.T, s Store, sqlStore *store.SQLStore) *testEnv {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	token, err := tokens.Issue("admin-1", "owner@example.com", time.Hour)
	require.NoError(t, err)

	mux := http.NewServeMux()
	New(s, auth.NewGuard(tokens, nil), nil).RegisterRoutes(mux)

	return &testEnv{mux: mux, store: sqlStore, cookie: auth.CookieName + "=" + token}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", e.cookie)
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAdminAPI_RequiresSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := &store.Service{Slug: "consulting", Name: "Consulting", Description: "Advice"}
	require.NoError(t, env.store.CreateService(ctx, svc))
	quote := &store.Testimonial{Slug: "ada", Name: "Ada", Role: "CTO", Quote: "Great"}
	require.NoError(t, env.store.CreateTestimonial(ctx, quote))

	articleBody := `{"slug":"a","title":"A","excerpt":"E","contentHtml":"<p>x</p>","readingTime":"2 min","publishedAt":"2025-01-01"}`
	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/api/admin/projects", ""},
		{http.MethodPost, "/api/admin/projects", projectBody},
		{http.MethodPost, "/api/admin/articles", articleBody},
		{http.MethodPut, "/api/admin/services/" + svc.ID, `{"slug":"changed","name":"Changed","description":"New"}`},
		{http.MethodDelete, "/api/admin/testimonials/" + quote.ID, ""},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
			rec := httptest.NewRecorder()
			env.mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Unauthorized", decodeBody(t, rec)["message"])
		})
	}

	projects, err := env.store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	articles, err := env.store.ListArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)

	gotSvc, err := env.store.GetService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "consulting", gotSvc.Slug)

	_, err = env.store.GetTestimonial(ctx, quote.ID)
	assert.NoError(t, err, "testimonial must survive the rejected delete")

	entries, err := env.store.ListAuditLog(ctx, store.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAdminAPI_ArticleWithoutBody(t *testing.T) {
	env := newTestEnv(t)

	body := `{"slug":"draft","title":"Draft","excerpt":"Soon","readingTime":"1 min","publishedAt":"2025-01-01"}`
	rec := env.do(http.MethodPost, "/api/admin/articles", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "", decodeBody(t, rec)["article"].(map[string]any)["contentHtml"])
}

func TestAdminAPI_ForgedHeaderRejected(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/projects", nil)
	req.Header.Set(auth.AdminIDHeader, "attacker")
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAPI_ProjectLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/admin/projects", projectBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)["project"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "alpha", created["slug"])
	assert.Equal(t, "Summary", created["overview"])
	assert.Equal(t, []any{}, created["challenges"])

	rec = env.do(http.MethodGet, "/api/admin/projects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["projects"].([]any)
	require.Len(t, list, 1)

	updated := strings.Replace(projectBody, `"Alpha"`, `"Alpha v2"`, 1)
	rec = env.do(http.MethodPut, "/api/admin/projects/"+id, updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Alpha v2", decodeBody(t, rec)["project"].(map[string]any)["title"])

	rec = env.do(http.MethodDelete, "/api/admin/projects/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	entries, err := env.store.ListAuditLog(context.Background(), store.AuditFilter{TargetType: "project"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "admin-1", e.ActorID)
		assert.Equal(t, id, e.TargetID)
	}
}

func TestAdminAPI_InvalidPayload(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name, path, body, message string
	}{
		{"project missing fields", "/api/admin/projects", `{"slug":"x"}`, "Invalid project data"},
		{"article malformed", "/api/admin/articles", `{not json`, "Invalid article data"},
		{"service blank bullet", "/api/admin/services", `{"slug":"s","name":"n","description":"d","bullets":[""]}`, "Invalid service data"},
		{"testimonial empty", "/api/admin/testimonials", `{}`, "Invalid testimonial data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["message"])
		})
	}
}

func TestAdminAPI_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/api/admin/projects/missing", projectBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decodeBody(t, rec)["message"])

	rec = env.do(http.MethodDelete, "/api/admin/testimonials/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Testimonial not found", decodeBody(t, rec)["message"])
}

func TestAdminAPI_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	body := `{"slug":"consulting","name":"Consulting","description":"Advice"}`

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/admin/services", body).Code)
	rec := env.do(http.MethodPost, "/api/admin/services", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminAPI_ArticlesOrderedByPublishedAt(t *testing.T) {
	env := newTestEnv(t)

	for _, a := range []struct{ slug, date string }{
		{"older", "2024-01-01"},
		{"newer", "2025-06-01"},
	} {
		body := `{"slug":"` + a.slug + `","title":"T","excerpt":"E","contentHtml":"<p>x</p>","readingTime":"2 min","publishedAt":"` + a.date + `"}`
		require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/admin/articles", body).Code)
	}

	rec := env.do(http.MethodGet, "/api/admin/articles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)["articles"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].(map[string]any)["slug"])
}

// failingStore fails every service call and passes the rest through.
type failingStore struct {
	Store
}

var errDatabaseDown = errors.New("database down")

func (failingStore) ListServices(context.Context) ([]*store.Service, error) {
	return nil, errDatabaseDown
}

func (failingStore) CreateService(context.Context, *store.Service) error {
	return errDatabaseDown
}

func (failingStore) UpdateService(context.Context, *store.Service) error {
	return errDatabaseDown
}

func (failingStore) DeleteService(context.Context, string) error {
	return errDatabaseDown
}

func TestAdminAPI_StoreFailures(t *testing.T) {
	backing := newTestEnv(t).store
	env := newEnvWithStore(t, failingStore{Store: backing}, backing)
	body := `{"slug":"s","name":"n","description":"d"}`

	tests := []struct {
		method, path, body, message string
	}{
		{http.MethodGet, "/api/admin/services", "", "Failed to load services"},
		{http.MethodPost, "/api/admin/services", body, "Failed to create service"},
		{http.MethodPut, "/api/admin/services/s1", body, "Failed to update service"},
		{http.MethodDelete, "/api/admin/services/s1", "", "Failed to delete service"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["message"])
			assert.NotContains(t, rec.Body.String(), "database down")
		})
	}
}
