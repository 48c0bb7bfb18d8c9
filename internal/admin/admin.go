// ABOUTME: Admin content API: list, create, update and delete for every resource
// ABOUTME: Every route is wrapped by the per-endpoint guard

package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/content"
	"github.com/2389/portfolio/internal/store"
)

// Store is the persistence the admin API needs.
type Store interface {
	store.ContentStore
	store.AuditStore
}

// Handler serves /api/admin/...
type Handler struct {
	store  Store
	guard  *auth.Guard
	logger *slog.Logger
}

// New creates the admin API handler.
func New(s Store, guard *auth.Guard, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		guard:  guard,
		logger: logger.With("component", "admin"),
	}
}

// RegisterRoutes mounts the routes for projects, articles, services and testimonials.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	register(h, mux, h.projects())
	register(h, mux, h.articles())
	register(h, mux, h.services())
	register(h, mux, h.testimonials())
	h.logger.Debug("admin API routes registered")
}

func (h *Handler) projects() resource[store.Project] {
	return resource[store.Project]{
		singular: "project",
		plural:   "projects",
		list:     h.store.ListProjects,
		create:   h.store.CreateProject,
		update:   h.store.UpdateProject,
		delete:   h.store.DeleteProject,
		parse: func(body io.Reader) (*store.Project, error) {
			var in content.ProjectInput
			if err := content.Decode(body, &in); err != nil {
				return nil, err
			}
			return in.Project(), nil
		},
		identify: func(p *store.Project) (string, string) { return p.ID, p.Slug },
		setID:    func(p *store.Project, id string) { p.ID = id },
	}
}

func (h *Handler) articles() resource[store.Article] {
	return resource[store.Article]{
		singular: "article",
		plural:   "articles",
		list:     h.store.ListArticles,
		create:   h.store.CreateArticle,
		update:   h.store.UpdateArticle,
		delete:   h.store.DeleteArticle,
		parse: func(body io.Reader) (*store.Article, error) {
			var in content.ArticleInput
			if err := content.Decode(body, &in); err != nil {
				return nil, err
			}
			return in.Article(), nil
		},
		identify: func(a *store.Article) (string, string) { return a.ID, a.Slug },
		setID:    func(a *store.Article, id string) { a.ID = id },
	}
}

func (h *Handler) services() resource[store.Service] {
	return resource[store.Service]{
		singular: "service",
		plural:   "services",
		list:     h.store.ListServices,
		create:   h.store.CreateService,
		update:   h.store.UpdateService,
		delete:   h.store.DeleteService,
		parse: func(body io.Reader) (*store.Service, error) {
			var in content.ServiceInput
			if err := content.Decode(body, &in); err != nil {
				return nil, err
			}
			return in.Service(), nil
		},
		identify: func(s *store.Service) (string, string) { return s.ID, s.Slug },
		setID:    func(s *store.Service, id string) { s.ID = id },
	}
}

func (h *Handler) testimonials() resource[store.Testimonial] {
	return resource[store.Testimonial]{
		singular: "testimonial",
		plural:   "testimonials",
		list:     h.store.ListTestimonials,
		create:   h.store.CreateTestimonial,
		update:   h.store.UpdateTestimonial,
		delete:   h.store.DeleteTestimonial,
		parse: func(body io.Reader) (*store.Testimonial, error) {
			var in content.TestimonialInput
			if err := content.Decode(body, &in); err != nil {
				return nil, err
			}
			return in.Testimonial(), nil
		},
		identify: func(t *store.Testimonial) (string, string) { return t.ID, t.Slug },
		setID:    func(t *store.Testimonial, id string) { t.ID = id },
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
