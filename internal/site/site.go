// ABOUTME: Public site handler: routes, store interface and template rendering
// ABOUTME: Pages are rendered per request from embedded templates

package site

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/2389/portfolio/internal/assets"
	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/store"
)

// Store is the read side of the content store used by public pages.
type Store interface {
	ListProjects(ctx context.Context) ([]*store.Project, error)
	ListFeaturedProjects(ctx context.Context) ([]*store.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*store.Project, error)
	ListArticles(ctx context.Context) ([]*store.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*store.Article, error)
	ListServices(ctx context.Context) ([]*store.Service, error)
	ListTestimonials(ctx context.Context) ([]*store.Testimonial, error)
}

// navLink is one entry of the site navigation.
type navLink struct {
	Title string
	Href  string
}

var nav = []navLink{
	{"Home", "/"},
	{"Highlights", "/projects"},
	{"What I Offer", "/services"},
	{"What People Say", "/testimonials"},
	{"Tech Insights", "/blog"},
	{"Contact", "/contact"},
}

var templateFuncs = template.FuncMap{
	"asset": assets.Path,
	"date": func(t time.Time) string {
		return t.Format("January 2, 2006")
	},
	"isoDate": func(t time.Time) string {
		return t.Format(time.DateOnly)
	},
	// trusted marks admin-authored article HTML as safe to emit.
	"trusted": func(s string) template.HTML {
		return template.HTML(s)
	},
	"join": strings.Join,
	"active": func(current, href string) bool {
		if href == "/" {
			return current == "/"
		}
		return current == href || strings.HasPrefix(current, href+"/")
	},
}

// Site serves the public pages.
type Site struct {
	store  Store
	config config.SiteConfig
	logger *slog.Logger
}

// New creates the public site handler.
func New(s Store, cfg config.SiteConfig, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Title == "" {
		cfg.Title = "Portfolio"
	}
	return &Site{
		store:  s,
		config: cfg,
		logger: logger.With("component", "site"),
	}
}

// RegisterRoutes registers the public pages. GET / is the catch-all, so any
// unmatched GET path renders the not-found page.
func (s *Site) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /projects", s.handleProjects)
	mux.HandleFunc("GET /projects/{slug}", s.handleProject)
	mux.HandleFunc("GET /blog", s.handleBlog)
	mux.HandleFunc("GET /blog/{slug}", s.handleArticle)
	mux.HandleFunc("GET /services", s.handleServices)
	mux.HandleFunc("GET /testimonials", s.handleTestimonials)
	mux.HandleFunc("GET /contact", s.handleContact)
	mux.HandleFunc("GET /", s.handleNotFound)
}

// pageData is embedded in every page's data.
type pageData struct {
	Title       string
	Description string
	Site        config.SiteConfig
	Nav         []navLink
	Path        string
}

func (s *Site) page(r *http.Request, title, description string) pageData {
	if description == "" {
		description = s.config.Tagline
	}
	return pageData{
		Title:       title,
		Description: description,
		Site:        s.config,
		Nav:         nav,
		Path:        r.URL.Path,
	}
}

// render executes base.html with the named page template.
func (s *Site) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, err := template.New("base.html").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		s.logger.Error("failed to parse template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Site) fail(w http.ResponseWriter, what string, err error) {
	s.logger.Error("failed to load "+what, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
