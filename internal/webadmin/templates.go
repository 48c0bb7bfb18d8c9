// ABOUTME: Template rendering functions for admin UI
// ABOUTME: Loads templates from embedded filesystem and renders them

package webadmin

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/2389/portfolio/internal/assets"
	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/deploy"
	"github.com/2389/portfolio/internal/store"
)

var templateFuncs = template.FuncMap{
	"asset": assets.Path,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04 MST")
	},
	"join": strings.Join,
	"json": func(v any) (string, error) {
		data, err := json.Marshal(v)
		return string(data), err
	},
	"shortSHA": func(sha string) string {
		if len(sha) > 7 {
			return sha[:7]
		}
		return sha
	},
}

// pageData is embedded in every page's data.
type pageData struct {
	Title     string
	SiteTitle string
	Path      string
	Admin     *auth.Identity
}

type loginData struct {
	pageData
	RedirectTo string
}

type dashboardData struct {
	pageData
	Counts     []countItem
	Deployment *deploy.Deployment
	Audit      []store.AuditEntry
}

type countItem struct {
	Label string
	Count int
	Href  string
}

type projectsData struct {
	pageData
	Projects []*store.Project
}

type articlesData struct {
	pageData
	Articles []*store.Article
}

type servicesData struct {
	pageData
	Services []*store.Service
}

type testimonialsData struct {
	pageData
	Testimonials []*store.Testimonial
}

type contactData struct {
	pageData
	Submissions []*store.ContactSubmission
	Total       int
}

type auditData struct {
	pageData
	Entries []store.AuditEntry
}

func (a *Admin) page(r *http.Request, title string) pageData {
	return pageData{
		Title:     title,
		SiteTitle: a.config.SiteTitle,
		Path:      r.URL.Path,
		Admin:     auth.IdentityFromContext(r.Context()),
	}
}

// render executes base.html with the named page template. Output is buffered
// so a template error becomes a clean 500.
func (a *Admin) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("base.html").Funcs(templateFuncs).
		ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		a.logger.Error("failed to parse template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		a.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
