// ABOUTME: Handlers for the admin dashboard and the per-resource listing pages
// ABOUTME: Pages read the admin identity the request gate put on the context

package webadmin

import (
	"net/http"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/store"
)

// signedIn redirects to the login page when no identity is present, which
// only happens if the pages are mounted without the gate.
func (a *Admin) signedIn(w http.ResponseWriter, r *http.Request) bool {
	if auth.IdentityFromContext(r.Context()) == nil {
		http.Redirect(w, r, auth.LoginRedirectURL(r), http.StatusFound)
		return false
	}
	return true
}

func (a *Admin) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	ctx := r.Context()

	counts := []struct {
		label, href string
		count       func() (int, error)
	}{
		{"Projects", "/admin/projects", func() (int, error) { return countOf(a.store.ListProjects(ctx)) }},
		{"Articles", "/admin/articles", func() (int, error) { return countOf(a.store.ListArticles(ctx)) }},
		{"Services", "/admin/services", func() (int, error) { return countOf(a.store.ListServices(ctx)) }},
		{"Testimonials", "/admin/testimonials", func() (int, error) { return countOf(a.store.ListTestimonials(ctx)) }},
		{"Messages", "/admin/contact", func() (int, error) { return a.store.CountContactSubmissions(ctx) }},
	}

	data := dashboardData{pageData: a.page(r, "Dashboard")}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			a.logger.Error("failed to count records", "kind", c.label, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data.Counts = append(data.Counts, countItem{Label: c.label, Count: n, Href: c.href})
	}

	audit, err := a.store.ListAuditLog(ctx, store.AuditFilter{Limit: 10})
	if err != nil {
		a.logger.Warn("failed to load audit log", "error", err)
	}
	data.Audit = audit
	data.Deployment = a.latestDeployment(ctx)

	a.render(w, "dashboard.html", data)
}

func countOf[T any](items []T, err error) (int, error) {
	return len(items), err
}

func (a *Admin) handleProjects(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	projects, err := a.store.ListProjects(r.Context())
	if err != nil {
		a.failPage(w, "projects", err)
		return
	}
	a.render(w, "projects.html", projectsData{pageData: a.page(r, "Projects"), Projects: projects})
}

func (a *Admin) handleArticles(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	articles, err := a.store.ListArticles(r.Context())
	if err != nil {
		a.failPage(w, "articles", err)
		return
	}
	a.render(w, "articles.html", articlesData{pageData: a.page(r, "Articles"), Articles: articles})
}

func (a *Admin) handleServices(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	services, err := a.store.ListServices(r.Context())
	if err != nil {
		a.failPage(w, "services", err)
		return
	}
	a.render(w, "services.html", servicesData{pageData: a.page(r, "Services"), Services: services})
}

func (a *Admin) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	testimonials, err := a.store.ListTestimonials(r.Context())
	if err != nil {
		a.failPage(w, "testimonials", err)
		return
	}
	a.render(w, "testimonials.html", testimonialsData{pageData: a.page(r, "Testimonials"), Testimonials: testimonials})
}

func (a *Admin) handleContact(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	ctx := r.Context()
	submissions, err := a.store.ListContactSubmissions(ctx, 100)
	if err != nil {
		a.failPage(w, "contact submissions", err)
		return
	}
	total, err := a.store.CountContactSubmissions(ctx)
	if err != nil {
		a.failPage(w, "contact submissions", err)
		return
	}
	a.render(w, "contact.html", contactData{pageData: a.page(r, "Messages"), Submissions: submissions, Total: total})
}

func (a *Admin) handleAudit(w http.ResponseWriter, r *http.Request) {
	if !a.signedIn(w, r) {
		return
	}
	filter := store.AuditFilter{
		TargetType: r.URL.Query().Get("type"),
		Action:     store.AuditAction(r.URL.Query().Get("action")),
		Limit:      200,
	}
	entries, err := a.store.ListAuditLog(r.Context(), filter)
	if err != nil {
		a.failPage(w, "audit log", err)
		return
	}
	a.render(w, "audit.html", auditData{pageData: a.page(r, "Activity"), Entries: entries})
}

func (a *Admin) failPage(w http.ResponseWriter, what string, err error) {
	a.logger.Error("failed to load "+what, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
