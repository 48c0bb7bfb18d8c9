// ABOUTME: Handlers for the public pages
// ABOUTME: Home, project and article listings and details, services, testimonials, contact

package site

import (
	"errors"
	"net/http"
	"slices"

	"github.com/2389/portfolio/internal/store"
)

// homeArticleCount is how many recent articles the home page shows.
const homeArticleCount = 3

type homeData struct {
	pageData
	Projects     []*store.Project
	Services     []*store.Service
	Testimonials []*store.Testimonial
	Articles     []*store.Article
}

type projectsData struct {
	pageData
	Projects []*store.Project
}

type projectData struct {
	pageData
	Project *store.Project
}

type blogData struct {
	pageData
	Articles []*store.Article
}

type articleData struct {
	pageData
	Article *store.Article
}

type servicesData struct {
	pageData
	Services []*store.Service
}

type testimonialsData struct {
	pageData
	Testimonials []*store.Testimonial
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeData{pageData: s.page(r, s.config.Title, "")}

	var err error
	if data.Projects, err = s.store.ListFeaturedProjects(ctx); err != nil {
		s.fail(w, "featured projects", err)
		return
	}
	if data.Services, err = s.services(r); err != nil {
		s.fail(w, "services", err)
		return
	}
	if data.Testimonials, err = s.store.ListTestimonials(ctx); err != nil {
		s.fail(w, "testimonials", err)
		return
	}
	articles, err := s.store.ListArticles(ctx)
	if err != nil {
		s.fail(w, "articles", err)
		return
	}
	data.Articles = articles[:min(len(articles), homeArticleCount)]

	s.render(w, http.StatusOK, "home.html", data)
}

func (s *Site) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.fail(w, "projects", err)
		return
	}
	s.render(w, http.StatusOK, "projects.html", projectsData{
		pageData: s.page(r, "Highlights", "Selected builds and case studies."),
		Projects: projects,
	})
}

func (s *Site) handleProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.GetProjectBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, store.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, "project", err)
		return
	}
	s.render(w, http.StatusOK, "project.html", projectData{
		pageData: s.page(r, project.Title, project.Tagline),
		Project:  project,
	})
}

func (s *Site) handleBlog(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.fail(w, "articles", err)
		return
	}
	s.render(w, http.StatusOK, "blog.html", blogData{
		pageData: s.page(r, "Tech Insights", "Notes on engineering, automation and shipping."),
		Articles: articles,
	})
}

func (s *Site) handleArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticleBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, store.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.fail(w, "article", err)
		return
	}
	s.render(w, http.StatusOK, "article.html", articleData{
		pageData: s.page(r, article.Title, article.Excerpt),
		Article:  article,
	})
}

func (s *Site) handleServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.services(r)
	if err != nil {
		s.fail(w, "services", err)
		return
	}
	s.render(w, http.StatusOK, "services.html", servicesData{
		pageData: s.page(r, "What I Offer", ""),
		Services: services,
	})
}

// services lists offerings oldest first, the order they were written in.
func (s *Site) services(r *http.Request) ([]*store.Service, error) {
	services, err := s.store.ListServices(r.Context())
	if err != nil {
		return nil, err
	}
	slices.Reverse(services)
	return services, nil
}

func (s *Site) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := s.store.ListTestimonials(r.Context())
	if err != nil {
		s.fail(w, "testimonials", err)
		return
	}
	s.render(w, http.StatusOK, "testimonials.html", testimonialsData{
		pageData:     s.page(r, "What People Say", ""),
		Testimonials: testimonials,
	})
}

func (s *Site) handleContact(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "contact.html", s.page(r, "Contact", "Tell me about your project."))
}

func (s *Site) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound.html", s.page(r, "Not found", ""))
}
