// ABOUTME: Store interfaces and data types for portfolio persistence
// ABOUTME: Defines content records (projects, articles, services, testimonials) and contact submissions

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// ErrSlugExists is returned when a create or update would duplicate a slug
var ErrSlugExists = errors.New("slug already exists")

// Project is a portfolio case study.
type Project struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Tagline      string    `json:"tagline"`
	Summary      string    `json:"summary"`
	Problem      string    `json:"problem"`
	Contribution string    `json:"contribution"`
	Impact       string    `json:"impact"`
	Overview     string    `json:"overview"` // falls back to Summary when empty
	Challenges   []string  `json:"challenges"`
	Solution     []string  `json:"solution"`
	Outcomes     []string  `json:"outcomes"`
	Stack        []string  `json:"stack"`
	Tech         []string  `json:"tech"`
	Featured     bool      `json:"featured"`
	HeroImage    string    `json:"heroImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Article is a blog post.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	ContentHTML string    `json:"contentHtml"`
	CoverImage  string    `json:"coverImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadingTime string    `json:"readingTime"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Service is a service offering.
type Service struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price,omitempty"`
	Bullets     []string  `json:"bullets"`
	IconImage   string    `json:"iconImage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Testimonial is a client quote.
type Testimonial struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Quote       string    `json:"quote"`
	AvatarImage string    `json:"avatarImage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContentStore persists the four admin-managed content types.
// Update and Delete return ErrNotFound for unknown ids; Create and Update
// return ErrSlugExists on a duplicate slug.
type ContentStore interface {
	ListProjects(ctx context.Context) ([]*Project, error)
	ListFeaturedProjects(ctx context.Context) ([]*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id string) error

	ListArticles(ctx context.Context) ([]*Article, error)
	GetArticle(ctx context.Context, id string) (*Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*Article, error)
	CreateArticle(ctx context.Context, a *Article) error
	UpdateArticle(ctx context.Context, a *Article) error
	DeleteArticle(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]*Service, error)
	GetService(ctx context.Context, id string) (*Service, error)
	CreateService(ctx context.Context, s *Service) error
	UpdateService(ctx context.Context, s *Service) error
	DeleteService(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context) ([]*Testimonial, error)
	GetTestimonial(ctx context.Context, id string) (*Testimonial, error)
	CreateTestimonial(ctx context.Context, t *Testimonial) error
	UpdateTestimonial(ctx context.Context, t *Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
}

// ContactStore persists contact form submissions.
type ContactStore interface {
	CreateContactSubmission(ctx context.Context, c *ContactSubmission) error
	ListContactSubmissions(ctx context.Context, limit int) ([]*ContactSubmission, error)
	CountContactSubmissions(ctx context.Context) (int, error)
}

// Store is everything the server needs from persistence.
type Store interface {
	ContentStore
	ContactStore
	AdminStore
	AuditStore
	Ping(ctx context.Context) error
	Close() error
}

// Ensure SQLStore implements Store.
var _ Store = (*SQLStore)(nil)
