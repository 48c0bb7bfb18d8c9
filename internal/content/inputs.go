// ABOUTME: Typed request inputs for admin-managed content and their store conversions
// ABOUTME: Projects, articles, services and testimonials share slug and list conventions

package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/portfolio/internal/store"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ProjectInput is the create/update payload for a project.
type ProjectInput struct {
	Slug         string   `json:"slug" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Tagline      string   `json:"tagline" validate:"required"`
	Summary      string   `json:"summary" validate:"required"`
	Problem      string   `json:"problem" validate:"required"`
	Contribution string   `json:"contribution" validate:"required"`
	Impact       string   `json:"impact" validate:"required"`
	Overview     string   `json:"overview"`
	Challenges   []string `json:"challenges" validate:"dive,required"`
	Solution     []string `json:"solution" validate:"dive,required"`
	Outcomes     []string `json:"outcomes" validate:"dive,required"`
	Stack        []string `json:"stack" validate:"dive,required"`
	Tech         []string `json:"tech" validate:"dive,required"`
	Featured     bool     `json:"featured"`
	HeroImage    string   `json:"heroImage"`
}

func (in *ProjectInput) normalize() {
	trim(&in.Slug, &in.Title, &in.Tagline, &in.Summary, &in.Problem,
		&in.Contribution, &in.Impact, &in.Overview, &in.HeroImage)
	for _, list := range []*[]string{&in.Challenges, &in.Solution, &in.Outcomes, &in.Stack, &in.Tech} {
		trimList(list)
	}
}

// Project converts the input to a store record. An empty overview takes the summary.
func (in *ProjectInput) Project() *store.Project {
	overview := in.Overview
	if overview == "" {
		overview = in.Summary
	}
	return &store.Project{
		Slug:         in.Slug,
		Title:        in.Title,
		Tagline:      in.Tagline,
		Summary:      in.Summary,
		Problem:      in.Problem,
		Contribution: in.Contribution,
		Impact:       in.Impact,
		Overview:     overview,
		Challenges:   in.Challenges,
		Solution:     in.Solution,
		Outcomes:     in.Outcomes,
		Stack:        in.Stack,
		Tech:         in.Tech,
		Featured:     in.Featured,
		HeroImage:    in.HeroImage,
	}
}

// ArticleInput is the create/update payload for an article. When contentHtml
// is empty and contentMarkdown is set, the markdown is rendered to HTML.
type ArticleInput struct {
	Slug            string `json:"slug" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Excerpt         string `json:"excerpt" validate:"required"`
	ContentHTML     string `json:"contentHtml"`
	ContentMarkdown string `json:"contentMarkdown"`
	CoverImage      string `json:"coverImage"`
	PublishedAt     string `json:"publishedAt" validate:"required"`
	ReadingTime     string `json:"readingTime" validate:"required"`

	published time.Time
}

// dateLayouts are tried in order when parsing publishedAt.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

func (in *ArticleInput) normalize() {
	trim(&in.Slug, &in.Title, &in.Excerpt, &in.ContentHTML, &in.CoverImage, &in.PublishedAt, &in.ReadingTime)
}

func (in *ArticleInput) finish() error {
	if err := in.parsePublished(); err != nil {
		return err
	}
	return in.render()
}

func (in *ArticleInput) parsePublished() error {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, in.PublishedAt); err == nil {
			in.published = t.UTC()
			return nil
		}
	}
	return &ValidationError{Fields: map[string]string{"publishedAt": "Invalid date"}}
}

// render fills ContentHTML from ContentMarkdown when needed. An article with
// neither keeps an empty body so drafts can be saved.
func (in *ArticleInput) render() error {
	if in.ContentHTML != "" || strings.TrimSpace(in.ContentMarkdown) == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(in.ContentMarkdown), &buf); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	in.ContentHTML = buf.String()
	return nil
}

// Article converts the input to a store record.
func (in *ArticleInput) Article() *store.Article {
	return &store.Article{
		Slug:        in.Slug,
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		ContentHTML: in.ContentHTML,
		CoverImage:  in.CoverImage,
		PublishedAt: in.published,
		ReadingTime: in.ReadingTime,
	}
}

// ServiceInput is the create/update payload for a service.
type ServiceInput struct {
	Slug        string   `json:"slug" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       string   `json:"price"`
	Bullets     []string `json:"bullets" validate:"dive,required"`
	IconImage   string   `json:"iconImage"`
}

func (in *ServiceInput) normalize() {
	trim(&in.Slug, &in.Name, &in.Description, &in.Price, &in.IconImage)
	trimList(&in.Bullets)
}

// Service converts the input to a store record.
func (in *ServiceInput) Service() *store.Service {
	return &store.Service{
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Bullets:     in.Bullets,
		IconImage:   in.IconImage,
	}
}

// TestimonialInput is the create/update payload for a testimonial.
type TestimonialInput struct {
	Slug        string `json:"slug" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role" validate:"required"`
	Quote       string `json:"quote" validate:"required"`
	AvatarImage string `json:"avatarImage"`
}

func (in *TestimonialInput) normalize() {
	trim(&in.Slug, &in.Name, &in.Role, &in.Quote, &in.AvatarImage)
}

// Testimonial converts the input to a store record.
func (in *TestimonialInput) Testimonial() *store.Testimonial {
	return &store.Testimonial{
		Slug:        in.Slug,
		Name:        in.Name,
		Role:        in.Role,
		Quote:       in.Quote,
		AvatarImage: in.AvatarImage,
	}
}
