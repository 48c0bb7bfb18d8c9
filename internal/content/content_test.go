// ABOUTME: Tests for boundary validation of admin, login and contact payloads
// ABOUTME: Covers trimming, defaults, list rules, date parsing and markdown rendering

package content

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProject = `{
	"slug": " alpha ",
	"title": "Alpha",
	"tagline": "Fast",
	"summary": "A summary",
	"problem": "Slow",
	"contribution": "Rewrote it",
	"impact": "10x",
	"stack": [" Go ", "SQLite"],
	"extra": "ignored"
}`

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve.Fields
}

func TestDecodeProject_DefaultsAndTrimming(t *testing.T) {
	var in ProjectInput
	require.NoError(t, Decode(strings.NewReader(validProject), &in))

	p := in.Project()
	assert.Equal(t, "alpha", p.Slug)
	assert.Equal(t, "A summary", p.Overview, "overview defaults to summary")
	assert.Equal(t, []string{"Go", "SQLite"}, p.Stack)
	assert.Equal(t, []string{}, p.Challenges)
	assert.False(t, p.Featured)
	assert.Empty(t, p.HeroImage)
}

func TestDecodeProject_MissingRequired(t *testing.T) {
	var in ProjectInput
	err := Decode(strings.NewReader(`{"slug":"x","title":"   "}`), &in)
	require.Error(t, err)
	assert.True(t, IsInvalid(err))

	fields := validationFields(t, err)
	assert.Equal(t, "Required", fields["title"])
	assert.Contains(t, fields, "impact")
	assert.NotContains(t, fields, "slug")
}

func TestDecodeProject_BlankListItemRejected(t *testing.T) {
	body := strings.Replace(validProject, `"stack": [" Go ", "SQLite"]`, `"stack": ["Go", "  "]`, 1)

	var in ProjectInput
	err := Decode(strings.NewReader(body), &in)
	fields := validationFields(t, err)
	assert.Contains(t, fields, "stack[1]")
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "slug=x"},
		{"array", `[1,2]`},
		{"wrong type", `{"featured":"yes"}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in ProjectInput
			err := Decode(strings.NewReader(tt.body), &in)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.True(t, IsInvalid(err))
		})
	}
}

func TestIsInvalid_OtherErrors(t *testing.T) {
	assert.False(t, IsInvalid(errors.New("database down")))
	assert.False(t, IsInvalid(nil))
}

func TestDecodeArticle_Dates(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"2025-03-04T10:30:00Z", time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)},
		{"2025-03-04T10:30:00+02:00", time.Date(2025, 3, 4, 8, 30, 0, 0, time.UTC)},
		{"2025-03-04T10:30", time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			body := `{"slug":"a","title":"A","excerpt":"E","contentHtml":"<p>x</p>","readingTime":"3 min","publishedAt":"` + tt.in + `"}`
			var in ArticleInput
			require.NoError(t, Decode(strings.NewReader(body), &in))
			assert.True(t, in.Article().PublishedAt.Equal(tt.want), "got %v", in.Article().PublishedAt)
		})
	}
}

func TestDecodeArticle_InvalidDate(t *testing.T) {
	body := `{"slug":"a","title":"A","excerpt":"E","readingTime":"3 min","publishedAt":"last tuesday"}`
	var in ArticleInput
	fields := validationFields(t, Decode(strings.NewReader(body), &in))
	assert.Equal(t, "Invalid date", fields["publishedAt"])
}

func TestDecodeArticle_EmptyBodyAllowed(t *testing.T) {
	for _, body := range []string{
		`{"slug":"a","title":"A","excerpt":"E","readingTime":"3 min","publishedAt":"2025-01-01"}`,
		`{"slug":"a","title":"A","excerpt":"E","readingTime":"3 min","publishedAt":"2025-01-01","contentHtml":"","contentMarkdown":"  "}`,
	} {
		var in ArticleInput
		require.NoError(t, Decode(strings.NewReader(body), &in), body)
		assert.Equal(t, "", in.Article().ContentHTML)
	}
}

func TestDecodeArticle_Markdown(t *testing.T) {
	body := `{"slug":"a","title":"A","excerpt":"E","readingTime":"3 min","publishedAt":"2025-01-01",
		"contentMarkdown":"# Heading\n\nSome ~~old~~ text"}`
	var in ArticleInput
	require.NoError(t, Decode(strings.NewReader(body), &in))

	html := in.Article().ContentHTML
	assert.Contains(t, html, "<h1>Heading</h1>")
	assert.Contains(t, html, "<del>old</del>")
}

func TestDecodeArticle_HTMLWinsOverMarkdown(t *testing.T) {
	body := `{"slug":"a","title":"A","excerpt":"E","readingTime":"3 min","publishedAt":"2025-01-01",
		"contentHtml":"<p>kept</p>","contentMarkdown":"# ignored"}`
	var in ArticleInput
	require.NoError(t, Decode(strings.NewReader(body), &in))
	assert.Equal(t, "<p>kept</p>", in.Article().ContentHTML)
}

func TestDecodeService(t *testing.T) {
	var in ServiceInput
	require.NoError(t, Decode(strings.NewReader(`{"slug":"s","name":"N","description":"D","bullets":[" one "]}`), &in))
	svc := in.Service()
	assert.Equal(t, []string{"one"}, svc.Bullets)
	assert.Empty(t, svc.Price)
}

func TestDecodeTestimonial(t *testing.T) {
	var in TestimonialInput
	err := Decode(strings.NewReader(`{"slug":"t","name":"N","role":"R"}`), &in)
	fields := validationFields(t, err)
	assert.Equal(t, map[string]string{"quote": "Required"}, fields)
}

func TestDecodeLogin(t *testing.T) {
	var in LoginInput
	require.NoError(t, Decode(strings.NewReader(`{"email":" Owner@Example.COM ","password":"correct-horse"}`), &in))
	assert.Equal(t, "owner@example.com", in.Email)

	var bad LoginInput
	fields := validationFields(t, Decode(strings.NewReader(`{"email":"nope","password":"short"}`), &bad))
	assert.Equal(t, "Enter a valid email", fields["email"])
	assert.Equal(t, "Password must be at least 8 characters", fields["password"])
}

func TestDecodeContact(t *testing.T) {
	var in ContactInput
	body := `{"name":"Ada","email":"ada@example.com","message":"I would like a quote please"}`
	require.NoError(t, Decode(strings.NewReader(body), &in))
	sub := in.Submission()
	assert.Equal(t, "Ada", sub.Name)
	assert.Empty(t, sub.Company)

	var bad ContactInput
	long := strings.Repeat("x", 161)
	fields := validationFields(t, Decode(strings.NewReader(`{"name":"","email":"","subject":"`+long+`","message":"hi"}`), &bad))
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Enter a valid email", fields["email"])
	assert.Equal(t, "Must be at most 160 characters", fields["subject"])
	assert.Equal(t, "Please provide a bit more detail", fields["message"])
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"title": "Required", "slug": "Required"}}
	assert.Equal(t, "invalid fields: slug, title", err.Error())
}

func TestValidateLogin(t *testing.T) {
	in := LoginInput{Email: "  Owner@Example.COM ", Password: "long enough"}
	require.NoError(t, Validate(&in))
	assert.Equal(t, "owner@example.com", in.Email)

	fields := validationFields(t, Validate(&LoginInput{Email: "owner@example.com", Password: "short"}))
	assert.Equal(t, "Password must be at least 8 characters", fields["password"])
}
