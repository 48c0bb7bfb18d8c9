// Package content validates request bodies at the HTTP boundary.
//
// Each input type (ProjectInput, ArticleInput, ServiceInput,
// TestimonialInput, LoginInput, ContactInput) is decoded with Decode, which
// trims strings, applies defaults and runs go-playground/validator rules.
// Failures come back as ErrMalformed for unreadable JSON or as a
// *ValidationError naming the offending fields. Valid inputs convert to
// store records through their Project, Article, Service, Testimonial and
// Submission methods.
//
// Articles may carry contentMarkdown instead of contentHtml; it is rendered
// with goldmark (GitHub flavored) during Decode.
package content
