// ABOUTME: Inputs for the login and public contact forms
// ABOUTME: Messages match what the forms show next to each field

package content

import (
	"strings"

	"github.com/2389/portfolio/internal/store"
)

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

func (in *LoginInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func (in *LoginInput) messages() map[string]string {
	return map[string]string{
		"email.required": "Enter a valid email",
		"password.min":   "Password must be at least 8 characters",
	}
}

// ContactInput is the body of POST /api/contact.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"max=120"`
	Subject string `json:"subject" validate:"max=160"`
	Message string `json:"message" validate:"min=10"`
}

func (in *ContactInput) normalize() {
	trim(&in.Name, &in.Email, &in.Company, &in.Subject, &in.Message)
}

func (in *ContactInput) messages() map[string]string {
	return map[string]string{
		"name.required":  "Name is required",
		"email.required": "Enter a valid email",
		"message.min":    "Please provide a bit more detail",
	}
}

// Submission converts the input to a store record.
func (in *ContactInput) Submission() *store.ContactSubmission {
	return &store.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Company: in.Company,
		Subject: in.Subject,
		Message: in.Message,
	}
}
