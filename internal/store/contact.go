// ABOUTME: Contact form submission persistence
// ABOUTME: Append-only inbox listed newest first in the admin UI

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

var contactColumns = []string{"id", "name", "email", "company", "subject", "message", "created_at"}

// CreateContactSubmission stores a contact form submission.
func (s *SQLStore) CreateContactSubmission(ctx context.Context, c *ContactSubmission) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	_, err := s.exec(ctx, s.sb.Insert("contact_submissions").Columns(contactColumns...).Values(
		c.ID, c.Name, c.Email, nullable(c.Company), nullable(c.Subject), c.Message, formatTime(c.CreatedAt),
	))
	if err != nil {
		return fmt.Errorf("inserting contact submission: %w", err)
	}
	return nil
}

// ListContactSubmissions returns the most recent submissions, newest first.
// A non-positive limit defaults to 100.
func (s *SQLStore) ListContactSubmissions(ctx context.Context, limit int) ([]*ContactSubmission, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.query(ctx, s.sb.Select(contactColumns...).
		From("contact_submissions").
		OrderBy("created_at DESC").
		Limit(uint64(limit)))
	if err != nil {
		return nil, fmt.Errorf("querying contact submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	submissions := []*ContactSubmission{}
	for rows.Next() {
		var c ContactSubmission
		var company, subject sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &company, &subject, &c.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning contact submission: %w", err)
		}
		c.Company = company.String
		c.Subject = subject.String
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		submissions = append(submissions, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact submissions: %w", err)
	}
	return submissions, nil
}

// CountContactSubmissions returns the total number of submissions.
func (s *SQLStore) CountContactSubmissions(ctx context.Context) (int, error) {
	return s.count(ctx, "contact_submissions")
}
