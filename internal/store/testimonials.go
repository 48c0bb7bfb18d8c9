// ABOUTME: Testimonial persistence
// ABOUTME: Plain columns only, newest first

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var testimonialColumns = []string{
	"id", "slug", "name", "role", "quote", "avatar_image", "created_at", "updated_at",
}

func scanTestimonial(row rowScanner) (*Testimonial, error) {
	var t Testimonial
	var avatar sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Role, &t.Quote, &avatar, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.AvatarImage = avatar.String

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTestimonials returns all testimonials, newest first.
func (s *SQLStore) ListTestimonials(ctx context.Context) ([]*Testimonial, error) {
	rows, err := s.query(ctx, s.sb.Select(testimonialColumns...).From("testimonials").OrderBy("created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("querying testimonials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	testimonials := []*Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning testimonial: %w", err)
		}
		testimonials = append(testimonials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating testimonials: %w", err)
	}
	return testimonials, nil
}

// GetTestimonial retrieves a testimonial by ID.
func (s *SQLStore) GetTestimonial(ctx context.Context, id string) (*Testimonial, error) {
	row, err := s.queryRow(ctx, s.sb.Select(testimonialColumns...).From("testimonials").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	t, err := scanTestimonial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying testimonial: %w", err)
	}
	return t, nil
}

// CreateTestimonial inserts a testimonial, assigning ID and timestamps.
func (s *SQLStore) CreateTestimonial(ctx context.Context, t *Testimonial) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	s.stamp(&t.CreatedAt, &t.UpdatedAt)

	_, err := s.exec(ctx, s.sb.Insert("testimonials").Columns(testimonialColumns...).Values(
		t.ID, t.Slug, t.Name, t.Role, t.Quote, nullable(t.AvatarImage),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	))
	if err != nil {
		return writeErr("inserting testimonial", err)
	}
	return nil
}

// UpdateTestimonial replaces every editable field of an existing testimonial.
func (s *SQLStore) UpdateTestimonial(ctx context.Context, t *Testimonial) error {
	t.UpdatedAt = s.now()

	result, err := s.exec(ctx, s.sb.Update("testimonials").SetMap(map[string]any{
		"slug":         t.Slug,
		"name":         t.Name,
		"role":         t.Role,
		"quote":        t.Quote,
		"avatar_image": nullable(t.AvatarImage),
		"updated_at":   formatTime(t.UpdatedAt),
	}).Where(sq.Eq{"id": t.ID}))
	if err != nil {
		return writeErr("updating testimonial", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	fresh, err := s.GetTestimonial(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *fresh
	return nil
}

// DeleteTestimonial removes a testimonial.
func (s *SQLStore) DeleteTestimonial(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "testimonials", id)
}
