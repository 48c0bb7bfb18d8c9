// ABOUTME: Service offering persistence
// ABOUTME: Bullets are stored as a JSON text column

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var serviceColumns = []string{
	"id", "slug", "name", "description", "price", "bullets", "icon_image", "created_at", "updated_at",
}

func scanService(row rowScanner) (*Service, error) {
	var svc Service
	var price, iconImage sql.NullString
	var bullets, createdAt, updatedAt string

	if err := row.Scan(
		&svc.ID, &svc.Slug, &svc.Name, &svc.Description, &price, &bullets, &iconImage, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	svc.Price = price.String
	svc.IconImage = iconImage.String
	svc.Bullets = decodeList(bullets)

	var err error
	if svc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if svc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &svc, nil
}

// ListServices returns all services, newest first.
func (s *SQLStore) ListServices(ctx context.Context) ([]*Service, error) {
	rows, err := s.query(ctx, s.sb.Select(serviceColumns...).From("services").OrderBy("created_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer func() { _ = rows.Close() }()

	services := []*Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating services: %w", err)
	}
	return services, nil
}

// GetService retrieves a service by ID.
func (s *SQLStore) GetService(ctx context.Context, id string) (*Service, error) {
	row, err := s.queryRow(ctx, s.sb.Select(serviceColumns...).From("services").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	svc, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying service: %w", err)
	}
	return svc, nil
}

// CreateService inserts a service, assigning ID and timestamps.
func (s *SQLStore) CreateService(ctx context.Context, svc *Service) error {
	if svc.ID == "" {
		svc.ID = uuid.New().String()
	}
	s.stamp(&svc.CreatedAt, &svc.UpdatedAt)

	_, err := s.exec(ctx, s.sb.Insert("services").Columns(serviceColumns...).Values(
		svc.ID, svc.Slug, svc.Name, svc.Description, nullable(svc.Price), encodeList(svc.Bullets),
		nullable(svc.IconImage), formatTime(svc.CreatedAt), formatTime(svc.UpdatedAt),
	))
	if err != nil {
		return writeErr("inserting service", err)
	}
	if svc.Bullets == nil {
		svc.Bullets = []string{}
	}
	return nil
}

// UpdateService replaces every editable field of an existing service.
func (s *SQLStore) UpdateService(ctx context.Context, svc *Service) error {
	svc.UpdatedAt = s.now()

	result, err := s.exec(ctx, s.sb.Update("services").SetMap(map[string]any{
		"slug":        svc.Slug,
		"name":        svc.Name,
		"description": svc.Description,
		"price":       nullable(svc.Price),
		"bullets":     encodeList(svc.Bullets),
		"icon_image":  nullable(svc.IconImage),
		"updated_at":  formatTime(svc.UpdatedAt),
	}).Where(sq.Eq{"id": svc.ID}))
	if err != nil {
		return writeErr("updating service", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	fresh, err := s.GetService(ctx, svc.ID)
	if err != nil {
		return err
	}
	*svc = *fresh
	return nil
}

// DeleteService removes a service.
func (s *SQLStore) DeleteService(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "services", id)
}
