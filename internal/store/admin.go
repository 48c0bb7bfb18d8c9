// ABOUTME: Admin user type and store methods
// ABOUTME: Email + bcrypt password accounts used for the back office login

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ErrAdminUserNotFound is returned when an admin user doesn't exist.
var ErrAdminUserNotFound = errors.New("admin user not found")

// ErrEmailExists is returned when trying to create a user with an existing email.
var ErrEmailExists = errors.New("email already exists")

// AdminUser represents an admin who can sign in to the back office.
type AdminUser struct {
	ID           string
	Email        string // stored lower-cased
	PasswordHash string // bcrypt hash
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AdminStore defines the interface for admin account persistence.
type AdminStore interface {
	CreateAdminUser(ctx context.Context, user *AdminUser) error
	UpsertAdminUser(ctx context.Context, email, passwordHash, displayName string) (*AdminUser, error)
	GetAdminUser(ctx context.Context, id string) (*AdminUser, error)
	GetAdminUserByEmail(ctx context.Context, email string) (*AdminUser, error)
	CountAdminUsers(ctx context.Context) (int, error)
}

var adminUserColumns = []string{"id", "email", "password_hash", "display_name", "created_at", "updated_at"}

// CreateAdminUser creates a new admin user. ID and timestamps are filled in if unset.
func (s *SQLStore) CreateAdminUser(ctx context.Context, user *AdminUser) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	s.stamp(&user.CreatedAt, &user.UpdatedAt)

	_, err := s.exec(ctx, s.sb.Insert("admin_users").
		Columns(adminUserColumns...).
		Values(user.ID, user.Email, user.PasswordHash, user.DisplayName,
			formatTime(user.CreatedAt), formatTime(user.UpdatedAt)))
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting admin user: %w", err)
	}

	s.logger.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

// UpsertAdminUser creates the admin with the given email, or replaces the
// password hash (and display name, if given) of the existing one.
func (s *SQLStore) UpsertAdminUser(ctx context.Context, email, passwordHash, displayName string) (*AdminUser, error) {
	existing, err := s.GetAdminUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrAdminUserNotFound):
		user := &AdminUser{Email: email, PasswordHash: passwordHash, DisplayName: displayName}
		if err := s.CreateAdminUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	case err != nil:
		return nil, err
	}

	existing.PasswordHash = passwordHash
	if displayName != "" {
		existing.DisplayName = displayName
	}
	existing.UpdatedAt = s.now()

	result, err := s.exec(ctx, s.sb.Update("admin_users").
		Set("password_hash", existing.PasswordHash).
		Set("display_name", existing.DisplayName).
		Set("updated_at", formatTime(existing.UpdatedAt)).
		Where(sq.Eq{"id": existing.ID}))
	if err != nil {
		return nil, fmt.Errorf("updating admin user: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, ErrAdminUserNotFound
	}

	s.logger.Info("updated admin user password", "id", existing.ID)
	return existing, nil
}

// GetAdminUser retrieves an admin user by ID.
func (s *SQLStore) GetAdminUser(ctx context.Context, id string) (*AdminUser, error) {
	return s.getAdminUser(ctx, sq.Eq{"id": id})
}

// GetAdminUserByEmail retrieves an admin user by email, case-insensitively.
func (s *SQLStore) GetAdminUserByEmail(ctx context.Context, email string) (*AdminUser, error) {
	return s.getAdminUser(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (s *SQLStore) getAdminUser(ctx context.Context, where sq.Eq) (*AdminUser, error) {
	row, err := s.queryRow(ctx, s.sb.Select(adminUserColumns...).From("admin_users").Where(where))
	if err != nil {
		return nil, err
	}

	var user AdminUser
	var createdAt, updatedAt string
	err = row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin user: %w", err)
	}

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// CountAdminUsers returns the total number of admin users.
func (s *SQLStore) CountAdminUsers(ctx context.Context) (int, error) {
	return s.count(ctx, "admin_users")
}
