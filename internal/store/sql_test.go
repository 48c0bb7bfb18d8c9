// ABOUTME: Driver-level tests for SQLStore using go-sqlmock
// ABOUTME: Exercises Postgres placeholders and error mapping without a live database

package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/portfolio/internal/config"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db, config.DriverPostgres, nil), mock
}

func TestSQLStore_DeleteUsesDollarPlaceholders(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services WHERE id = $1")).
		WithArgs("svc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteService(context.Background(), "svc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SQLiteUsesQuestionPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewWithDB(db, config.DriverSQLite, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services WHERE id = ?")).
		WithArgs("svc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteService(context.Background(), "svc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_DeleteNoRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM projects").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteProject(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_RowsAffectedError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM articles").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gave up")))

	err := s.DeleteArticle(context.Background(), "a1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "rows affected")
}

func TestSQLStore_PostgresUniqueViolationIsSlugExists(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO testimonials").
		WillReturnError(&pq.Error{Code: postgresUniqueViolation, Message: "duplicate key value"})

	err := s.CreateTestimonial(context.Background(), &Testimonial{Slug: "dup", Name: "A", Role: "B", Quote: "C"})
	assert.ErrorIs(t, err, ErrSlugExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_PostgresUniqueViolationOnAdminIsEmailExists(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO admin_users").
		WillReturnError(&pq.Error{Code: postgresUniqueViolation})

	err := s.CreateAdminUser(context.Background(), &AdminUser{Email: "a@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSQLStore_InsertErrorIsWrapped(t *testing.T) {
	s, mock := newMockStore(t)
	cause := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO projects").WillReturnError(cause)

	err := s.CreateProject(context.Background(), newProject("x"))
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSlugExists)
	assert.Contains(t, err.Error(), "inserting project")
}

func TestSQLStore_ListQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM projects ORDER BY created_at DESC").
		WillReturnError(errors.New("relation does not exist"))

	_, err := s.ListProjects(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying projects")
}

func TestSQLStore_GetMissingRowIsNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE slug = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err := s.GetProjectBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_CountContactSubmissions(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contact_submissions")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := s.CountContactSubmissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: projects.slug")))
	assert.True(t, isUniqueConstraintError(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueConstraintError(errors.New("disk full")))
}
