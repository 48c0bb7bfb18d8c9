// ABOUTME: SQL implementation of the Store interfaces over database/sql
// ABOUTME: SQLite (modernc or mattn) or Postgres (lib/pq), queries built with squirrel

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/2389/portfolio/internal/config"
)

// timeLayout is fixed-width so text timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// postgresUniqueViolation is the SQLSTATE for unique_violation.
const postgresUniqueViolation = "23505"

// SQLStore implements Store on a relational database.
type SQLStore struct {
	db     *sql.DB
	driver string
	sb     sq.StatementBuilderType
	logger *slog.Logger
	now    func() time.Time
}

// Open connects to the configured database and applies pending migrations.
// For SQLite drivers the parent directory of the database file is created.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dsn string
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverSQLite3, "":
		if cfg.Driver == "" {
			cfg.Driver = config.DriverSQLite
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = cfg.Path
	case config.DriverPostgres:
		dsn = cfg.URL
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.Driver != config.DriverPostgres {
		// Enable WAL mode for better concurrent performance
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA foreign_keys=ON",
			"PRAGMA busy_timeout=5000",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("applying %q: %w", pragma, err)
			}
		}
	}

	s := NewWithDB(db, cfg.Driver, logger)

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.logger.Info("store initialized", "driver", cfg.Driver)
	return s, nil
}

// NewWithDB wraps an already open database without running migrations.
// The driver name selects the placeholder style.
func NewWithDB(db *sql.DB, driver string, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}

	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == config.DriverPostgres {
		placeholder = sq.Dollar
	}

	return &SQLStore{
		db:     db,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		logger: logger.With("component", "store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// exec runs a built statement.
func (s *SQLStore) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return s.db.ExecContext(ctx, query, args...)
}

// queryRow runs a built single-row query.
func (s *SQLStore) queryRow(ctx context.Context, b sq.SelectBuilder) (*sql.Row, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return s.db.QueryRowContext(ctx, query, args...), nil
}

// query runs a built multi-row query.
func (s *SQLStore) query(ctx context.Context, b sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return s.db.QueryContext(ctx, query, args...)
}

// count runs SELECT COUNT(*) on a table.
func (s *SQLStore) count(ctx context.Context, table string) (int, error) {
	row, err := s.queryRow(ctx, s.sb.Select("COUNT(*)").From(table))
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// deleteByID deletes one row, reporting ErrNotFound when nothing matched.
func (s *SQLStore) deleteByID(ctx context.Context, table, id string) error {
	result, err := s.exec(ctx, s.sb.Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return requireAffected(result)
}

// requireAffected maps a zero-row update or delete to ErrNotFound.
func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueConstraintError recognizes unique violations from every supported driver.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == postgresUniqueViolation
	}
	// SQLite returns "UNIQUE constraint failed" in the error message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// writeErr maps driver errors on insert/update to store errors.
func writeErr(op string, err error) error {
	if isUniqueConstraintError(err) {
		return ErrSlugExists
	}
	return fmt.Errorf("%s: %w", op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by hand or older tools may carry plain RFC3339.
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t, nil
}

// encodeList stores a string list as JSON text. nil becomes "[]".
func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeList reads a JSON list column, dropping blank entries. Malformed
// values decode to an empty list rather than failing the whole read.
func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// nullable maps "" to SQL NULL for optional columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// stamp fills CreatedAt/UpdatedAt for a new record.
func (s *SQLStore) stamp(created *time.Time, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
