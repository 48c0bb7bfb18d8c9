// Package store provides persistent storage for the portfolio.
//
// # Architecture
//
// The store package uses small interfaces composed into Store:
//
//   - ContentStore: Projects, articles, services and testimonials
//   - ContactStore: Contact form submissions
//   - AdminStore: Admin accounts (email + bcrypt hash)
//   - AuditStore: Who changed which record
//
// SQLStore implements all of them on database/sql. Three drivers are
// supported:
//
//   - sqlite: modernc.org/sqlite, pure Go (default)
//   - sqlite3: github.com/mattn/go-sqlite3, requires cgo
//   - postgres: github.com/lib/pq
//
// Queries are built with squirrel so the same code emits ? or $N placeholders
// depending on the driver.
//
// # Migrations
//
// The schema lives in migrations/*.sql, embedded in the binary and applied
// by golang-migrate when the store opens. The SQL is portable across all
// three drivers.
//
// # Storage Conventions
//
//   - Timestamps are UTC text in a fixed-width layout, so ORDER BY on the
//     column is chronological
//   - String lists (stack, bullets, ...) are JSON arrays in TEXT columns
//   - Optional strings are NULL when empty
//   - IDs are UUID v4
//
// # Errors
//
//   - ErrNotFound: no record with that id or slug
//   - ErrSlugExists: the slug is taken by another record
//   - ErrAdminUserNotFound: no admin with that id or email
//   - ErrEmailExists: an admin with that email already exists
package store
