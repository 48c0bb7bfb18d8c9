// ABOUTME: Audit log entity and store methods for tracking admin content changes
// ABOUTME: Records which admin created, updated or deleted which record

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// AuditAction represents an auditable action.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditLogin  AuditAction = "login"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID         string         // UUID v4
	ActorID    string         // admin subject who performed the action
	Action     AuditAction    // what action was performed
	TargetType string         // "project", "article", "service", "testimonial", "session"
	TargetID   string         // ID of the affected record
	Timestamp  time.Time      // when it happened
	Detail     map[string]any // additional context, e.g. slug
}

// AuditFilter specifies filtering options for listing audit entries.
type AuditFilter struct {
	ActorID    string
	Action     AuditAction
	TargetType string
	TargetID   string
	Limit      int // max results (default 100, max 1000)
}

// AuditStore persists the admin audit trail.
type AuditStore interface {
	AppendAuditLog(ctx context.Context, e *AuditEntry) error
	ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error)
}

var auditColumns = []string{"audit_id", "actor_id", "action", "target_type", "target_id", "ts", "detail_json"}

// AppendAuditLog appends a new entry to the audit log.
// Generates ID and Timestamp if not set.
func (s *SQLStore) AppendAuditLog(ctx context.Context, e *AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}

	var detailJSON sql.NullString
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling audit detail: %w", err)
		}
		detailJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.exec(ctx, s.sb.Insert("audit_log").Columns(auditColumns...).Values(
		e.ID, e.ActorID, string(e.Action), e.TargetType, e.TargetID, formatTime(e.Timestamp), detailJSON,
	))
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	s.logger.Debug("appended audit log",
		"id", e.ID,
		"actor", e.ActorID,
		"action", e.Action,
		"target", e.TargetType+"/"+e.TargetID,
	)
	return nil
}

// normalizeAuditLimit applies default (100) and cap (1000) to audit limit.
func normalizeAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// ListAuditLog returns audit entries matching the filter criteria, newest first.
func (s *SQLStore) ListAuditLog(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	q := s.sb.Select(auditColumns...).From("audit_log")
	if f.ActorID != "" {
		q = q.Where(sq.Eq{"actor_id": f.ActorID})
	}
	if f.Action != "" {
		q = q.Where(sq.Eq{"action": string(f.Action)})
	}
	if f.TargetType != "" {
		q = q.Where(sq.Eq{"target_type": f.TargetType})
	}
	if f.TargetID != "" {
		q = q.Where(sq.Eq{"target_id": f.TargetID})
	}
	q = q.OrderBy("ts DESC").Limit(uint64(normalizeAuditLimit(f.Limit)))

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var action, ts string
		var detailJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorID, &action, &e.TargetType, &e.TargetID, &ts, &detailJSON); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Action = AuditAction(action)
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		if detailJSON.Valid {
			if err := json.Unmarshal([]byte(detailJSON.String), &e.Detail); err != nil {
				return nil, fmt.Errorf("unmarshaling detail: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
