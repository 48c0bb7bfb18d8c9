// ABOUTME: Generic list/create/update/delete HTTP handlers for one content resource
// ABOUTME: Maps validation and store errors to the JSON status codes the admin UI expects

package admin

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/2389/portfolio/internal/auth"
	"github.com/2389/portfolio/internal/content"
	"github.com/2389/portfolio/internal/store"
)

// resource describes one admin-managed record type.
type resource[T any] struct {
	singular string // JSON key and audit target type, e.g. "project"
	plural   string // JSON key for lists and the URL segment, e.g. "projects"

	list   func(ctx context.Context) ([]*T, error)
	create func(ctx context.Context, rec *T) error
	update func(ctx context.Context, rec *T) error
	delete func(ctx context.Context, id string) error
	parse  func(body io.Reader) (*T, error)

	// identify returns the record's id and slug, and setID assigns the id
	// before an update.
	identify func(rec *T) (id, slug string)
	setID    func(rec *T, id string)
}

// title is the capitalized singular used in client messages.
func (res resource[T]) title() string {
	return strings.ToUpper(res.singular[:1]) + res.singular[1:]
}

func (res resource[T]) collectionPath() string {
	return "/api/admin/" + res.plural
}

func (res resource[T]) itemPath() string {
	return res.collectionPath() + "/{id}"
}

// register mounts the four routes of res on mux, each behind the guard.
func register[T any](h *Handler, mux *http.ServeMux, res resource[T]) {
	mux.HandleFunc("GET "+res.collectionPath(), h.guard.Require(listHandler(h, res)))
	mux.HandleFunc("POST "+res.collectionPath(), h.guard.Require(createHandler(h, res)))
	mux.HandleFunc("PUT "+res.itemPath(), h.guard.Require(updateHandler(h, res)))
	mux.HandleFunc("DELETE "+res.itemPath(), h.guard.Require(deleteHandler(h, res)))
}

func listHandler[T any](h *Handler, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := res.list(r.Context())
		if err != nil {
			h.logger.Error("failed to list "+res.plural, "error", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to load "+res.plural)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{res.plural: records})
	}
}

func createHandler[T any](h *Handler, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := res.parse(r.Body)
		if err != nil {
			h.rejectInput(w, res.singular, err)
			return
		}

		if err := res.create(r.Context(), rec); err != nil {
			if errors.Is(err, store.ErrSlugExists) {
				writeMessage(w, http.StatusConflict, "A "+res.singular+" with this slug already exists")
				return
			}
			h.logger.Error("failed to create "+res.singular, "error", err)
			writeMessage(w, http.StatusInternalServerError, "Failed to create "+res.singular)
			return
		}

		id, slug := res.identify(rec)
		h.audit(r, store.AuditCreate, res.singular, id, slug)
		writeJSON(w, http.StatusCreated, map[string]any{res.singular: rec})
	}
}

func updateHandler[T any](h *Handler, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeMessage(w, http.StatusBadRequest, res.title()+" id missing")
			return
		}

		rec, err := res.parse(r.Body)
		if err != nil {
			h.rejectInput(w, res.singular, err)
			return
		}
		res.setID(rec, id)

		if err := res.update(r.Context(), rec); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				writeMessage(w, http.StatusNotFound, res.title()+" not found")
			case errors.Is(err, store.ErrSlugExists):
				writeMessage(w, http.StatusConflict, "A "+res.singular+" with this slug already exists")
			default:
				h.logger.Error("failed to update "+res.singular, "error", err, "id", id)
				writeMessage(w, http.StatusInternalServerError, "Failed to update "+res.singular)
			}
			return
		}

		_, slug := res.identify(rec)
		h.audit(r, store.AuditUpdate, res.singular, id, slug)
		writeJSON(w, http.StatusOK, map[string]any{res.singular: rec})
	}
}

func deleteHandler[T any](h *Handler, res resource[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeMessage(w, http.StatusBadRequest, res.title()+" id missing")
			return
		}

		if err := res.delete(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeMessage(w, http.StatusNotFound, res.title()+" not found")
				return
			}
			h.logger.Error("failed to delete "+res.singular, "error", err, "id", id)
			writeMessage(w, http.StatusInternalServerError, "Failed to delete "+res.singular)
			return
		}

		h.audit(r, store.AuditDelete, res.singular, id, "")
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// rejectInput answers a body that failed to decode or validate. Field detail
// is logged, never returned.
func (h *Handler) rejectInput(w http.ResponseWriter, singular string, err error) {
	if !content.IsInvalid(err) {
		h.logger.Error("failed to read "+singular+" payload", "error", err)
	} else {
		h.logger.Debug("rejected "+singular+" payload", "error", err)
	}
	writeMessage(w, http.StatusBadRequest, "Invalid "+singular+" data")
}

// audit records a mutation made by the signed-in admin. Failures are logged
// and never fail the request.
func (h *Handler) audit(r *http.Request, action store.AuditAction, targetType, targetID, slug string) {
	actor := ""
	if id := auth.IdentityFromContext(r.Context()); id != nil {
		actor = id.Subject
	}

	h.logger.Info("admin content change",
		"action", action,
		"target", targetType+"/"+targetID,
		"actor", actor,
	)

	entry := &store.AuditEntry{
		ActorID:    actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if slug != "" {
		entry.Detail = map[string]any{"slug": slug}
	}
	if err := h.store.AppendAuditLog(r.Context(), entry); err != nil {
		h.logger.Warn("failed to append audit log", "error", err, "target", targetType+"/"+targetID)
	}
}
