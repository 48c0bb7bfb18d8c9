// ABOUTME: Public contact form endpoint: validate, store, then notify
// ABOUTME: Notification failures are logged and never change the response

package contact

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/portfolio/internal/content"
	"github.com/2389/portfolio/internal/dedupe"
	"github.com/2389/portfolio/internal/store"
)

// NotifyTimeout bounds the time spent announcing one submission.
const NotifyTimeout = 10 * time.Second

// Identical submissions inside ResubmitWindow are acknowledged but neither
// stored nor announced again.
const (
	ResubmitWindow = 10 * time.Minute
	resubmitMax    = 1024
)

// Handler serves /api/contact.
type Handler struct {
	store    store.ContactStore
	notifier Notifier
	recent   *dedupe.Window
	logger   *slog.Logger
}

// New creates the contact handler. notifier may be nil.
func New(s store.ContactStore, notifier Notifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    s,
		notifier: notifier,
		recent:   dedupe.New(ResubmitWindow, resubmitMax),
		logger:   logger.With("component", "contact"),
	}
}

// RegisterRoutes mounts POST /api/contact and the JSON 405 for GET.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/contact", h.handleSubmit)
	mux.HandleFunc("GET /api/contact", h.handleMethodNotAllowed)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var in content.ContactInput
	if err := content.Decode(r.Body, &in); err != nil {
		var ve *content.ValidationError
		issues := map[string]string{"body": "Invalid JSON"}
		if errors.As(err, &ve) {
			issues = ve.Fields
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"issues":  issues,
		})
		return
	}

	key := dedupe.Key(in.Email, in.Message)
	if h.recent.Contains(key) {
		h.logger.Info("duplicate contact submission ignored")
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Thanks for reaching out!"})
		return
	}

	// The key is recorded only once the row exists, so a 201 always means a
	// stored message. Two identical requests racing here may both be stored.
	sub := in.Submission()
	if err := h.store.CreateContactSubmission(r.Context(), sub); err != nil {
		h.logger.Error("failed to store contact submission", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong"})
		return
	}
	h.recent.Add(key)
	h.logger.Info("contact submission received", "id", sub.ID)

	h.notify(r.Context(), sub)

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Thanks for reaching out!"})
}

// notify runs the notifiers detached from the client so a dropped connection
// does not cut the announcement short.
func (h *Handler) notify(ctx context.Context, sub *store.ContactSubmission) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
	defer cancel()

	if err := h.notifier.Notify(ctx, sub); err != nil {
		h.logger.Warn("contact notification failed", "id", sub.ID, "error", err)
	}
}

func (h *Handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
