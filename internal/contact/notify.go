// ABOUTME: Notifiers announcing new contact submissions to Slack, Matrix and email
// ABOUTME: MultiNotifier fans out to every configured channel and joins the errors

package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mrz1836/postmark"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"

	"github.com/2389/portfolio/internal/config"
	"github.com/2389/portfolio/internal/store"
)

// Notifier announces a stored contact submission.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, sub *store.ContactSubmission) error
}

// MultiNotifier notifies every member. One failing member does not stop the others.
type MultiNotifier []Notifier

// Name implements Notifier.
func (m MultiNotifier) Name() string {
	names := make([]string, len(m))
	for i, n := range m {
		names[i] = n.Name()
	}
	return strings.Join(names, ",")
}

// Notify implements Notifier.
func (m MultiNotifier) Notify(ctx context.Context, sub *store.ContactSubmission) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, sub); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// NotifiersFromConfig builds a notifier for each channel that is fully configured.
func NotifiersFromConfig(cfg config.ContactConfig, logger *slog.Logger) (MultiNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var out MultiNotifier
	if cfg.SlackWebhookURL != "" {
		out = append(out, NewSlackNotifier(cfg.SlackWebhookURL, nil))
	}
	if cfg.Matrix.Enabled() {
		n, err := NewMatrixNotifier(cfg.Matrix)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if cfg.Postmark.Enabled() {
		out = append(out, NewEmailNotifier(cfg.Postmark))
	}

	if len(out) == 0 {
		logger.Info("no contact notifiers configured")
	} else {
		logger.Info("contact notifiers configured", "notifiers", out.Name())
	}
	return out, nil
}

// summary is the one-message text shared by the chat notifiers.
func summary(sub *store.ContactSubmission) string {
	return fmt.Sprintf("📬 New contact submission from *%s* (%s).\nSubject: %s\nCompany: %s",
		sub.Name, sub.Email, orNA(sub.Subject), orNA(sub.Company))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	http       *http.Client
}

// NewSlackNotifier creates a Slack notifier. A nil client gets a 10s timeout.
func NewSlackNotifier(webhookURL string, hc *http.Client) *SlackNotifier {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &SlackNotifier{webhookURL: webhookURL, http: hc}
}

// Name implements Notifier.
func (s *SlackNotifier) Name() string { return "slack" }

// Notify implements Notifier.
func (s *SlackNotifier) Notify(ctx context.Context, sub *store.ContactSubmission) error {
	body, err := json.Marshal(map[string]string{"text": summary(sub)})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// MatrixNotifier sends a text message to a Matrix room.
type MatrixNotifier struct {
	client *mautrix.Client
	room   id.RoomID
}

// NewMatrixNotifier logs in with an existing access token; no sync loop is started.
func NewMatrixNotifier(cfg config.MatrixConfig) (*MatrixNotifier, error) {
	client, err := mautrix.NewClient(cfg.Homeserver, id.UserID(cfg.UserID), cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}
	return &MatrixNotifier{client: client, room: id.RoomID(cfg.RoomID)}, nil
}

// Name implements Notifier.
func (m *MatrixNotifier) Name() string { return "matrix" }

// Notify implements Notifier.
func (m *MatrixNotifier) Notify(ctx context.Context, sub *store.ContactSubmission) error {
	if _, err := m.client.SendText(ctx, m.room, summary(sub)); err != nil {
		return fmt.Errorf("sending to %s: %w", m.room, err)
	}
	return nil
}

// EmailNotifier emails the site owner through Postmark. Replies go to the sender.
type EmailNotifier struct {
	client *postmark.Client
	from   string
	to     string
}

// NewEmailNotifier creates a Postmark notifier.
func NewEmailNotifier(cfg config.PostmarkConfig) *EmailNotifier {
	return &EmailNotifier{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// Name implements Notifier.
func (e *EmailNotifier) Name() string { return "postmark" }

// Notify implements Notifier.
func (e *EmailNotifier) Notify(ctx context.Context, sub *store.ContactSubmission) error {
	subject := "New contact submission from " + sub.Name
	if sub.Subject != "" {
		subject += ": " + sub.Subject
	}

	resp, err := e.client.SendEmail(ctx, postmark.Email{
		From:     e.from,
		To:       e.to,
		ReplyTo:  sub.Email,
		Subject:  subject,
		Tag:      "contact",
		TextBody: emailBody(sub),
	})
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

func emailBody(sub *store.ContactSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	fmt.Fprintf(&b, "Company: %s\n", orNA(sub.Company))
	fmt.Fprintf(&b, "Subject: %s\n\n", orNA(sub.Subject))
	b.WriteString(sub.Message)
	b.WriteString("\n")
	return b.String()
}
