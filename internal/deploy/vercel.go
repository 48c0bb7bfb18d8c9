// ABOUTME: Read-only client for the latest deployment of a Vercel project
// ABOUTME: Builds the REST URL from a URI template and maps the first deployment

package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yosida95/uritemplate/v3"

	"github.com/2389/portfolio/internal/config"
)

// DefaultTimeout bounds a single call to the Vercel API.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotConfigured is returned when no token or project is configured.
	ErrNotConfigured = errors.New("vercel integration not configured")

	// ErrNoDeployments is returned when the project has never been deployed.
	ErrNoDeployments = errors.New("no deployments found")
)

var deploymentsTemplate = uritemplate.MustNew("{+base}/v6/deployments{?limit,projectId,project,teamId}")

// Git describes the commit a deployment was built from.
type Git struct {
	CommitSHA     string `json:"commitSha,omitempty"`
	CommitMessage string `json:"commitMessage,omitempty"`
	Branch        string `json:"branch,omitempty"`
	RepoURL       string `json:"repoUrl,omitempty"`
	AuthorName    string `json:"authorName,omitempty"`
	AuthorAvatar  string `json:"authorAvatar,omitempty"`
}

// Creator is the Vercel account that triggered the deployment.
type Creator struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Deployment is the summary shown on the admin dashboard.
type Deployment struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	InspectorURL  *string   `json:"inspectorUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	State         string    `json:"state"`
	Target        string    `json:"target,omitempty"`
	Domains       []string  `json:"domains"`
	Creator       *Creator  `json:"creator,omitempty"`
	Git           Git       `json:"git"`
	ScreenshotURL string    `json:"screenshotUrl,omitempty"`
}

// Ready reports whether the deployment finished successfully.
func (d *Deployment) Ready() bool {
	return d.State == "READY"
}

// apiDeployment mirrors the fields read from GET /v6/deployments.
type apiDeployment struct {
	UID          string            `json:"uid"`
	ID           string            `json:"id"`
	URL          string            `json:"url"`
	State        string            `json:"state"`
	ReadyState   string            `json:"readyState"`
	CreatedAt    int64             `json:"createdAt"`
	Target       string            `json:"target"`
	InspectorURL string            `json:"inspectorUrl"`
	Meta         map[string]string `json:"meta"`
	Domains      []struct {
		Name string `json:"name"`
	} `json:"domains"`
	Creator   *Creator `json:"creator"`
	GitSource *struct {
		Ref           string `json:"ref"`
		RemoteURL     string `json:"remoteUrl"`
		CommitSHA     string `json:"commitSha"`
		CommitMessage string `json:"commitMessage"`
		Author        *struct {
			Name   string `json:"name"`
			Login  string `json:"login"`
			Avatar string `json:"avatar"`
		} `json:"author"`
	} `json:"gitSource"`
}

type apiResponse struct {
	Deployments []apiDeployment `json:"deployments"`
}

// Client fetches deployment data from the Vercel REST API.
type Client struct {
	cfg    config.VercelConfig
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client. An empty BaseURL uses the public API.
func NewClient(cfg config.VercelConfig, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultVercelAPI
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: DefaultTimeout},
		logger: logger.With("component", "vercel"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a token and a project id or name are set.
func (c *Client) Configured() bool {
	return c.cfg.Token != "" && (c.cfg.ProjectID != "" || c.cfg.ProjectName != "")
}

// endpoint builds the deployments URL. The project id wins over the name.
func (c *Client) endpoint() (string, error) {
	values := uritemplate.Values{}
	values.Set("base", uritemplate.String(c.cfg.BaseURL))
	values.Set("limit", uritemplate.String("1"))
	if c.cfg.ProjectID != "" {
		values.Set("projectId", uritemplate.String(c.cfg.ProjectID))
	} else {
		values.Set("project", uritemplate.String(c.cfg.ProjectName))
	}
	if c.cfg.TeamID != "" {
		values.Set("teamId", uritemplate.String(c.cfg.TeamID))
	}
	return deploymentsTemplate.Expand(values)
}

// Latest returns the most recent deployment of the configured project.
func (c *Client) Latest(ctx context.Context) (*Deployment, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint, err := c.endpoint()
	if err != nil {
		return nil, fmt.Errorf("building deployments URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching deployments: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("vercel returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding deployments: %w", err)
	}
	if len(data.Deployments) == 0 {
		return nil, ErrNoDeployments
	}
	return toDeployment(data.Deployments[0]), nil
}

func toDeployment(d apiDeployment) *Deployment {
	id := firstNonEmpty(d.ID, d.UID)
	out := &Deployment{
		ID:            id,
		URL:           "https://" + d.URL,
		CreatedAt:     time.UnixMilli(d.CreatedAt).UTC(),
		State:         firstNonEmpty(d.State, d.ReadyState),
		Target:        d.Target,
		Domains:       make([]string, 0, len(d.Domains)),
		Creator:       d.Creator,
		ScreenshotURL: "https://vercel.com/api/www/screenshot?deploymentId=" + id,
	}
	if d.InspectorURL != "" {
		inspector := d.InspectorURL
		out.InspectorURL = &inspector
	}
	for _, domain := range d.Domains {
		out.Domains = append(out.Domains, domain.Name)
	}

	meta := d.Meta
	var git Git
	if src := d.GitSource; src != nil {
		git = Git{
			CommitSHA:     src.CommitSHA,
			CommitMessage: src.CommitMessage,
			Branch:        src.Ref,
			RepoURL:       src.RemoteURL,
		}
		if src.Author != nil {
			git.AuthorName = src.Author.Name
			git.AuthorAvatar = src.Author.Avatar
		}
	}
	// Fall back to the provider metadata Vercel attaches to git deployments.
	git.CommitSHA = firstNonEmpty(git.CommitSHA, meta["githubCommitSha"], meta["gitlabCommitSha"])
	git.CommitMessage = firstNonEmpty(git.CommitMessage, meta["githubCommitMessage"])
	git.Branch = firstNonEmpty(git.Branch, meta["githubBranch"], meta["gitlabBranch"])
	git.RepoURL = firstNonEmpty(git.RepoURL, meta["githubRepo"], meta["gitlabRepo"])
	git.AuthorName = firstNonEmpty(git.AuthorName, meta["githubCommitAuthorName"])
	git.AuthorAvatar = firstNonEmpty(git.AuthorAvatar, meta["githubCommitAuthorAvatar"])
	out.Git = git

	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
