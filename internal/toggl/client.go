// Package toggl is a minimal read-only client for the Toggl Track API v9.
package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tiliavir/toggl-tally/internal/model"
)

const (
	// DefaultBaseURL is the public Toggl Track API v9 root.
	DefaultBaseURL = "https://api.track.toggl.com/api/v9"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string
	// Token is the user's API token.
	Token   string
	Timeout time.Duration
}

// Client is an authenticated Toggl Track API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client. A missing token is reported as a
// *model.ConfigError before any request is made.
func NewClient(ctx context.Context, opts Options, logger *slog.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	hc, err := httpClient(ctx, opts.Token, opts.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: hc,
		log:        logger.With("component", "toggl"),
	}, nil
}

// TimeEntries fetches the user's time entries started within [from, to].
func (c *Client) TimeEntries(ctx context.Context, from, to time.Time) ([]model.TimeEntry, error) {
	params := url.Values{}
	params.Set("start_date", from.Format(time.RFC3339))
	params.Set("end_date", to.Format(time.RFC3339))

	var entries []model.TimeEntry
	if err := c.get(ctx, "/me/time_entries", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CurrentTimeEntry returns the running entry, or nil when nothing runs.
func (c *Client) CurrentTimeEntry(ctx context.Context) (*model.TimeEntry, error) {
	var entry *model.TimeEntry
	if err := c.get(ctx, "/me/time_entries/current", nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Workspaces lists the workspaces the user belongs to.
func (c *Client) Workspaces(ctx context.Context) ([]model.Workspace, error) {
	var ws []model.Workspace
	if err := c.get(ctx, "/me/workspaces", nil, &ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Clients lists the clients visible to the user.
func (c *Client) Clients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := c.get(ctx, "/me/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Projects lists the projects visible to the user.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "/me/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Catalog fetches workspaces, clients and projects in turn.
func (c *Client) Catalog(ctx context.Context) (model.Catalog, error) {
	var cat model.Catalog
	var err error
	if cat.Workspaces, err = c.Workspaces(ctx); err != nil {
		return model.Catalog{}, err
	}
	if cat.Clients, err = c.Clients(ctx); err != nil {
		return model.Catalog{}, err
	}
	if cat.Projects, err = c.Projects(ctx); err != nil {
		return model.Catalog{}, err
	}
	return cat, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("toggl API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	c.log.DebugContext(ctx, "toggl request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Body:       string(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding toggl response for %s: %w", path, err)
	}
	return nil
}
