package ticktick

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/ticktoday/internal/logging"
)

const (
	// DefaultBaseURL is the TickTick Open API base URL
	DefaultBaseURL = "https://api.ticktick.com/open/v1"

	// AuthURL and TokenURL are the TickTick OAuth2 endpoints
	AuthURL  = "https://ticktick.com/oauth/authorize"
	TokenURL = "https://ticktick.com/oauth/token"

	// ScopeTasksRead grants read access to the user's tasks
	ScopeTasksRead = "tasks:read"
)

// ErrUnauthorized indicates the access token was rejected by the API.
// The token is either expired or invalid; there is no refresh handling,
// so the user has to authorize again.
var ErrUnauthorized = errors.New("access token rejected by TickTick")

// APIError is returned for non-2xx API responses. It carries the
// provider-reported body so failures can be diagnosed without guessing.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ticktick API error: status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps authentication failures onto ErrUnauthorized so callers
// can match them with errors.Is
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// OAuthConfig returns the oauth2 configuration for the TickTick
// provider. Client credentials are sent as Basic auth on the token
// exchange, which is what TickTick expects.
func OAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{ScopeTasksRead},
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// NewBearerClient returns an HTTP client that presents a pre-existing
// access token on every request, for invocations where the token was
// supplied via the environment or the config file
func NewBearerClient(ctx context.Context, accessToken string) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// Client wraps the TickTick Open API
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger used for request-level debug logging
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a TickTick API client. The HTTP client is expected
// to carry authentication, either an oauth2 client from a completed
// authorization flow or a NewBearerClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithService(c.logger, "ticktick")
	return c
}

// ListProjects lists all projects of the authenticated user
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var wire []projectJSON
	if err := c.get(ctx, "/project", &wire); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]Project, len(wire))
	for i, p := range wire {
		projects[i] = toProject(p)
	}
	return projects, nil
}

// ProjectData fetches a project together with its uncompleted tasks
func (c *Client) ProjectData(ctx context.Context, projectID string) (*ProjectData, error) {
	var wire projectDataJSON
	if err := c.get(ctx, "/project/"+projectID+"/data", &wire); err != nil {
		return nil, fmt.Errorf("failed to get data for project %s: %w", projectID, err)
	}

	data := &ProjectData{
		Project: toProject(wire.Project),
		Tasks:   make([]Task, len(wire.Tasks)),
	}
	for i, t := range wire.Tasks {
		data.Tasks[i] = toTask(t)
	}
	return data, nil
}

// get performs a GET request against the API and decodes the JSON
// response into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	status := logging.StatusSuccess
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status = logging.StatusError
	}
	c.logger.Debug("API request",
		logging.Operation("GET "+path),
		logging.Status(status),
		logging.HTTPStatus(resp.Status),
		logging.Duration(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
