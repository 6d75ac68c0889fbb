package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/ticktoday/internal/logging"
)

// DefaultTimeout is how long the flow waits for the user to authorize
// in the browser before giving up
const DefaultTimeout = 5 * time.Minute

// Flow drives a single OAuth2 authorization-code flow: build the
// authorization URL, capture the redirect with a local callback
// server, and exchange the code for an access token.
type Flow struct {
	conf    *oauth2.Config
	timeout time.Duration
	logger  *slog.Logger
	openURL func(string) error
	out     io.Writer
}

// FlowOption configures a Flow
type FlowOption func(*Flow)

// WithTimeout bounds the wait for the authorization callback
func WithTimeout(timeout time.Duration) FlowOption {
	return func(f *Flow) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithLogger sets the flow's logger
func WithLogger(logger *slog.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = logger
	}
}

// WithOutput sets where user-facing instructions (the authorization
// URL) are written. Defaults to stdout.
func WithOutput(w io.Writer) FlowOption {
	return func(f *Flow) {
		f.out = w
	}
}

// withOpenURL overrides how the browser is launched. Used by tests.
func withOpenURL(open func(string) error) FlowOption {
	return func(f *Flow) {
		f.openURL = open
	}
}

// NewFlow creates a Flow for the given provider configuration
func NewFlow(conf *oauth2.Config, opts ...FlowOption) *Flow {
	f := &Flow{
		conf:    conf,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		openURL: openBrowser,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.WithService(f.logger, "auth")
	return f
}

// Authorize runs the flow once and returns the access token. The flow
// is single-shot: a Failed outcome tears down the callback listener
// and the whole flow has to be restarted to try again.
func (f *Flow) Authorize(ctx context.Context) (*oauth2.Token, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	srv, err := startCallbackServer(f.conf.RedirectURL, state)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}
	defer srv.Close()

	// When the redirect URI asked for an ephemeral port, rebuild it
	// around the port we actually got. The provider-registered URI must
	// use a fixed port for the redirect to come back here.
	conf := *f.conf
	conf.RedirectURL, err = resolveRedirect(f.conf.RedirectURL, srv.Addr())
	if err != nil {
		return nil, err
	}

	authURL := conf.AuthCodeURL(state)
	f.logger.Debug("awaiting authorization",
		logging.Stage("awaiting_user_authorization"),
		"redirect_uri", conf.RedirectURL)

	fmt.Fprintln(f.out, "Please visit this URL to authorize the application:")
	fmt.Fprintln(f.out, authURL)
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Waiting for the authorization callback... (a browser window should open, or copy the URL above)")

	if err := f.openURL(authURL); err != nil {
		// Non-fatal: the URL is printed for manual use
		f.logger.Debug("could not open browser", logging.Err(err))
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	code, err := srv.Await(waitCtx)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("authorization code received",
		logging.Stage("exchanging_code"))

	// TickTick additionally wants the scope repeated on the token
	// exchange; client credentials go into the Basic auth header per
	// the endpoint's AuthStyle
	tok, err := conf.Exchange(ctx, code,
		oauth2.SetAuthURLParam("scope", strings.Join(conf.Scopes, " ")))
	if err != nil {
		return nil, &ExchangeError{Err: err}
	}

	f.logger.Debug("authenticated",
		logging.Stage("authenticated"),
		"token", logging.SanitizeToken(tok.AccessToken))
	return tok, nil
}

// resolveRedirect substitutes the actually bound address into the
// redirect URI. With a fixed port this is the identity.
func resolveRedirect(redirectURI, addr string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}
	if u.Port() == "0" {
		u.Host = addr
	}
	return u.String(), nil
}

// generateState generates a random state parameter for CSRF protection
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
