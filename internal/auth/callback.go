package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>TickTick Authorization</title></head>
<body>
<h1>Authorization successful</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>
`

const failurePage = `<!DOCTYPE html>
<html>
<head><title>TickTick Authorization</title></head>
<body>
<h1>Authorization failed</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>
`

type callbackResult struct {
	code string
	err  error
}

// callbackServer is a transient HTTP server that captures exactly one
// authorization callback. The first matching request wins; any further
// requests are answered but have no effect on the captured result.
type callbackServer struct {
	state string
	path  string

	result    chan callbackResult
	once      sync.Once
	closeOnce sync.Once

	srv  *http.Server
	ln   net.Listener
	addr string
}

// startCallbackServer binds a listener to the host and port of the
// redirect URI and starts serving its path. The server must exactly
// match the redirect URI registered with the provider.
func startCallbackServer(redirectURI, state string) (*callbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect URI %q must use http for a local callback", redirectURI)
	}

	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "80")
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", host, err)
	}

	s := &callbackServer{
		state:  state,
		path:   path,
		result: make(chan callbackResult, 1),
		ln:     ln,
		addr:   ln.Addr().String(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleCallback)
	s.srv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Serve returns ErrServerClosed on Close; anything else only
		// matters if it races an in-flight callback, which the result
		// channel already guards against
		_ = s.srv.Serve(ln)
	}()

	return s, nil
}

// handleCallback processes a single redirect from the authorization
// page. Requests without a code or error parameter (favicon probes and
// the like) are ignored.
func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("error") != "":
		s.resolve(callbackResult{err: &DeniedError{Reason: q.Get("error")}})
		writePage(w, failurePage)
	case q.Get("code") == "":
		http.NotFound(w, r)
	case q.Get("state") != s.state:
		// A wrong state is treated like a denial: the redirect did not
		// originate from the authorization URL this process built
		s.resolve(callbackResult{err: &DeniedError{Reason: "state parameter mismatch"}})
		writePage(w, failurePage)
	default:
		s.resolve(callbackResult{code: q.Get("code")})
		writePage(w, successPage)
	}
}

// resolve records the outcome of the flow. Only the first call wins.
func (s *callbackServer) resolve(res callbackResult) {
	s.once.Do(func() {
		s.result <- res
	})
}

// Await blocks until a callback resolves or ctx expires. The listener
// is shut down and the port released before Await returns, on every
// path. Await must only be called once per server.
func (s *callbackServer) Await(ctx context.Context) (string, error) {
	defer s.Close()

	select {
	case res := <-s.result:
		return res.code, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", ctx.Err()
	}
}

// Close stops the server and releases the bound port. Safe to call
// more than once.
func (s *callbackServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.srv.Close()
	})
}

// Addr returns the address the listener is actually bound to. When the
// redirect URI uses port 0 this is where the ephemeral port shows up.
func (s *callbackServer) Addr() string {
	return s.addr
}

// writePage sends a minimal human-readable page to the browser. The
// response is best-effort; a failed write must not affect the captured
// result.
func writePage(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, page)
}
