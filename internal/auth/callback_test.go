package auth

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestCallback(t *testing.T, state string) *callbackServer {
	t.Helper()
	s, err := startCallbackServer("http://127.0.0.1:0/callback", state)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestCallbackCapturesCode(t *testing.T) {
	s := startTestCallback(t, "good-state")

	status, body := get(t, "http://"+s.Addr()+"/callback?code=the-code&state=good-state")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "successful")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	code, err := s.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "the-code", code)
}

func TestCallbackStateMismatchIsDenied(t *testing.T) {
	s := startTestCallback(t, "good-state")

	// A valid code must not rescue a callback with the wrong state
	status, body := get(t, "http://"+s.Addr()+"/callback?code=the-code&state=evil-state")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "failed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.Await(ctx)

	var denied *DeniedError
	require.True(t, errors.As(err, &denied), "expected DeniedError, got %v", err)
	assert.Contains(t, denied.Reason, "state")
}

func TestCallbackErrorParameter(t *testing.T) {
	s := startTestCallback(t, "good-state")

	get(t, "http://"+s.Addr()+"/callback?error=access_denied&state=good-state")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.Await(ctx)

	var denied *DeniedError
	require.True(t, errors.As(err, &denied), "expected DeniedError, got %v", err)
	assert.Equal(t, "access_denied", denied.Reason)
}

func TestCallbackIgnoresUnrelatedRequests(t *testing.T) {
	s := startTestCallback(t, "good-state")

	status, _ := get(t, "http://"+s.Addr()+"/favicon.ico")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = get(t, "http://"+s.Addr()+"/callback")
	assert.Equal(t, http.StatusNotFound, status)

	// Neither request may have resolved the listener
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := s.Await(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestCallbackFirstResolutionWins(t *testing.T) {
	s := startTestCallback(t, "good-state")

	get(t, "http://"+s.Addr()+"/callback?code=first&state=good-state")
	get(t, "http://"+s.Addr()+"/callback?code=second&state=good-state")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	code, err := s.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestCallbackReleasesPort(t *testing.T) {
	s := startTestCallback(t, "good-state")
	addr := s.Addr()

	get(t, "http://"+addr+"/callback?code=c&state=good-state")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.Await(ctx)
	require.NoError(t, err)

	// Await closed the server on its way out; the port must be free
	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err, "port was not released")
	_ = ln.Close()
}

func TestCallbackTimeoutReleasesPort(t *testing.T) {
	s := startTestCallback(t, "good-state")
	addr := s.Addr()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Await(ctx)
	assert.ErrorIs(t, err, ErrTimeout)

	ln, err := net.Listen("tcp", addr)
	require.NoError(t, err, "port was not released after timeout")
	_ = ln.Close()
}

func TestCallbackRejectsNonHTTPRedirect(t *testing.T) {
	_, err := startCallbackServer("https://example.com/callback", "s")
	assert.Error(t, err)
}

func TestCallbackCanceledContext(t *testing.T) {
	s := startTestCallback(t, "good-state")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveRedirectKeepsFixedPort(t *testing.T) {
	got, err := resolveRedirect("http://localhost:8080/callback", "127.0.0.1:43210")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/callback", got)
}

func TestResolveRedirectSubstitutesEphemeralPort(t *testing.T) {
	got, err := resolveRedirect("http://127.0.0.1:0/callback", "127.0.0.1:43210")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:43210", u.Host)
	assert.Equal(t, "/callback", u.Path)
}
