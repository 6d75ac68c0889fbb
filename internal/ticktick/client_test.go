package ticktick

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(&http.Client{}, WithBaseURL(ts.URL))
}

func TestListProjects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/project", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "p1", "name": "Work", "kind": "TASK"},
			{"id": "p2", "name": "Home", "closed": true}
		]`))
	})
	client := newTestClient(t, mux)

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, Project{ID: "p1", Name: "Work", Kind: "TASK"}, projects[0])
	assert.True(t, projects[1].Closed)
}

func TestProjectData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/project/p1/data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"project": {"id": "p1", "name": "Work"},
			"tasks": [
				{"id": "t1", "projectId": "p1", "title": "Review PR",
				 "dueDate": "2024-06-01T17:00:00.000+0000", "priority": 3, "status": 0,
				 "items": [{"title": "read diff", "status": 1}]}
			]
		}`))
	})
	client := newTestClient(t, mux)

	data, err := client.ProjectData(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Work", data.Project.Name)
	require.Len(t, data.Tasks, 1)
	assert.Equal(t, "Review PR", data.Tasks[0].Title)
	assert.Equal(t, PriorityMedium, data.Tasks[0].Priority)
	require.Len(t, data.Tasks[0].Items, 1)
	assert.True(t, data.Tasks[0].Items[0].Completed)
}

func TestUnauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorCode":"access_token_invalid"}`, http.StatusUnauthorized)
	}))

	_, err := client.ListProjects(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized), "expected ErrUnauthorized, got %v", err)
}

func TestAPIErrorCarriesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "something broke upstream", http.StatusInternalServerError)
	}))

	_, err := client.ProjectData(context.Background(), "p1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "something broke upstream")
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestRequestLogKeepsStatusEnum(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	mux.HandleFunc("/project", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	client := NewClient(&http.Client{}, WithBaseURL(ts.URL), WithLogger(logger))

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "status=success")
	assert.Contains(t, buf.String(), `http_status="200 OK"`)

	buf.Reset()
	failing := NewClient(&http.Client{}, WithLogger(logger), WithBaseURL(ts.URL+"/missing"))
	_, err = failing.ListProjects(context.Background())
	require.Error(t, err)
	assert.Contains(t, buf.String(), "status=error")
	assert.Contains(t, buf.String(), `http_status="404 Not Found"`)
}

func TestOAuthConfig(t *testing.T) {
	conf := OAuthConfig("id", "secret", "http://localhost:8080/callback")
	assert.Equal(t, AuthURL, conf.Endpoint.AuthURL)
	assert.Equal(t, TokenURL, conf.Endpoint.TokenURL)
	assert.Equal(t, []string{ScopeTasksRead}, conf.Scopes)
	assert.Equal(t, "http://localhost:8080/callback", conf.RedirectURL)
}
