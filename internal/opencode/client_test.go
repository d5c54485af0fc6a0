package opencode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariel-frischer/opencode-notify/internal/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Todos(t *testing.T) {
	t.Parallel()
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"1","content":"write tests","status":"completed","priority":"high"},
			{"id":"2","content":"ship it","status":"pending","priority":"medium"}
		]`))
	}))
	defer server.Close()

	c := New(server.URL + "/")
	items, err := c.Todos(context.Background(), "ses_abc")
	require.NoError(t, err)

	assert.Equal(t, "/session/ses_abc/todo", gotPath)
	require.Len(t, items, 2)
	assert.Equal(t, todo.Item{ID: "2", Content: "ship it", Status: "pending", Priority: "medium"}, items[1])
}

func TestClient_TodosErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		status     int
		body       string
		wantStatus int
	}{
		"not found": {
			status:     http.StatusNotFound,
			body:       `{"error":"session not found"}`,
			wantStatus: http.StatusNotFound,
		},
		"server error": {
			status:     http.StatusInternalServerError,
			body:       "boom",
			wantStatus: http.StatusInternalServerError,
		},
		"malformed body": {
			status: http.StatusOK,
			body:   `{"not":"a list"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL).Todos(context.Background(), "ses_1")
			require.Error(t, err)

			var apiErr *Error
			if tt.wantStatus != 0 {
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Contains(t, apiErr.Error(), tt.body)
			} else {
				assert.False(t, errors.As(err, &apiErr))
			}
		})
	}
}

func TestClient_TodosFeedsGate(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1","status":"in_progress"}]`))
	}))
	defer server.Close()

	gate := todo.NewGate(New(server.URL), nil)
	assert.True(t, gate.HasIncompleteWork(context.Background(), "ses_1"))

	server.Close()
	assert.False(t, gate.HasIncompleteWork(context.Background(), "ses_1"), "unreachable server fails open")
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/config", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ok.Close()
	require.NoError(t, New(ok.URL).Ping(context.Background()))

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer bad.Close()
	err := New(bad.URL).Ping(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
