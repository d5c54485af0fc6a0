package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/opencode-notify/internal/config"
	"github.com/ariel-frischer/opencode-notify/internal/platform"
	"github.com/ariel-frischer/opencode-notify/internal/scheduler"
)

// fakeServer serves one event stream and a todo list per session.
func fakeServer(t *testing.T, events []string, todos map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/event", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, ev := range events {
			_, _ = fmt.Fprintf(w, "data: %s\n\n", ev)
			flusher.Flush()
		}
		<-r.Context().Done()
	})
	mux.HandleFunc("/session/", func(w http.ResponseWriter, r *http.Request) {
		for id, body := range todos {
			if r.URL.Path == "/session/"+id+"/todo" {
				_, _ = io.WriteString(w, body)
				return
			}
		}
		_, _ = io.WriteString(w, "[]")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func watchConfig(serverURL string) *config.Configuration {
	return &config.Configuration{
		Title:                 "OpenCode",
		Message:               "Agent is ready for input",
		PlaySound:             true,
		SoundPath:             "/s.oga",
		IdleConfirmationDelay: 20,
		SkipIfIncompleteTodos: true,
		ServerURL:             serverURL,
		LogLevel:              "debug",
	}
}

func runWatchFor(t *testing.T, cfg *config.Configuration, sink *recordingSink, wait func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var connected atomic.Bool
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, cfg, sink, logger, func(up bool) {
			if up {
				connected.Store(true)
			}
		}, scheduler.WithPlatform(platform.Linux))
	}()

	require.Eventually(t, connected.Load, 2*time.Second, 5*time.Millisecond)
	wait()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean exit")
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func TestWatch_NotifiesIdleSession(t *testing.T) {
	t.Parallel()
	server := fakeServer(t, []string{
		`{"type":"session.created","properties":{"info":{"id":"ses_1"}}}`,
		`{"type":"session.idle","properties":{"sessionID":"ses_1"}}`,
	}, nil)
	sink := &recordingSink{}

	runWatchFor(t, watchConfig(server.URL), sink, func() bool {
		return assert.Eventually(t, func() bool { return len(sink.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	})

	assert.Equal(t, []call{
		{kind: "notify", title: "OpenCode", body: "Agent is ready for input"},
		{kind: "sound", body: "/s.oga"},
	}, sink.snapshot())
}

func TestWatch_SkipsSessionWithOpenTodos(t *testing.T) {
	t.Parallel()
	server := fakeServer(t, []string{
		`{"type":"session.idle","properties":{"sessionID":"ses_busy"}}`,
	}, map[string]string{
		"ses_busy": `[{"id":"1","content":"write tests","status":"in_progress","priority":"high"}]`,
	})
	sink := &recordingSink{}

	runWatchFor(t, watchConfig(server.URL), sink, func() bool {
		return assert.Never(t, func() bool { return len(sink.snapshot()) > 0 }, 200*time.Millisecond, 10*time.Millisecond)
	})
}

func TestWatch_GateDisabledIgnoresTodos(t *testing.T) {
	t.Parallel()
	server := fakeServer(t, []string{
		`{"type":"session.idle","properties":{"sessionID":"ses_busy"}}`,
	}, map[string]string{
		"ses_busy": `[{"id":"1","content":"write tests","status":"pending","priority":"high"}]`,
	})
	cfg := watchConfig(server.URL)
	cfg.SkipIfIncompleteTodos = false
	cfg.PlaySound = false
	sink := &recordingSink{}

	runWatchFor(t, cfg, sink, func() bool {
		return assert.Eventually(t, func() bool { return len(sink.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	})
}
