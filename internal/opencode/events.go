package opencode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ariel-frischer/opencode-notify/internal/event"
)

const (
	// MaxSSEEventSize is the maximum total size of an SSE event's data (1MB).
	// Events exceeding this will be discarded.
	MaxSSEEventSize = 1024 * 1024

	// MaxSSELineSize is the longest line kept: one "data: " field carrying a
	// full event. Longer lines are skipped along with the rest of their event;
	// the connection stays open.
	MaxSSELineSize = MaxSSEEventSize + len("data: ")

	sseReadBufferSize = 64 * 1024
)

// Reconnect backoff bounds for Subscribe.
const (
	InitialBackoff = 500 * time.Millisecond
	MaxBackoff     = 30 * time.Second
)

// Events opens the server's event stream. The returned channel is closed when
// the connection ends or ctx is cancelled. Payloads that do not decode as an
// event are skipped.
func (c *Client) Events(ctx context.Context, logger *slog.Logger) (<-chan event.Event, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/event", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.sseClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to event stream: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	// Buffered channel improves throughput; goroutine exits via ctx.Done()
	events := make(chan event.Event, 100)
	go readEvents(ctx, resp.Body, events, logger)
	return events, nil
}

// readEvents parses SSE frames from body and forwards decoded events.
func readEvents(ctx context.Context, body io.ReadCloser, events chan<- event.Event, logger *slog.Logger) {
	defer close(events)
	defer func() { _ = body.Close() }()

	reader := bufio.NewReaderSize(body, sseReadBufferSize)

	var dataLines []string
	var eventSize int
	var oversized bool

	flush := func() bool {
		defer func() {
			dataLines = nil
			eventSize = 0
			oversized = false
		}()
		if len(dataLines) == 0 || oversized {
			return true
		}
		ev, err := event.Decode([]byte(strings.Join(dataLines, "\n")))
		if err != nil {
			logger.Debug("skipping undecodable event", "error", err)
			return true
		}
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, tooLong, err := readLine(reader, MaxSSELineSize)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logger.Warn("event stream error", "error", err)
			}
			return
		}
		if tooLong {
			if !oversized {
				logger.Warn("discarding oversized event", "limit", MaxSSEEventSize)
			}
			oversized = true
			dataLines = nil
			continue
		}

		if line == "" {
			if !flush() {
				return
			}
			continue
		}

		// Comments (lines starting with :) are ignored
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if !found || field != "data" || oversized {
			continue
		}
		value = strings.TrimPrefix(value, " ")

		newSize := eventSize + len(value)
		if eventSize > 0 {
			newSize++
		}
		if newSize > MaxSSEEventSize {
			logger.Warn("discarding oversized event", "bytes", newSize, "limit", MaxSSEEventSize)
			oversized = true
			dataLines = nil
			continue
		}
		dataLines = append(dataLines, value)
		eventSize = newSize
	}
}

// readLine reads one line without its terminator. A line longer than limit
// is consumed in full and reported as tooLong with an empty value, so memory
// stays bounded and the stream stays aligned on the next line.
func readLine(r *bufio.Reader, limit int) (line string, tooLong bool, err error) {
	var b []byte
	for {
		chunk, isPrefix, readErr := r.ReadLine()
		if readErr != nil {
			return "", false, readErr
		}
		if !tooLong {
			if len(b)+len(chunk) > limit {
				tooLong = true
				b = nil
			} else {
				b = append(b, chunk...)
			}
		}
		if !isPrefix {
			return string(b), tooLong, nil
		}
	}
}

// Subscribe delivers every event from the server to handle, reconnecting
// with capped exponential backoff whenever the stream drops. It returns when
// ctx is cancelled. onState, if non-nil, is called with true after each
// successful connect and with false each time the stream is lost.
func (c *Client) Subscribe(ctx context.Context, logger *slog.Logger, handle func(event.Event), onState func(connected bool)) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	backoff := InitialBackoff
	for {
		events, err := c.Events(ctx, logger)
		if err == nil {
			backoff = InitialBackoff
			if onState != nil {
				onState(true)
			}
			for ev := range events {
				handle(ev)
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if onState != nil {
			onState(false)
		}

		if err != nil {
			var apiErr *Error
			if errors.As(err, &apiErr) {
				logger.Warn("event stream rejected", "status", apiErr.StatusCode, "retry_in", backoff)
			} else {
				logger.Warn("event stream unavailable", "error", err, "retry_in", backoff)
			}
		} else {
			logger.Warn("event stream closed, reconnecting", "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > MaxBackoff {
		return MaxBackoff
	}
	return d
}
