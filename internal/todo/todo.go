// Package todo decides whether a session still has unfinished work.
package todo

import (
	"context"
	"io"
	"log/slog"
)

// Statuses that count as finished. Anything else (pending, in_progress, ...)
// is outstanding work.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Item is a single entry of a session's todo list.
type Item struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// Done reports whether the item is completed or cancelled.
func (i Item) Done() bool {
	return i.Status == StatusCompleted || i.Status == StatusCancelled
}

// Source fetches the todo list of a session.
type Source interface {
	Todos(ctx context.Context, sessionID string) ([]Item, error)
}

// Checker reports whether a session has incomplete work.
type Checker interface {
	HasIncompleteWork(ctx context.Context, sessionID string) bool
}

// Gate implements Checker over a Source. It fails open: any retrieval error
// is reported as "no incomplete work".
type Gate struct {
	source Source
	logger *slog.Logger
}

// NewGate creates a gate backed by source.
func NewGate(source Source, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gate{source: source, logger: logger}
}

// HasIncompleteWork returns true iff at least one todo is neither completed
// nor cancelled.
func (g *Gate) HasIncompleteWork(ctx context.Context, sessionID string) bool {
	items, err := g.source.Todos(ctx, sessionID)
	if err != nil {
		g.logger.Debug("todo lookup failed, assuming no incomplete work",
			"session", sessionID, "error", err)
		return false
	}
	return Incomplete(items) > 0
}

// Incomplete counts the items that are not done.
func Incomplete(items []Item) int {
	n := 0
	for _, item := range items {
		if !item.Done() {
			n++
		}
	}
	return n
}
