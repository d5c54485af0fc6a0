// Package scheduler decides when an idle OpenCode session deserves a desktop
// notification.
//
// Each session moves through a small state machine driven by lifecycle
// events. A session.idle event arms a confirmation timer; any activity for the
// session before the timer fires cancels it (or, when the cancel loses the
// race with the firing, vetoes it through the activitySinceIdle flag). When a
// timer survives, the scheduler optionally consults the todo gate and then
// dispatches exactly one notification for that idle episode.
package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ariel-frischer/opencode-notify/internal/event"
	"github.com/ariel-frischer/opencode-notify/internal/notify"
	"github.com/ariel-frischer/opencode-notify/internal/platform"
	"github.com/ariel-frischer/opencode-notify/internal/todo"
)

// DefaultDispatchTimeout bounds a single notify + sound dispatch.
const DefaultDispatchTimeout = 5 * time.Second

// Config is the resolved, immutable configuration the scheduler runs with.
type Config struct {
	Title                 string
	Message               string
	PlaySound             bool
	SoundPath             string
	IdleConfirmationDelay time.Duration
	SkipIfIncompleteTodos bool
}

// State is a read-only copy of one session's scheduler state.
type State struct {
	Notified          bool
	Pending           bool
	ActivitySinceIdle bool
}

type sessionState struct {
	notified          bool
	timer             *pendingTimer
	activitySinceIdle bool
}

// pendingTimer identifies one armed confirmation. A firing whose token is no
// longer the session's current timer is stale and does nothing.
type pendingTimer struct {
	t Timer
}

// Scheduler owns all per-session state. It is safe for concurrent use: Handle
// may be called from the event stream goroutine while timers fire on their own.
type Scheduler struct {
	cfg      Config
	platform platform.Platform
	sink     notify.Sink
	gate     todo.Checker
	clock    Clock
	logger   *slog.Logger

	dispatchTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*sessionState
	closed   bool
	inflight sync.WaitGroup
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock (for testing).
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithPlatform overrides the detected platform.
func WithPlatform(p platform.Platform) Option {
	return func(s *Scheduler) { s.platform = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDispatchTimeout bounds each notification dispatch.
func WithDispatchTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.dispatchTimeout = d }
}

// New creates a scheduler. gate may be nil, in which case no todo gating
// happens regardless of cfg.SkipIfIncompleteTodos.
func New(cfg Config, sink notify.Sink, gate todo.Checker, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:             cfg,
		platform:        platform.Detect(),
		sink:            sink,
		gate:            gate,
		clock:           realClock{},
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		dispatchTimeout: DefaultDispatchTimeout,
		ctx:             ctx,
		cancel:          cancel,
		sessions:        make(map[string]*sessionState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Platform returns the platform notifications are dispatched for.
func (s *Scheduler) Platform() platform.Platform {
	return s.platform
}

// Handle applies one lifecycle event. Events for unknown kinds, events
// without a session identifier, and every event on an unsupported platform
// are ignored.
func (s *Scheduler) Handle(ev event.Event) {
	if !s.platform.Supported() {
		return
	}
	id, ok := ev.SessionID()
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	switch {
	case ev.IsActivity():
		st := s.state(id)
		if s.cancelTimer(st) {
			s.logger.Debug("idle timer cancelled by activity", "session", id, "event", ev.Type)
		}
		st.activitySinceIdle = true
		st.notified = false

	case ev.Type == event.SessionIdle:
		st := s.state(id)
		if st.notified || st.timer != nil {
			return
		}
		st.activitySinceIdle = false
		pt := &pendingTimer{}
		pt.t = s.clock.AfterFunc(s.cfg.IdleConfirmationDelay, func() { s.confirm(id, pt) })
		st.timer = pt
		s.logger.Debug("idle timer armed", "session", id, "delay", s.cfg.IdleConfirmationDelay)

	case ev.Type == event.SessionDeleted:
		if st, ok := s.sessions[id]; ok {
			s.cancelTimer(st)
			delete(s.sessions, id)
			s.logger.Debug("session forgotten", "session", id)
		}
	}
}

// Snapshot returns a copy of the session's state. ok is false when the
// scheduler holds no record for the session.
func (s *Scheduler) Snapshot(sessionID string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		return State{}, false
	}
	return State{
		Notified:          st.notified,
		Pending:           st.timer != nil,
		ActivitySinceIdle: st.activitySinceIdle,
	}, true
}

// Sessions returns the number of tracked sessions.
func (s *Scheduler) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops all pending timers and waits for in-flight confirmations to
// finish. Handle is a no-op afterwards.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for _, st := range s.sessions {
			s.cancelTimer(st)
		}
		s.cancel()
	}
	s.mu.Unlock()

	s.inflight.Wait()
}

// state returns the session record, creating it on first use. Caller holds mu.
func (s *Scheduler) state(id string) *sessionState {
	st, ok := s.sessions[id]
	if !ok {
		st = &sessionState{}
		s.sessions[id] = st
	}
	return st
}

// cancelTimer stops and clears the pending timer. Caller holds mu.
func (s *Scheduler) cancelTimer(st *sessionState) bool {
	if st.timer == nil {
		return false
	}
	st.timer.t.Stop()
	st.timer = nil
	return true
}

// confirm runs when an idle timer fires.
func (s *Scheduler) confirm(id string, pt *pendingTimer) {
	s.mu.Lock()
	st, ok := s.sessions[id]
	if s.closed || !ok || st.timer != pt {
		s.mu.Unlock()
		return
	}
	s.inflight.Add(1)
	defer s.inflight.Done()

	st.timer = nil
	if st.activitySinceIdle {
		st.activitySinceIdle = false
		s.mu.Unlock()
		s.logger.Debug("idle superseded by activity", "session", id)
		return
	}
	if st.notified {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if s.cfg.SkipIfIncompleteTodos && s.gate != nil {
		if s.gate.HasIncompleteWork(s.ctx, id) {
			s.logger.Info("notification skipped, session has incomplete todos", "session", id)
			return
		}
	}

	// The gate query may have taken a while; only commit if nothing happened
	// to the session in the meantime.
	s.mu.Lock()
	if s.closed || s.sessions[id] != st || st.timer != nil || st.notified {
		s.mu.Unlock()
		return
	}
	if st.activitySinceIdle {
		st.activitySinceIdle = false
		s.mu.Unlock()
		s.logger.Debug("idle superseded by activity during todo check", "session", id)
		return
	}
	st.notified = true
	s.mu.Unlock()

	s.dispatch(id)
}

// dispatch sends the notification and optional sound. Errors are logged and
// discarded; notified stays set either way.
func (s *Scheduler) dispatch(id string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.dispatchTimeout)
	defer cancel()

	if err := s.sink.Notify(ctx, s.platform, s.cfg.Title, s.cfg.Message); err != nil {
		s.logger.Warn("notification failed", "session", id, "error", err)
		return
	}
	s.logger.Info("notification sent", "session", id)

	if s.cfg.PlaySound && s.cfg.SoundPath != "" {
		s.sink.PlaySound(ctx, s.platform, s.cfg.SoundPath)
	}
}
