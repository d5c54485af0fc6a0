// Package event models the OpenCode lifecycle events consumed by the scheduler.
package event

import (
	"encoding/json"
	"fmt"
)

// Kind is the event type string as published on the OpenCode bus.
type Kind string

const (
	SessionCreated Kind = "session.created"
	SessionUpdated Kind = "session.updated"
	SessionIdle    Kind = "session.idle"
	SessionDeleted Kind = "session.deleted"
	MessageUpdated Kind = "message.updated"
)

// Event is a lifecycle event with a loosely-typed property bag.
type Event struct {
	Type       Kind           `json:"type"`
	Properties map[string]any `json:"properties"`
}

// New builds an event from a kind and properties
func New(kind Kind, properties map[string]any) Event {
	return Event{Type: kind, Properties: properties}
}

// Decode parses a JSON-encoded event.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("decoding event: missing type")
	}
	return ev, nil
}

// IsActivity reports whether the event means the session is no longer idle.
func (e Event) IsActivity() bool {
	switch e.Type {
	case SessionCreated, SessionUpdated, MessageUpdated:
		return true
	default:
		return false
	}
}

// SessionID extracts the session identifier from wherever the event kind
// carries it. ok is false for unknown kinds or a missing/non-string field.
//
//	session.created, session.updated, session.deleted: properties.info.id
//	message.updated:                                   properties.info.sessionID
//	session.idle:                                      properties.sessionID
func (e Event) SessionID() (id string, ok bool) {
	switch e.Type {
	case SessionCreated, SessionUpdated, SessionDeleted:
		return e.infoField("id")
	case MessageUpdated:
		return e.infoField("sessionID")
	case SessionIdle:
		return stringField(e.Properties, "sessionID")
	default:
		return "", false
	}
}

func (e Event) infoField(key string) (string, bool) {
	info, ok := e.Properties["info"].(map[string]any)
	if !ok {
		return "", false
	}
	return stringField(info, key)
}

func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Idle builds a session.idle event.
func Idle(sessionID string) Event {
	return New(SessionIdle, map[string]any{"sessionID": sessionID})
}

// Created builds a session.created event.
func Created(sessionID string) Event {
	return New(SessionCreated, map[string]any{"info": map[string]any{"id": sessionID}})
}

// Updated builds a session.updated event.
func Updated(sessionID string) Event {
	return New(SessionUpdated, map[string]any{"info": map[string]any{"id": sessionID}})
}

// Deleted builds a session.deleted event.
func Deleted(sessionID string) Event {
	return New(SessionDeleted, map[string]any{"info": map[string]any{"id": sessionID}})
}

// Message builds a message.updated event owned by sessionID.
func Message(sessionID string) Event {
	return New(MessageUpdated, map[string]any{"info": map[string]any{"sessionID": sessionID}})
}
