package notify

import (
	"context"
	"errors"
	"sync"
)

// runCall records a single command invocation
type runCall struct {
	Name string
	Args []string
}

// MockRunner records every command and returns configured errors per command name.
type MockRunner struct {
	mu sync.Mutex

	Errors map[string]error
	Calls  []runCall
}

// NewMockRunner creates a runner where every command succeeds
func NewMockRunner() *MockRunner {
	return &MockRunner{Errors: make(map[string]error)}
}

// WithError makes the named command fail with err
func (m *MockRunner) WithError(name string, err error) *MockRunner {
	m.Errors[name] = err
	return m
}

func (m *MockRunner) Run(_ context.Context, name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, runCall{Name: name, Args: append([]string(nil), args...)})
	return m.Errors[name]
}

// Names returns the command names in call order
func (m *MockRunner) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Name)
	}
	return names
}

var errMockCommand = errors.New("mock command failed")
