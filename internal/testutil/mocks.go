// Package testutil provides shared mocks for pipeline tests.
package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/polyglotkit/doctrans/internal/backend"
)

// MockBackend mocks a translator backend. It records every call and can
// be scripted to fail a number of times before succeeding, to return
// fixed translations per input, or to fail a specific input forever.
type MockBackend struct {
	BackendName       string
	Translations      map[string]string
	Errors            map[string]error
	FailuresBeforeOK  int
	FailureErr        error
	UppercaseNonCJK   bool
	Calls             []string
	UnavailableErr    error
	failuresDelivered int
}

// Translate mocks translating a text unit.
func (m *MockBackend) Translate(_ context.Context, req backend.Request) (string, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Translate: %s (%s->%s)", req.Text, req.SourceLang, req.TargetLang))

	if m.failuresDelivered < m.FailuresBeforeOK {
		m.failuresDelivered++
		if m.FailureErr != nil {
			return "", m.FailureErr
		}
		return "", fmt.Errorf("mock backend failure %d", m.failuresDelivered)
	}

	if err, ok := m.Errors[req.Text]; ok {
		return "", err
	}

	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}

	if m.UppercaseNonCJK {
		return strings.ToUpper(req.Text), nil
	}

	// Default mock translation
	return fmt.Sprintf("mock translation of %s", req.Text), nil
}

// Name returns the mock backend name.
func (m *MockBackend) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

// IsAvailable reports the scripted availability.
func (m *MockBackend) IsAvailable() error {
	return m.UnavailableErr
}

// CallCount returns the number of Translate calls received.
func (m *MockBackend) CallCount() int {
	return len(m.Calls)
}
