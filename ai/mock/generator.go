package mock

import (
	"context"
	"strings"
)

// MockSubtaskGenerator is a test double for ai.SubtaskGenerator.
// It allows custom behavior injection via function fields.
type MockSubtaskGenerator struct {
	// GenerateSubtasksFunc is called by GenerateSubtasks if set.
	// If nil, uses default canned behavior.
	GenerateSubtasksFunc func(ctx context.Context, title string) ([]string, error)

	callCount int
}

// NewMockSubtaskGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockSubtaskGenerator() *MockSubtaskGenerator {
	return &MockSubtaskGenerator{}
}

// GenerateSubtasks returns five deterministic subtask titles derived from the
// task title.
func (m *MockSubtaskGenerator) GenerateSubtasks(ctx context.Context, title string) ([]string, error) {
	m.callCount++

	if m.GenerateSubtasksFunc != nil {
		return m.GenerateSubtasksFunc(ctx, title)
	}

	title = strings.TrimSpace(title)
	return []string{
		"Research " + title,
		"List what is needed for " + title,
		"Schedule time for " + title,
		"Do the first step of " + title,
		"Review the result of " + title,
	}, nil
}

// CallCount returns the number of times GenerateSubtasks was called.
func (m *MockSubtaskGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockSubtaskGenerator) Reset() {
	m.callCount = 0
	m.GenerateSubtasksFunc = nil
}
