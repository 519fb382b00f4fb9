package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/sequential-thinking/internal/domain"
)

// MockLLM answers without any network call. Useful for local mode and tests.
type MockLLM struct {
	mu      sync.Mutex
	err     error
	prompts []string
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// FailWith makes every following call return err (nil restores success).
func (m *MockLLM) FailWith(err error) *MockLLM {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Prompts returns every prompt received so far.
func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

func (m *MockLLM) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, req.Prompt)
	err := m.err
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err != nil {
		return "", err
	}

	first := strings.TrimSpace(req.Prompt)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return fmt.Sprintf("[mock] %d-word prompt received: %s", len(strings.Fields(req.Prompt)), first), nil
}
