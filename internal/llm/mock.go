package llm

import (
	"context"
	"fmt"
)

// Mock is a scripted Generator that never calls a model. It returns
// Responses in order and records every prompt it receives.
type Mock struct {
	Responses []string
	// FailAt makes call number FailAt (1-based) return Err. Zero means never.
	FailAt int
	Err    error

	Prompts []string
}

func (m *Mock) Name() string  { return "mock" }
func (m *Mock) Model() string { return "mock" }

// Generate returns the next scripted response.
func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	call := len(m.Prompts)

	if m.FailAt == call {
		return "", m.Err
	}
	if call > len(m.Responses) {
		return "", fmt.Errorf("mock: no response scripted for call %d", call)
	}
	return m.Responses[call-1], nil
}
