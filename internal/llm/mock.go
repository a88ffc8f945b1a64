package llm

import "context"

// MockGenerator is a test double that records prompts and returns a canned
// answer or error.
type MockGenerator struct {
	Answer  string
	Err     error
	Prompts []string
}

// Generate records the prompt and returns the configured answer or error.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}

// ModelName identifies the mock model.
func (m *MockGenerator) ModelName() string { return "mock" }

// Close is a no-op for MockGenerator.
func (m *MockGenerator) Close() error { return nil }
