// Package llm provides the generation backend client for answer composition.
package llm

import (
	"context"
	"errors"
)

// ErrBackendUnavailable is returned when the generation backend is
// unreachable, times out, or answers with a server error. The core never
// retries automatically; retry policy belongs to the caller.
var ErrBackendUnavailable = errors.New("generation backend unavailable")

// Generator produces text from a prompt. Implementations must honor the
// context deadline so one slow generation cannot starve concurrent requests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
	Close() error
}
