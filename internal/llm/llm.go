package llm

import (
	"context"
	"fmt"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
// Instructions are passed separately so each backend can map them to its own
// notion of a system prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, instructions []string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// BackendError reports a provider fault, an auth fault, or an empty result
// from a text-generation backend.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
