package repositories

import "context"

// Generator abstracts the generative extraction service.
type Generator interface {
	// Generate sends the system instructions and user prompt to the model and
	// returns the raw text completion. The completion should contain a JSON
	// object, optionally fenced; callers treat it as untrusted.
	Generate(ctx context.Context, system string, prompt string) (string, error)
}
