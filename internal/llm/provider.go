// Package llm abstracts text-generation providers behind a capability
// interface so the synthesis layer never depends on a vendor SDK's types.
package llm

import "context"

// Provider defines the interface for generation providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
