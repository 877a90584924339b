// Package llm turns natural-language chat messages into structured location
// search intent using a local language-model server behind a pluggable
// driver interface.
package llm

import (
	"context"
	"fmt"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-agnostic completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Response is a provider-agnostic completion response.
type Response struct {
	Content string
	Model   string
}

// Driver is implemented by language-model backends.
type Driver interface {
	// Complete sends a chat completion request and returns the reply.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// CheckHealth reports whether the backend is reachable and the
	// configured model is available.
	CheckHealth(ctx context.Context) error
	// Name returns the driver identifier (e.g., "ollama").
	Name() string
}

// ProviderError describes a non-2xx response from the model server.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}
