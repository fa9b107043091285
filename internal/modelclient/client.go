// Package modelclient defines the generate(request) collaborator the
// core depends on for the actual outbound language-model call. No
// provider, prompt construction, streaming, or token accounting lives
// here: the shape mirrors a typical chat-completions SDK closely enough
// that swapping in a real provider later is a matter of implementing
// Client, not redesigning callers.
package modelclient

import (
	"context"
	"errors"
)

// Message is one turn of conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the input to a single generate call.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *uint32   `json:"max_tokens,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
}

// Response is a single, non-streaming completion.
type Response struct {
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
}

// Client is the injected collaborator for the outbound model call.
// Implementations are expected to wrap a real provider SDK; this
// package only fixes the contract callers code against.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// ErrNotConfigured is returned by NoopClient, the default Client wired
// when no provider credentials are configured.
var ErrNotConfigured = errors.New("modelclient: no provider configured")

// NoopClient is the zero-value default: it always fails rather than
// silently fabricating a response. Dispatch does not depend on model
// generation for any built-in tool, so a NoopClient is a valid
// configuration for the whole lifetime of a deployment.
type NoopClient struct{}

func (NoopClient) Generate(ctx context.Context, req Request) (*Response, error) {
	return nil, ErrNotConfigured
}

var _ Client = NoopClient{}
