package provider

import (
	"context"
	"errors"
	"net/http"
)

// ErrNoChoices is returned by a LanguageModel when the remote API answers
// successfully but without any completion choice to read text from.
var ErrNoChoices = errors.New("provider: completion response contained no choices")

// HTTPClient is the minimal interface required from an HTTP client.
// It matches the Do method on *http.Client and allows callers to
// substitute custom clients or middleware.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOptions are shared options for all provider clients.
// Providers typically accept these options in their constructors.
type ClientOptions struct {
	// BaseURL is the root URL of the provider API.
	BaseURL string
	// APIKey is the API key or bearer token used for authentication.
	APIKey string
	// HTTPClient is the underlying HTTP client. If nil, a default
	// client is used by the provider.
	HTTPClient HTTPClient
	// Headers contains additional HTTP headers attached to every
	// outbound request. Required provider headers always win.
	Headers http.Header
}

// LanguageModel is the provider-facing interface for chat models.
// Implementations map LanguageModelRequest values to the provider's
// chat/completions API and perform exactly one round trip per call.
type LanguageModel interface {
	// ModelID returns the model identifier sent to the provider.
	ModelID() string
	Generate(ctx context.Context, req *LanguageModelRequest) (*LanguageModelResponse, error)
}

// LanguageModelRequest is a provider-level request structure close to
// the wire format used by chat APIs.
type LanguageModelRequest struct {
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Stop        []string
}

// Message is a provider-level chat message.
type Message struct {
	Role    string
	Content string
}

// LanguageModelResponse is the first choice of a chat completion.
type LanguageModelResponse struct {
	Text       string
	StopReason string
}
