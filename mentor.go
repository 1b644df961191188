// Package mentor turns a student's question into a single chat completion
// and returns the assistant's answer.
package mentor

import (
	"context"

	"github.com/ncecere/mymentor/provider"
)

// Role constants for chat messages.
// These match the roles used by OpenAI-style chat endpoints.
const (
	RoleUser   = "user"
	RoleSystem = "system"
)

// SystemPrompt establishes the assistant persona. It is sent ahead of every
// question.
const SystemPrompt = "You are My Mentor, a friendly and helpful educational assistant."

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

type (
	// Message is a single chat message with role and content.
	Message = provider.Message
	// LanguageModel is a provider-agnostic chat-oriented model.
	LanguageModel = provider.LanguageModel
)

// Asker answers questions with one chat completion per call.
//
// An Asker holds no per-call state; one instance is built at startup and
// shared by all requests.
type Asker struct {
	model    LanguageModel
	settings *CallSettings
}

// Option configures an Asker.
type Option func(*Asker)

// WithCallSettings applies sampling settings to every completion request.
func WithCallSettings(s *CallSettings) Option {
	return func(a *Asker) { a.settings = s }
}

// NewAsker returns an Asker backed by model.
//
// Errors:
//   - ErrMissingModel if model is nil.
func NewAsker(model LanguageModel, opts ...Option) (*Asker, error) {
	if model == nil {
		return nil, ErrMissingModel
	}
	a := &Asker{model: model}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ModelID returns the identifier of the model answering questions.
func (a *Asker) ModelID() string {
	return a.model.ModelID()
}

// Ask sends question, verbatim, after the fixed system prompt and returns
// the text of the first completion choice. The question is not validated.
//
// Any transport, status or decoding error from the provider is returned
// unchanged so callers can report its text.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	conv := NewConversation().
		System(SystemPrompt).
		User(question)

	req := &provider.LanguageModelRequest{Messages: conv.Messages}
	a.settings.ApplyTo(req)

	res, err := a.model.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
