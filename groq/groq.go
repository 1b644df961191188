package groq

import (
	"fmt"
	"os"
	"strings"

	"github.com/ncecere/mymentor/openai"
	"github.com/ncecere/mymentor/provider"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "llama-3.1-8b-instant"

// NewClient creates a Groq client by configuring the OpenAI wire client
// with Groq-specific defaults.
//
// Environment variables:
//   - GROQ_API_KEY  (used if opts.APIKey is empty)
//   - GROQ_BASE_URL (optional, defaults to DefaultBaseURL)
func NewClient(opts provider.ClientOptions) (*openai.Client, error) {
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("groq: missing API key; set ClientOptions.APIKey or GROQ_API_KEY")
	}

	if opts.BaseURL == "" {
		baseURL := os.Getenv("GROQ_BASE_URL")
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
		opts.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return openai.NewClient(opts)
}
