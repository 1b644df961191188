package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ncecere/mymentor/provider"
	"github.com/ncecere/mymentor/providerutil"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com"

// Client is an OpenAI chat completions client.
//
// A Client is safe for concurrent use and is meant to be created once at
// startup and shared by every request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient provider.HTTPClient
	headers    http.Header
}

func (c *Client) chatCompletionsURL() string {
	if strings.HasSuffix(c.baseURL, "/v1") {
		return c.baseURL + "/chat/completions"
	}
	return c.baseURL + "/v1/chat/completions"
}

// NewClient creates a new OpenAI client.
//
// Environment variables are consulted only for values left empty in opts:
//   - OPENAI_API_KEY (required if opts.APIKey is empty)
//   - OPENAI_BASE_URL (optional, defaults to https://api.openai.com)
func NewClient(opts provider.ClientOptions) (*Client, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: missing API key; set ClientOptions.APIKey or OPENAI_API_KEY")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	hc := opts.HTTPClient
	if hc == nil {
		hc = providerutil.DefaultHTTPClient()
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: hc,
		headers:    opts.Headers,
	}, nil
}

// ChatModel returns a LanguageModel bound to the given chat model ID.
func (c *Client) ChatModel(model string) provider.LanguageModel {
	return &chatModel{client: c, model: model}
}

type chatModel struct {
	client *Client
	model  string
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature *float64            `json:"temperature,omitempty"`
	TopP        *float64            `json:"top_p,omitempty"`
	MaxTokens   *int                `json:"max_tokens,omitempty"`
	Stop        []string            `json:"stop,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (m *chatModel) ModelID() string { return m.model }

func (m *chatModel) Generate(ctx context.Context, req *provider.LanguageModelRequest) (*provider.LanguageModelResponse, error) {
	body := openAIChatRequest{
		Model:       m.model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	}
	for _, msg := range req.Messages {
		body.Messages = append(body.Messages, openAIChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.client.chatCompletionsURL(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	// Attach any custom headers first, then enforce required headers.
	for k, vs := range m.client.headers {
		for _, v := range vs {
			if v == "" {
				continue
			}
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.client.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}

	var out openAIChatResponse
	if err := providerutil.ReadJSON(resp, &out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, provider.ErrNoChoices
	}

	choice := out.Choices[0]
	return &provider.LanguageModelResponse{
		Text:       choice.Message.Content,
		StopReason: choice.FinishReason,
	}, nil
}

// WithHTTPTimeout returns an HTTP client that bounds every upstream round
// trip by d.
func WithHTTPTimeout(d time.Duration) provider.HTTPClient {
	return &http.Client{Timeout: d}
}
