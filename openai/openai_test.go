package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ncecere/mymentor/provider"
	"github.com/ncecere/mymentor/providerutil"
)

func float64Ptr(v float64) *float64 { return &v }

func newTestClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(provider.ClientOptions{
		BaseURL:    ts.URL + "/v1",
		APIKey:     "test-key",
		HTTPClient: ts.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return client
}

func TestChatModelGenerate_MapsRequestAndResponse(t *testing.T) {
	ctx := context.Background()

	var recordedReq openAIChatRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.URL.Path; got != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", got)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&recordedReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"choices": [
				{"finish_reason": "stop", "message": {"role": "assistant", "content": "Yes, I can hear you!"}},
				{"finish_reason": "stop", "message": {"role": "assistant", "content": "second choice"}}
			]
		}`)
	}))
	defer ts.Close()

	model := newTestClient(t, ts).ChatModel("gpt-4o-mini")
	if model.ModelID() != "gpt-4o-mini" {
		t.Fatalf("unexpected model id: %q", model.ModelID())
	}

	temp := float64Ptr(0.5)
	res, err := model.Generate(ctx, &provider.LanguageModelRequest{
		Messages: []provider.Message{
			{Role: "system", Content: "be nice"},
			{Role: "user", Content: "Hello AI, can you hear me?"},
		},
		Temperature: temp,
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if recordedReq.Model != "gpt-4o-mini" {
		t.Fatalf("expected model 'gpt-4o-mini', got %q", recordedReq.Model)
	}
	if len(recordedReq.Messages) != 2 || recordedReq.Messages[0].Role != "system" || recordedReq.Messages[1].Content != "Hello AI, can you hear me?" {
		t.Fatalf("unexpected messages: %+v", recordedReq.Messages)
	}
	if recordedReq.Temperature == nil || *recordedReq.Temperature != *temp {
		t.Fatalf("temperature not propagated: %+v", recordedReq.Temperature)
	}
	if recordedReq.MaxTokens != nil {
		t.Fatalf("max_tokens should be omitted, got %v", *recordedReq.MaxTokens)
	}

	if res.Text != "Yes, I can hear you!" {
		t.Fatalf("expected first choice text, got %q", res.Text)
	}
	if res.StopReason != "stop" {
		t.Fatalf("unexpected stop reason: %q", res.StopReason)
	}
}

func TestChatModelGenerate_AttachesCustomHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("OpenAI-Organization"); got != "org-1" {
			t.Errorf("custom header missing: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization must not be overridable, got %q", got)
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer ts.Close()

	headers := http.Header{}
	headers.Set("OpenAI-Organization", "org-1")
	headers.Set("Authorization", "Bearer other")
	client, err := NewClient(provider.ClientOptions{
		BaseURL:    ts.URL,
		APIKey:     "test-key",
		HTTPClient: ts.Client(),
		Headers:    headers,
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	res, err := client.ChatModel("m").Generate(context.Background(), &provider.LanguageModelRequest{})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if res.Text != "ok" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}

func TestChatModelGenerate_PropagatesHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts).ChatModel("test-model").Generate(context.Background(), &provider.LanguageModelRequest{
		Messages: []provider.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatalf("expected error from HTTP 401, got nil")
	}
	var statusErr *providerutil.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected *providerutil.StatusError with 401, got %v", err)
	}
	if !strings.Contains(err.Error(), "http status 401") || !strings.Contains(err.Error(), "Incorrect API key") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestChatModelGenerate_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts).ChatModel("test-model").Generate(context.Background(), &provider.LanguageModelRequest{})
	if !errors.Is(err, provider.ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestChatModelGenerate_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": [`)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts).ChatModel("test-model").Generate(context.Background(), &provider.LanguageModelRequest{})
	if err == nil || !strings.Contains(err.Error(), "decoding response") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestChatModelGenerate_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	client, err := NewClient(provider.ClientOptions{BaseURL: "http://" + addr, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	_, err = client.ChatModel("test-model").Generate(context.Background(), &provider.LanguageModelRequest{})
	if err == nil {
		t.Fatalf("expected transport error, got nil")
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(provider.ClientOptions{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestNewClient_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_BASE_URL", "https://example.test/v1/")

	client, err := NewClient(provider.ClientOptions{})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if client.apiKey != "env-key" {
		t.Fatalf("unexpected api key: %q", client.apiKey)
	}
	if got := client.chatCompletionsURL(); got != "https://example.test/v1/chat/completions" {
		t.Fatalf("unexpected url: %q", got)
	}
}
