package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncecere/mymentor/provider"
)

func TestNewClient_RequiresKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	if _, err := NewClient(provider.ClientOptions{}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestNewClient_TargetsCompatibleEndpoint(t *testing.T) {
	var gotPath, gotModel string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		fmt.Fprint(w, `{"choices":[{"message":{"content":"hi"}}]}`)
	}))
	defer ts.Close()

	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("GROQ_BASE_URL", ts.URL+"/openai/v1/")

	client, err := NewClient(provider.ClientOptions{HTTPClient: ts.Client()})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	res, err := client.ChatModel(DefaultModel).Generate(context.Background(), &provider.LanguageModelRequest{})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if gotPath != "/openai/v1/chat/completions" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotModel != DefaultModel {
		t.Fatalf("unexpected model: %q", gotModel)
	}
	if res.Text != "hi" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
}
