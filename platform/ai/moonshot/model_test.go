package moonshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestGenerateContentSendsOpenAIPayload(t *testing.T) {
	var got openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"intent\":\"faq\"}"}}]}`))
	}))
	defer server.Close()

	m := NewModel(Config{APIKey: "secret", BaseURL: server.URL + "/", Model: "kimi-test"})
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("Hallo", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("Antwoord met JSON", genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.3),
			MaxOutputTokens:   200,
			ResponseMIMEType:  "application/json",
		},
	}

	var text string
	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text = resp.Content.Parts[0].Text
	}

	if text != `{"intent":"faq"}` {
		t.Fatalf("unexpected response text %q", text)
	}
	if got.Model != "kimi-test" || got.MaxTokens != 200 {
		t.Fatalf("unexpected payload %+v", got)
	}
	if got.Temperature == nil || *got.Temperature != 0.3 {
		t.Fatalf("expected temperature 0.3, got %v", got.Temperature)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format")
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "Hallo" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestGenerateContentReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	m := NewModel(Config{APIKey: "secret", BaseURL: server.URL})
	req := &model.LLMRequest{Contents: []*genai.Content{genai.NewContentFromText("Hallo", genai.RoleUser)}}

	for _, err := range m.GenerateContent(context.Background(), req, false) {
		if err == nil {
			t.Fatalf("expected error for 429 response")
		}
	}
}
