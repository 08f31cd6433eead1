package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newGrokTestClient(serverURL string) *GrokClient {
	cfg := DefaultGrokConfig("test-key")
	cfg.BaseURL = serverURL
	cfg.Timeout = 5 * time.Second
	return NewGrokClientWithConfig(cfg)
}

func newGeminiTestClient(serverURL string) *GeminiClient {
	cfg := DefaultGeminiConfig("test-key")
	cfg.BaseURL = serverURL
	cfg.Timeout = 5 * time.Second
	return NewGeminiClientWithConfig(cfg)
}

func grokReply(content string) GrokResponse {
	var resp GrokResponse
	resp.Choices = []struct {
		Message      GrokMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	}{
		{Message: GrokMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
	}
	resp.Usage.TotalTokens = 42
	return resp
}

func TestGrokClient_Completes(t *testing.T) {
	var gotAuth string
	var gotReq GrokRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(grokReply("  Hello from Grok.  "))
	}))
	defer server.Close()

	client := newGrokTestClient(server.URL)
	got, err := client.CompleteWithSystem(context.Background(), "Be brief.", "Say hello")
	if err != nil {
		t.Fatalf("CompleteWithSystem: %v", err)
	}
	if got != "Hello from Grok." {
		t.Errorf("response = %q, want trimmed completion", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "grok-2-latest" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "Be brief." {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestGrokClient_RetriesOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(grokReply("second try"))
	}))
	defer server.Close()

	client := newGrokTestClient(server.URL)
	got, err := client.Complete(context.Background(), "retry me")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "second try" {
		t.Errorf("response = %q", got)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestGrokClient_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GrokResponse{Error: &GrokError{Message: "invalid model", Type: "invalid_request_error"}})
	}))
	defer server.Close()

	client := newGrokTestClient(server.URL)
	_, err := client.Complete(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "invalid model") {
		t.Errorf("err = %v, want API error message", err)
	}
}

func TestGrokClient_EmptyAPIKey(t *testing.T) {
	cfg := DefaultGrokConfig("")
	client := NewGrokClientWithConfig(cfg)
	if _, err := client.Complete(context.Background(), "hi"); err == nil {
		t.Error("expected error with no API key")
	}
}

func TestGeminiClient_ParsesResponse(t *testing.T) {
	var gotReq GeminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash") {
			t.Errorf("path = %q, want model in path", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		var resp GeminiResponse
		resp.Candidates = []struct {
			Content      GeminiContent `json:"content"`
			FinishReason string        `json:"finishReason"`
		}{
			{Content: GeminiContent{Role: "model", Parts: []GeminiPart{{Text: "part one "}, {Text: "part two"}}}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newGeminiTestClient(server.URL)
	got, err := client.CompleteWithSystem(context.Background(), "", "Respond with a JSON object describing aluminum.")
	if err != nil {
		t.Fatalf("CompleteWithSystem: %v", err)
	}
	if got != "part one part two" {
		t.Errorf("response = %q, want concatenated parts", got)
	}
	// Empty system prompt falls back to the default.
	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text == "" {
		t.Error("expected default system instruction")
	}
	if gotReq.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("mime type = %q, want application/json for a JSON prompt", gotReq.GenerationConfig.ResponseMimeType)
	}
}

func TestGeminiClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GeminiResponse{Error: &GeminiError{Code: 400, Message: "bad request", Status: "INVALID_ARGUMENT"}})
	}))
	defer server.Close()

	client := newGeminiTestClient(server.URL)
	_, err := client.Complete(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "bad request") {
		t.Errorf("err = %v, want API error message", err)
	}
}

func TestRequiresJSONOutput(t *testing.T) {
	if !requiresJSONOutput("", "Respond with JSON only.") {
		t.Error("JSON marker not detected")
	}
	if requiresJSONOutput("Be helpful.", "Write a paragraph about rust.") {
		t.Error("prose prompt misdetected as JSON")
	}
}

func TestDetectProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gkey")
	t.Setenv("XAI_API_KEY", "xkey")

	cfg, err := DetectProvider()
	if err != nil {
		t.Fatalf("DetectProvider: %v", err)
	}
	if cfg.Provider != ProviderGemini || cfg.APIKey != "gkey" {
		t.Errorf("got %+v, want Gemini to win", cfg)
	}

	t.Setenv("GEMINI_API_KEY", "")
	cfg, err = DetectProvider()
	if err != nil {
		t.Fatalf("DetectProvider: %v", err)
	}
	if cfg.Provider != ProviderGrok || cfg.APIKey != "xkey" {
		t.Errorf("got %+v, want Grok fallback", cfg)
	}

	t.Setenv("XAI_API_KEY", "")
	if _, err := DetectProvider(); err == nil {
		t.Error("expected error with no keys set")
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(&ProviderConfig{Provider: ProviderGrok, APIKey: "k", Model: "grok-3"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got := c.(*GrokClient).GetModel(); got != "grok-3" {
		t.Errorf("model = %q, want override applied", got)
	}

	if _, err := NewClient(&ProviderConfig{Provider: "openai", APIKey: "k"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
