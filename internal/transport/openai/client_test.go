package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// chatCompletionResponse mirrors the OpenAI-compatible chat completion response.
type chatCompletionResponse struct {
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func TestClient_Complete(t *testing.T) {
	verdict := `{"overall_quality": 0.8}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "assess this") {
			t.Errorf("prompt not forwarded: %q", req.Messages[1].Content)
		}

		resp := chatCompletionResponse{Object: "chat.completion", Model: "test-model"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{
			Message: struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			}{Role: "assistant", Content: verdict},
			FinishReason: "stop",
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})

	got, err := c.Complete(context.Background(), "assess this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != verdict {
		t.Errorf("completion = %q, want %q", got, verdict)
	}
}

func TestClient_CompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail": "model overloaded"}`))
	}))
	defer server.Close()

	c := NewClient(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})

	_, err := c.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected error detail surfaced, got %v", err)
	}
}

func TestClient_CompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "chat.completion", "choices": []}`))
	}))
	defer server.Close()

	c := NewClient(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})

	if _, err := c.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestClient_Model(t *testing.T) {
	c := NewClient(&Config{APIKey: "k", Model: "gpt-4o-mini"})
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("model = %q", c.Model())
	}
}
