package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/workspaces/py-docs/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "fastapi tutorial" || req.Limit != 20 {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []hitRow{
			{
				Content: "FastAPI is a modern web framework",
				Score:   0.92,
				Metadata: map[string]any{
					"document_id":    "doc-1",
					"document_title": "FastAPI Guide",
					"source_url":     "https://docs.example.com/fastapi",
					"chunk_index":    2,
				},
			},
		}})
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL, APIKey: "test-key"})

	hits, err := c.Search(context.Background(), "py-docs", "fastapi tutorial", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Score != 0.92 {
		t.Errorf("score = %f", hits[0].Score)
	}
	if hits[0].Metadata["document_id"] != "doc-1" {
		t.Errorf("metadata = %v", hits[0].Metadata)
	}
}

func TestClient_SearchBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index rebuilding", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})

	if _, err := c.Search(context.Background(), "py-docs", "query", 20); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_SearchRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Search(ctx, "py-docs", "query", 20); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestClient_HealthCheck(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	c := NewClient(&Config{BaseURL: server.URL})

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}

	healthy = false
	if err := c.HealthCheck(context.Background()); err == nil {
		t.Error("expected unhealthy")
	}
}

func TestExternalClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer ext-token" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []hitRow{
			{Content: "external doc", Score: 0.7, Metadata: map[string]any{"document_id": "ext-1"}},
		}})
	}))
	defer server.Close()

	c := NewExternalClient(server.URL, "ext-token", nil)

	hits, err := c.Search(context.Background(), "ignored", "query", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Metadata["document_id"] != "ext-1" {
		t.Errorf("unexpected hits: %v", hits)
	}
}
