package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Dispatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/enrich" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req enrichRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Topics) != 2 || req.Reason != "low completeness" {
			t.Errorf("unexpected request: %+v", req)
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-key", nil)

	err := c.Dispatch(context.Background(), []string{"async examples", "websockets"}, "low completeness")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_DispatchPipelineError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "queue full", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient(server.URL, "", nil)

	if err := c.Dispatch(context.Background(), []string{"topic"}, "reason"); err == nil {
		t.Fatal("expected error")
	}
}
