// Package enrich provides the HTTP client for the content enrichment
// pipeline.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// enrichRequest is the JSON body for an enrichment dispatch.
type enrichRequest struct {
	Topics []string `json:"topics"`
	Reason string   `json:"reason"`
}

// Client submits enrichment requests to the pipeline.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an enrichment pipeline client.
func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{httpClient: hc, baseURL: baseURL, apiKey: apiKey}
}

// Dispatch implements usecase/enrich.Dispatcher against POST /enrich.
func (c *Client) Dispatch(ctx context.Context, topics []string, reason string) error {
	body, err := json.Marshal(enrichRequest{Topics: topics, Reason: reason})
	if err != nil {
		return fmt.Errorf("encode enrich request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enrich", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build enrich request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enrich request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("enrich pipeline status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
