// Package vector provides HTTP clients for the vector search backends: the
// internal per-workspace backend and the optional external provider.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/docdex/internal/usecase/executor"
)

// searchRequest is the JSON body for a backend search call.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// searchResponse is the backend's JSON reply.
type searchResponse struct {
	Results []hitRow `json:"results"`
}

type hitRow struct {
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// Client queries the internal vector search backend, one workspace per call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Config holds the backend connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates an internal backend client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{httpClient: hc, baseURL: cfg.BaseURL, apiKey: cfg.APIKey}
}

// Search implements usecase/executor.VectorSearcher against
// POST /workspaces/{slug}/search.
func (c *Client) Search(
	ctx context.Context, workspaceSlug, queryText string, limit int,
) ([]executor.Hit, error) {
	endpoint := fmt.Sprintf("%s/workspaces/%s/search", c.baseURL, url.PathEscape(workspaceSlug))
	return doSearch(ctx, c.httpClient, endpoint, c.apiKey, queryText, limit)
}

// HealthCheck probes the backend's health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// ExternalClient queries the external documentation search provider.
type ExternalClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewExternalClient creates an external provider client.
func NewExternalClient(baseURL, token string, hc *http.Client) *ExternalClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &ExternalClient{httpClient: hc, baseURL: baseURL, token: token}
}

// Search implements usecase/executor.VectorSearcher. The external provider
// is workspace-agnostic; the slug is ignored.
func (c *ExternalClient) Search(
	ctx context.Context, _, queryText string, limit int,
) ([]executor.Hit, error) {
	return doSearch(ctx, c.httpClient, c.baseURL+"/search", c.token, queryText, limit)
}

func doSearch(
	ctx context.Context, hc *http.Client, endpoint, token, queryText string, limit int,
) ([]executor.Hit, error) {
	body, err := json.Marshal(searchRequest{Query: queryText, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search backend status %d: %s", resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]executor.Hit, 0, len(parsed.Results))
	for _, row := range parsed.Results {
		hits = append(hits, executor.Hit{
			Content:  row.Content,
			Score:    row.Score,
			Metadata: row.Metadata,
		})
	}
	return hits, nil
}
