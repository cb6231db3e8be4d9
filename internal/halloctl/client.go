package halloctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"hallod/pkg/types"
)

// Client submits jobs to a deployed endpoint, either directly (BaseURL) or
// through the hosted platform's job-submission API (APIBase + EndpointID).
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient builds a Client from the CLI config.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		// Generation takes minutes; the per-call timeout comes from config.
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// runURL resolves the synchronous job endpoint.
func (c *Client) runURL() (string, error) {
	if c.cfg.BaseURL != "" {
		return strings.TrimRight(c.cfg.BaseURL, "/") + "/runsync", nil
	}
	if c.cfg.EndpointID == "" {
		return "", fmt.Errorf("either --base-url or --endpoint-id is required")
	}
	base := c.cfg.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	return strings.TrimRight(base, "/") + "/v2/" + c.cfg.EndpointID + "/runsync", nil
}

// Run submits one job and blocks for the result.
func (c *Client) Run(ctx context.Context, in types.JobInput) (types.JobResponse, error) {
	u, err := c.runURL()
	if err != nil {
		return types.JobResponse{}, err
	}
	body, err := json.Marshal(types.JobRequest{Input: in})
	if err != nil {
		return types.JobResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return types.JobResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.JobResponse{}, fmt.Errorf("submit job: %w", err)
	}
	defer resp.Body.Close()

	var jr types.JobResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 256<<20)).Decode(&jr); err != nil {
		return types.JobResponse{}, fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK && jr.Error == "" {
		return jr, fmt.Errorf("endpoint returned %s", resp.Status)
	}
	return jr, nil
}

// Status fetches the worker status (direct addressing only).
func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	if c.cfg.BaseURL == "" {
		return types.StatusResponse{}, fmt.Errorf("status requires --base-url")
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return types.StatusResponse{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.StatusResponse{}, err
	}
	defer resp.Body.Close()
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return types.StatusResponse{}, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

// Health probes /healthz (direct addressing only).
func (c *Client) Health(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return fmt.Errorf("health requires --base-url")
	}
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/healthz"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}
