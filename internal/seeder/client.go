package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/talentflow/internal/domain/model"
)

const maxErrorBody = 4 << 10

// Client talks to a running server's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// CreateCandidate posts c. A 409 maps to ErrConflict.
func (c *Client) CreateCandidate(ctx context.Context, in model.Candidate) (model.Candidate, error) {
	var out model.Candidate
	err := c.do(ctx, http.MethodPost, "/api/candidates", in, http.StatusCreated, &out)
	return out, err
}

// CreateInterview posts i.
func (c *Client) CreateInterview(ctx context.Context, in model.Interview) (model.Interview, error) {
	var out model.Interview
	err := c.do(ctx, http.MethodPost, "/api/interviews", in, http.StatusCreated, &out)
	return out, err
}

// Stats fetches the dashboard stats.
func (c *Client) Stats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case want:
	case http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, path, ErrConflict)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnexpected, method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
