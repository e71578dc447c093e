package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Client is the HTTP implementation of Store.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the challenge service at baseURL,
// authenticating every request with the given bearer token.
func NewClient(ctx context.Context, baseURL, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

// do issues one request. A non-nil `in` is sent as the JSON body; a
// non-nil `out` receives the decoded response. found=false means the
// server answered 404 (no record yet), which is not a failure.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (found bool, err error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return false, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
		}
	}
	return true, nil
}

func (c *Client) GetLogs(ctx context.Context) ([]Log, error) {
	var logs []Log
	found, err := c.do(ctx, http.MethodGet, "/100doc/logs", nil, &logs)
	if err != nil || !found {
		return nil, err
	}
	return logs, nil
}

func (c *Client) CreateLogs(ctx context.Context, logs []Log) error {
	_, err := c.do(ctx, http.MethodPost, "/100doc/logs", logs, nil)
	return err
}

func (c *Client) UpdateLogs(ctx context.Context, logs []Log) error {
	_, err := c.do(ctx, http.MethodPut, "/100doc/logs", logs, nil)
	return err
}

func (c *Client) GetMilestones(ctx context.Context) ([]MilestoneBatch, error) {
	var batches []MilestoneBatch
	found, err := c.do(ctx, http.MethodGet, "/100doc/milestones", nil, &batches)
	if err != nil || !found {
		return nil, err
	}
	return batches, nil
}

func (c *Client) CreateMilestones(ctx context.Context, batches []MilestoneBatch) error {
	_, err := c.do(ctx, http.MethodPost, "/100doc/milestones", batches, nil)
	return err
}

func (c *Client) UpdateMilestones(ctx context.Context, batches []MilestoneBatch) error {
	_, err := c.do(ctx, http.MethodPut, "/100doc/milestones", batches, nil)
	return err
}

func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	var sum Summary
	found, err := c.do(ctx, http.MethodGet, "/100doc/summary", nil, &sum)
	if err != nil || !found {
		return nil, err
	}
	return &sum, nil
}

func (c *Client) CreateSummary(ctx context.Context, sum Summary) error {
	_, err := c.do(ctx, http.MethodPost, "/100doc/summary", sum, nil)
	return err
}

func (c *Client) UpdateSummary(ctx context.Context, sum Summary) error {
	_, err := c.do(ctx, http.MethodPut, "/100doc/summary", sum, nil)
	return err
}
