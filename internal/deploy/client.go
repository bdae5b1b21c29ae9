// Package deploy registers the composed agent with a cloud agent-hosting
// service and keeps local records of past deployments.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/devmate-ai/devmate/internal/logging"
	"github.com/devmate-ai/devmate/pkg/types"
)

const (
	// MaxRetries is the maximum number of retries for API errors.
	MaxRetries = 3
	// RetryInitialInterval is the initial interval for exponential backoff.
	RetryInitialInterval = time.Second
	// RetryMaxInterval is the maximum interval for exponential backoff.
	RetryMaxInterval = 15 * time.Second

	defaultRequestTimeout = 30 * time.Second
)

// RemoteAgent is the hosting service's view of a registered agent.
type RemoteAgent struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Model       string `json:"model,omitempty"`
	State       string `json:"state,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// Client talks to the agent-hosting HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a hosting API client. The bearer token falls back to
// the DEVMATE_DEPLOY_TOKEN environment variable.
func NewClient(cfg *types.DeployConfig) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("deploy.base_url is not configured")
	}

	token := cfg.Token
	if token == "" {
		token = os.Getenv("DEVMATE_DEPLOY_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("deploy token is not configured (set deploy.token or DEVMATE_DEPLOY_TOKEN)")
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}, nil
}

// CreateAgent registers an agent manifest with the hosting service.
func (c *Client) CreateAgent(ctx context.Context, manifest *types.AgentManifest) (*RemoteAgent, error) {
	var remote RemoteAgent
	if err := c.do(ctx, http.MethodPost, "/v1/agents", manifest, &remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// GetAgent fetches one registered agent by its remote ID.
func (c *Client) GetAgent(ctx context.Context, remoteID string) (*RemoteAgent, error) {
	var remote RemoteAgent
	if err := c.do(ctx, http.MethodGet, "/v1/agents/"+remoteID, nil, &remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// ListAgents fetches every agent registered by this account.
func (c *Client) ListAgents(ctx context.Context) ([]RemoteAgent, error) {
	var resp struct {
		Agents []RemoteAgent `json:"agents"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/agents", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Agents, nil
}

// DeleteAgent removes a registered agent.
func (c *Client) DeleteAgent(ctx context.Context, remoteID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/agents/"+remoteID, nil, nil)
}

// do issues one API request with exponential-backoff retries. Server and
// transport errors retry; client errors are permanent.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempt := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s %s: server error %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return backoff.Permanent(fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data))))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode response: %w", err))
			}
		}
		return nil
	}

	return backoff.RetryNotify(attempt, newRetryBackoff(ctx), func(err error, next time.Duration) {
		logging.Warn().Err(err).Dur("retryIn", next).Str("path", path).Msg("hosting API request failed, retrying")
	})
}

// newRetryBackoff creates an exponential backoff with jitter, bounded by
// the request context.
func newRetryBackoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = RetryInitialInterval
	b.MaxInterval = RetryMaxInterval
	b.RandomizationFactor = 0.5
	b.Multiplier = 2.0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, MaxRetries), ctx)
}
