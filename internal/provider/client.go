package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"angleYield/internal/model"
)

const maxErrorBody = 512

// Config controls the incentives HTTP client.
type Config struct {
	Endpoint     string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client fetches raw incentive snapshots from the provider API.
type Client struct {
	endpoint string
	http     *resty.Client
	logger   *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("Accept", "application/json")
	if cfg.RetryBackoff > 0 {
		httpClient.SetRetryWaitTime(cfg.RetryBackoff)
	}

	return &Client{
		endpoint: cfg.Endpoint,
		http:     httpClient,
		logger:   logger,
	}
}

// FetchIncentives performs one GET and decodes the gauge-keyed payload.
func (c *Client) FetchIncentives(ctx context.Context) (map[string]model.IncentiveRecord, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.endpoint, err)
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), maxErrorBody)}
	}

	var raw map[string]model.IncentiveRecord
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("decode incentives: %w", err)
	}

	c.logger.Debug("incentives fetched",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Int("records", len(raw)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
