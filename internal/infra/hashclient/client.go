// Package hashclient implements the HTTP client for the hash service, which
// owns the external hash aliases of posts.
package hashclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ClientConfig holds configuration for the hash service client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryConfig
	CB      CBConfig
}

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int
	WaitTime    time.Duration
	MaxWaitTime time.Duration
}

// CBConfig holds circuit breaker configuration.
type CBConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
}

// Client implements domain.HashClient against the hash service's REST API.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new hash service client with retry and circuit breaking.
func New(cfg ClientConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retry.MaxAttempts).
		SetRetryWaitTime(cfg.Retry.WaitTime).
		SetRetryMaxWaitTime(cfg.Retry.MaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Retry on network errors or 5xx status codes
			if err != nil {
				return true
			}

			return r.StatusCode() >= 500
		})

	settings := gobreaker.Settings{
		Name:        "hash-service",
		MaxRequests: cfg.CB.MaxRequests,
		Interval:    cfg.CB.Interval,
		Timeout:     cfg.CB.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= 3 && failureRatio >= cfg.CB.FailureRatio
		},
	}

	return &Client{
		client: client,
		cb:     gobreaker.NewCircuitBreaker[*resty.Response](settings),
		logger: logger,
	}
}

// postIDRequest is the request body carrying a post id.
type postIDRequest struct {
	PostID int `json:"post_id"`
}

// GenerateHash creates the external hash alias for a new post.
func (c *Client) GenerateHash(ctx context.Context, postID int) (string, error) {
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetBody(postIDRequest{PostID: postID}).
			Post("/generate-hash")
	})
	if err != nil {
		return "", fmt.Errorf("generating hash for post %d: %w", postID, err)
	}

	// The hash service answers with a bare string body.
	return resp.String(), nil
}

// PostIDByHash resolves a hash alias to a post id.
func (c *Client) PostIDByHash(ctx context.Context, hash string) (int, error) {
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			Get("/" + hash)
	})
	if err != nil {
		return 0, fmt.Errorf("resolving hash %q: %w", hash, err)
	}

	postID, err := strconv.Atoi(strings.TrimSpace(resp.String()))
	if err != nil {
		return 0, fmt.Errorf("parsing post id for hash %q: %w", hash, err)
	}

	return postID, nil
}

// DeleteHash marks a post's hash alias as deleted.
func (c *Client) DeleteHash(ctx context.Context, postID int) error {
	_, err := c.execute(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetBody(postIDRequest{PostID: postID}).
			Put("/delete-hash")
	})
	if err != nil {
		return fmt.Errorf("deleting hash for post %d: %w", postID, err)
	}

	return nil
}

// RestoreHashes unmarks hash aliases for restored posts.
func (c *Client) RestoreHashes(ctx context.Context, postIDs []int) error {
	_, err := c.execute(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetBody(postIDs).
			Put("/restore-all")
	})
	if err != nil {
		return fmt.Errorf("restoring hashes: %w", err)
	}

	return nil
}

// execute runs a request through the circuit breaker, turning HTTP error
// statuses into breaker failures.
func (c *Client) execute(call func() (*resty.Response, error)) (*resty.Response, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := call()
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("hash service returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("hash service call failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, err
	}

	return resp, nil
}
