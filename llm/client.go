// Client wraps a Provider with retry logic.
//
// Transient provider failures (network errors, overloaded backends) are
// retried with capped exponential backoff. Callers see only the final
// outcome: a response or the last error after the retry budget is spent.

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultMaxAttempts = 3
	baseRetryDelay     = 1 * time.Second
	maxRetryDelay      = 8 * time.Second
)

// Client wraps a Provider, adding retry with exponential backoff.
type Client struct {
	provider    Provider
	maxAttempts int
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider, maxAttempts: defaultMaxAttempts}
}

// WithMaxAttempts overrides the retry budget. Values below 1 are clamped.
func (c *Client) WithMaxAttempts(attempts int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	c.maxAttempts = attempts
	return c
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Chat sends a chat completion request, retrying transient failures.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoff(attempt)
			slog.Warn("llm_request_retry",
				"provider", c.provider.Name(),
				"attempt", attempt+1,
				"max_attempts", c.maxAttempts,
				"delay", delay.String(),
				"error", lastErr)
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.provider.Chat(ctx, messages, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
	}

	return Response{}, fmt.Errorf("%s request failed after %d attempts: %w",
		c.provider.Name(), c.maxAttempts, lastErr)
}

func backoff(attempt int) time.Duration {
	delay := baseRetryDelay * time.Duration(1<<(attempt-1))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
