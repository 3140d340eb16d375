// HTTP request tool.

package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeoutSecs = 30
	maxResponseBytes       = 1 << 20 // 1 MiB
)

// HTTPTool makes HTTP requests.
type HTTPTool struct {
	client         *http.Client
	timeoutSecs    uint64
	allowedDomains []string
}

// NewHTTPTool creates a new HTTP tool with the given timeout.
func NewHTTPTool(timeoutSecs uint64) *HTTPTool {
	if timeoutSecs == 0 {
		timeoutSecs = defaultHTTPTimeoutSecs
	}
	return &HTTPTool{
		client: &http.Client{
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
		timeoutSecs: timeoutSecs,
	}
}

// WithAllowedDomains sets the allowed domains for requests.
func (t *HTTPTool) WithAllowedDomains(domains []string) *HTTPTool {
	t.allowedDomains = domains
	return t
}

func (t *HTTPTool) Name() string {
	return "http_request"
}

func (t *HTTPTool) Description() string {
	return "Make HTTP GET or POST requests to fetch data from URLs"
}

func (t *HTTPTool) ParameterSchema() map[string]ParamSpec {
	return map[string]ParamSpec{
		"url": {
			Type:        "string",
			Required:    true,
			Description: "The URL to request",
		},
		"method": {
			Type:        "string",
			Required:    false,
			Description: "HTTP method (GET or POST)",
			Default:     "GET",
		},
		"body": {
			Type:        "string",
			Required:    false,
			Description: "Request body for POST requests",
		},
	}
}

// Execute makes the HTTP request.
func (t *HTTPTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	rawURL, _ := args["url"].(string)
	if rawURL == "" {
		return "", Validationf("Parameter 'url' must not be empty.")
	}

	if !t.isDomainAllowed(rawURL) {
		return "", fmt.Errorf("access to domain in '%s' is not allowed", rawURL)
	}

	method, _ := args["method"].(string)
	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return "", Validationf("Parameter 'method' must be GET or POST, got '%s'.", method)
	}

	var reqBody io.Reader
	if method == http.MethodPost {
		body, _ := args["body"].(string)
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("request timed out after %d seconds", t.timeoutSecs)
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return fmt.Sprintf("Status: %s\n\n%s", resp.Status, string(body)), nil
	}
	return "", fmt.Errorf("HTTP error: %s\n\n%s", resp.Status, string(body))
}

// isDomainAllowed checks if the URL's domain is in the allowlist.
// Uses proper URL parsing to prevent bypass attacks.
func (t *HTTPTool) isDomainAllowed(rawURL string) bool {
	if len(t.allowedDomains) == 0 {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := u.Hostname()
	for _, domain := range t.allowedDomains {
		// Exact match or subdomain match
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Verify HTTPTool implements Tool
var _ Tool = (*HTTPTool)(nil)
