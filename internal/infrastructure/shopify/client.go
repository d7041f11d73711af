package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the Admin API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client talks to one shop's Admin API over both the REST and GraphQL
// surfaces. It implements the integration contracts for order creation,
// customer lookup, the admin tools and the console queries.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates an Admin API client for the configured shop
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ShopDomain returns the configured myshopify domain
func (c *Client) ShopDomain() string {
	return c.config.ShopDomain
}

// doREST performs an Admin REST request. The payload is JSON-encoded when
// non-nil and extra headers are applied on top of the auth headers. Returns
// status and body for the caller to classify.
func (c *Client) doREST(ctx context.Context, method, resource string, payload any, headers map[string]string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("shopify: failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.restURL(resource), body)
	if err != nil {
		return 0, nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// graphqlRequest is the Admin GraphQL request envelope
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlEnvelope is the Admin GraphQL response envelope
type graphqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// doGraphQL executes a GraphQL query and unmarshals the data field into out.
// Top-level GraphQL errors are surfaced as ErrPlatformRequestFailed.
func (c *Client) doGraphQL(ctx context.Context, query string, variables map[string]any, out any) error {
	raw, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("shopify: failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.graphqlURL(), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("shopify: failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: HTTP 429", integration.ErrPlatformRateLimited)
	}
	if resp.StatusCode >= 400 {
		return &integration.PlatformError{Status: resp.StatusCode, Body: string(body)}
	}

	var envelope graphqlEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
		}
	}
	return nil
}

// Compile-time interface checks
var (
	_ integration.OrderAPI      = (*Client)(nil)
	_ integration.CustomerAPI   = (*Client)(nil)
	_ integration.OrderAdminAPI = (*Client)(nil)
	_ integration.ShopAPI       = (*Client)(nil)
)
