package entitlements

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is the entitlement API client. It authenticates as a single user;
// create one client per access token.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new entitlement API client.
//
// Parameters:
//   - baseURL: The API base URL (e.g., "https://api.example.com")
//   - accessToken: The user's Bearer access token
func NewClient(baseURL, accessToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetEntitlements retrieves the caller's full entitlement snapshot.
// timezone may be empty; when set it is recorded for quota boundary math.
func (c *Client) GetEntitlements(ctx context.Context, timezone string) (*Snapshot, error) {
	u := fmt.Sprintf("%s/api/v1/entitlements", c.baseURL)
	if timezone != "" {
		u += "?timezone=" + url.QueryEscape(timezone)
	}

	var snapshot Snapshot
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &snapshot); err != nil {
		return nil, fmt.Errorf("get entitlements: %w", err)
	}
	return &snapshot, nil
}

// CheckFeature asks whether the caller could use the feature right now
// without consuming anything. quantity values below 1 are sent as 1.
func (c *Client) CheckFeature(ctx context.Context, feature string, quantity int) (*CheckResult, error) {
	if quantity < 1 {
		quantity = 1
	}
	u := fmt.Sprintf("%s/api/v1/entitlements/check?feature=%s&quantity=%s",
		c.baseURL, url.QueryEscape(feature), strconv.Itoa(quantity))

	var result CheckResult
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, fmt.Errorf("check feature: %w", err)
	}
	return &result, nil
}

// ConsumeFeature atomically checks and debits the feature. A denial is not
// an error: the returned result has Success false and the upsell trigger
// the app should show.
func (c *Client) ConsumeFeature(ctx context.Context, req ConsumeRequest) (*ConsumeResult, error) {
	u := fmt.Sprintf("%s/api/v1/entitlements/consume", c.baseURL)

	var result ConsumeResult
	if err := c.doRequest(ctx, http.MethodPost, u, req, &result); err != nil {
		return nil, fmt.Errorf("consume feature: %w", err)
	}
	return &result, nil
}

// UseStreakShield spends one streak shield to preserve the caller's streak.
func (c *Client) UseStreakShield(ctx context.Context) (*StreakShieldResult, error) {
	u := fmt.Sprintf("%s/api/v1/entitlements/shields/use", c.baseURL)

	var result StreakShieldResult
	if err := c.doRequest(ctx, http.MethodPost, u, nil, &result); err != nil {
		return nil, fmt.Errorf("use streak shield: %w", err)
	}
	return &result, nil
}

// ListProducts retrieves the active catalog in display order.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	u := fmt.Sprintf("%s/api/v1/products", c.baseURL)

	var products []Product
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a single catalog product, retired ones included.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	u := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, url.PathEscape(productID))

	var product Product
	if err := c.doRequest(ctx, http.MethodGet, u, nil, &product); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// doRequest performs an HTTP request and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiResp apiResponse
		if jerr := json.Unmarshal(respBody, &apiResp); jerr == nil && apiResp.Error != nil {
			return fmt.Errorf("api error: status=%d type=%s message=%s",
				resp.StatusCode, apiResp.Error.Type, apiResp.Error.Message)
		}
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if result == nil {
		return nil
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.Success {
		if apiResp.Error != nil {
			return fmt.Errorf("api error: %s", apiResp.Error.Message)
		}
		return fmt.Errorf("api error: %s", apiResp.Message)
	}

	if apiResp.Data == nil {
		return nil
	}

	// Re-marshal and unmarshal to convert Data to the target type
	dataBytes, err := json.Marshal(apiResp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
