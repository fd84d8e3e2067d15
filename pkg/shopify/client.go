package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"themedl/pkg/config"
	errs "themedl/pkg/errors"
	"themedl/pkg/logger"
	"themedl/pkg/models"
)

// Client is a Shopify admin REST client for theme assets
type Client struct {
	httpClient  *http.Client
	baseURL     string
	credentials models.ShopCredentials
	apiVersion  string
	userAgent   string
	logger      logger.Logger

	mu        sync.Mutex
	callsUsed int
	callLimit int
}

// NewClient creates a client for the shop named in the credentials
func NewClient(creds models.ShopCredentials, cfg *config.ShopifyConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if cfg == nil {
		cfg = &config.DefaultConfig().Shopify
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     BaseURL(creds.Domain),
		credentials: creds,
		apiVersion:  cfg.APIVersion,
		userAgent:   cfg.UserAgent,
		logger:      log,
		callLimit:   DefaultBucketSize,
	}
}

// SetBaseURL points the client at another host
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// CallsRemaining returns the calls left in the shop's bucket as of the last
// response
func (c *Client) CallsRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callLimit - c.callsUsed
}

// ListAssets returns the descriptors of every asset in a theme, in the
// order the API lists them
func (c *Client) ListAssets(ctx context.Context, themeID int64) ([]models.AssetDescriptor, error) {
	url := c.baseURL + AssetsPath(c.apiVersion, themeID)

	c.logger.DebugWithFields("listing theme assets", map[string]interface{}{
		"theme_id": themeID,
		"url":      url,
	})

	var body assetListResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Assets == nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: "response has no assets field",
		}
	}

	assets := *body.Assets
	for i, asset := range assets {
		if asset.Key == "" {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeParsing,
				Message: fmt.Sprintf("asset at position %d has no key", i),
			}
		}
	}

	return assets, nil
}

// GetAsset fetches a single asset's content
func (c *Client) GetAsset(ctx context.Context, themeID int64, key string) (*models.AssetContent, error) {
	url := c.baseURL + AssetsPath(c.apiVersion, themeID) + "?" + AssetQuery(key)

	var body assetResponse
	if err := c.getJSON(ctx, url, &body); err != nil {
		return nil, err
	}
	if body.Asset == nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: "response has no asset field",
			Key:     key,
		}
	}

	content, ok := body.Asset.content(key)
	if !ok {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: "asset has neither value nor attachment",
			Key:     key,
		}
	}

	return content, nil
}

// getJSON performs an authenticated GET and decodes the JSON body
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: "failed to create request",
			Err:     err,
		}
	}
	req.SetBasicAuth(c.credentials.Key, c.credentials.Secret)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: "network error",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, time.Since(start))
	c.updateCallLimit(resp.Header.Get(CallLimitHeader))

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: "failed to read response body",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	if err := json.Unmarshal(data, target); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: "failed to parse JSON",
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	return nil
}

// updateCallLimit records the bucket state from a response header
func (c *Client) updateCallLimit(header string) {
	used, limit, ok := ParseCallLimit(header)
	if !ok {
		return
	}

	c.mu.Lock()
	c.callsUsed = used
	c.callLimit = limit
	c.mu.Unlock()
}

// checkResponseStatus maps non-success statuses to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errType := errs.StatusType(resp.StatusCode)
	var message string
	switch errType {
	case errs.ErrorTypeAuth:
		message = "authentication failed, check the API key and secret"
	case errs.ErrorTypeNotFound:
		message = "resource not found"
	case errs.ErrorTypeRateLimit:
		message = "rate limit exceeded"
	case errs.ErrorTypeServerError:
		message = "server error"
	default:
		message = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}

	return &errs.Error{
		Type:    errType,
		Message: message,
		Code:    resp.StatusCode,
	}
}
