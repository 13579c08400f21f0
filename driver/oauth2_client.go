package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopify-ai-agent/models"
)

const userAgent = "shopify-ai-agent/1.0"

// Error response bodies are only logged and echoed into error messages;
// cap how much of them we read.
const maxErrorBodyBytes = 4 * 1024

// OAuth2Client requests access tokens from the Shopify Admin OAuth endpoint
// using the client-credentials grant.
type OAuth2Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewOAuth2Client creates an OAuth2 client for the given Admin base URL
// (https://{shop}.myshopify.com, or an httptest server URL in tests).
func NewOAuth2Client(clientID, clientSecret, baseURL string, timeout time.Duration, logger *slog.Logger) *OAuth2Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OAuth2Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		logger:       logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
			},
		},
	}
}

// RequestToken exchanges the client credentials for a new access token.
// Every failure mode surfaces as *models.AuthError: transport errors,
// timeouts, non-success statuses, and responses missing the expected
// access_token/expires_in fields.
func (c *OAuth2Client) RequestToken(ctx context.Context) (*models.TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/oauth/access_token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &models.AuthError{Message: "failed to create token request", Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.AuthError{Message: "failed to execute token request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		bodyStr := strings.TrimSpace(string(body))

		c.logger.Error("OAuth2 token request failed",
			"status_code", resp.StatusCode,
			"response_body", bodyStr)

		return nil, &models.AuthError{StatusCode: resp.StatusCode, Message: bodyStr}
	}

	var tokenResponse models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, &models.AuthError{Message: "failed to decode token response", Err: err}
	}

	// A success response without the token or lifetime fields is a protocol
	// violation and must never reach the cache.
	if tokenResponse.AccessToken == "" {
		return nil, &models.AuthError{Message: "token response missing access_token"}
	}
	if tokenResponse.ExpiresIn <= 0 {
		return nil, &models.AuthError{Message: fmt.Sprintf("token response missing or invalid expires_in: %d", tokenResponse.ExpiresIn)}
	}

	c.logger.Info("OAuth2 token issued",
		"token_type", tokenResponse.TokenType,
		"expires_in_seconds", tokenResponse.ExpiresIn)

	return &tokenResponse, nil
}

// SetHTTPClient allows injecting a custom HTTP client (useful for testing).
func (c *OAuth2Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
