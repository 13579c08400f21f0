package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"shopify-ai-agent/models"

	"github.com/google/uuid"
)

// GraphQLClient posts query documents to the Shopify Admin GraphQL endpoint.
// It holds no state beyond the endpoint and HTTP client; queries are opaque
// payloads and results are never cached.
type GraphQLClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGraphQLClient creates a client for {baseURL}/admin/api/{apiVersion}/graphql.json.
func NewGraphQLClient(baseURL, apiVersion string, timeout time.Duration, logger *slog.Logger) *GraphQLClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GraphQLClient{
		endpoint: fmt.Sprintf("%s/admin/api/%s/graphql.json", strings.TrimSuffix(baseURL, "/"), apiVersion),
		logger:   logger,
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

// Execute posts the query with the access token attached and translates the
// response into the data payload or a typed error: *models.HTTPError on a
// non-success status, *models.ProtocolError on an unparsable body, and
// *models.RemoteError when the body carries a non-empty errors list.
func (c *GraphQLClient) Execute(ctx context.Context, accessToken, query string) (json.RawMessage, error) {
	payload, err := json.Marshal(models.QueryRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		bodyStr := strings.TrimSpace(string(body))

		c.logger.Error("GraphQL query request failed",
			"status_code", resp.StatusCode,
			"request_id", requestID,
			"response_body", bodyStr)

		return nil, &models.HTTPError{StatusCode: resp.StatusCode, Body: bodyStr}
	}

	var result models.QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &models.ProtocolError{Err: err}
	}

	// A non-empty errors list is a failure even when data coexists; partial
	// data is never returned alongside errors.
	if len(result.Errors) > 0 {
		c.logger.Warn("GraphQL query returned errors",
			"request_id", requestID,
			"error_count", len(result.Errors))
		return nil, &models.RemoteError{Errors: result.Errors}
	}

	c.logger.Debug("GraphQL query completed",
		"request_id", requestID,
		"data_bytes", len(result.Data))

	return result.Data, nil
}

// SetHTTPClient allows injecting a custom HTTP client (useful for testing).
func (c *GraphQLClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
