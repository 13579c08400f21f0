// ABOUTME: High-level client for executing Admin GraphQL queries
// ABOUTME: Borrows a valid token from the token manager and dispatches through the query driver

package service

import (
	"context"
	"encoding/json"
	"log/slog"
)

//go:generate mockgen -source=shopify_client.go -destination=../mocks/shopify_client_mock.go -package=mocks TokenSource,QueryDriver

// TokenSource produces a currently-valid access token on demand.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// QueryDriver posts a query document to the Admin GraphQL endpoint.
type QueryDriver interface {
	Execute(ctx context.Context, accessToken, query string) (json.RawMessage, error)
}

// ShopifyClient executes GraphQL queries against the Shopify Admin API.
// It has no state of its own: the token cache lives in the token source and
// query results are never cached locally.
type ShopifyClient struct {
	tokens TokenSource
	driver QueryDriver
	logger *slog.Logger
}

// NewShopifyClient creates a new Admin API client.
func NewShopifyClient(tokens TokenSource, driver QueryDriver, logger *slog.Logger) *ShopifyClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &ShopifyClient{
		tokens: tokens,
		driver: driver,
		logger: logger,
	}
}

// Execute runs a single query and returns the data payload. Token manager
// failures pass through unchanged; driver failures keep their typed error.
func (c *ShopifyClient) Execute(ctx context.Context, query string) (json.RawMessage, error) {
	accessToken, err := c.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.driver.Execute(ctx, accessToken, query)
	if err != nil {
		c.logger.Error("Query execution failed", "error", err)
		return nil, err
	}

	c.logger.Debug("Query executed", "data_bytes", len(data))

	return data, nil
}
