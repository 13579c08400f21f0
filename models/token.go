// ABOUTME: This file defines domain models for Shopify Admin API token management
// ABOUTME: Handles access token expiry tracking and safety-margin refresh decisions

package models

import (
	"time"
)

// Token represents an access token issued by the Shopify Admin OAuth
// endpoint. A Token is never mutated in place; refreshes produce a
// replacement value.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"` // Seconds until expiration, as issued
	ExpiresAt   time.Time `json:"expires_at"` // Calculated expiration time
	IssuedAt    time.Time `json:"issued_at"`  // When token was issued
}

// TokenResponse represents the OAuth2 token response from the Shopify
// access_token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// NewToken creates a Token from a token endpoint response, computing the
// absolute expiry from the relative expires_in value.
func NewToken(response TokenResponse) *Token {
	now := time.Now()
	return &Token{
		AccessToken: response.AccessToken,
		TokenType:   response.TokenType,
		ExpiresIn:   response.ExpiresIn,
		ExpiresAt:   now.Add(time.Duration(response.ExpiresIn) * time.Second),
		IssuedAt:    now,
	}
}

// IsExpired checks if the token is expired.
func (t *Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// NeedsRefresh reports whether the token must be refreshed given a safety
// margin. A token observed at or after expiresAt - margin needs refresh.
func (t *Token) NeedsRefresh(margin time.Duration) bool {
	return !time.Now().Add(margin).Before(t.ExpiresAt)
}

// TimeUntilExpiry returns the duration until token expiry.
func (t *Token) TimeUntilExpiry() time.Duration {
	return time.Until(t.ExpiresAt)
}

// IsValid checks if the token is non-empty and not expired.
func (t *Token) IsValid() bool {
	return t.AccessToken != "" && !t.IsExpired()
}
