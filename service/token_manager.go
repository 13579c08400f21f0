// ABOUTME: This file implements OAuth2 token lifecycle management for the Shopify Admin API
// ABOUTME: Caches the access token in memory and collapses concurrent refreshes via single-flight

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shopify-ai-agent/models"

	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=token_manager.go -destination=../mocks/token_manager_mock.go -package=mocks OAuth2Driver

// OAuth2Driver abstracts the token endpoint driver.
type OAuth2Driver interface {
	RequestToken(ctx context.Context) (*models.TokenResponse, error)
}

// defaultSafetyMargin is the buffer subtracted from the nominal expiry so a
// token is never used right as it expires mid-request.
const defaultSafetyMargin = 60 * time.Second

// TokenManager owns the cached access token and its expiry. It is the only
// component that writes the token; everyone else borrows the value through
// GetToken.
type TokenManager struct {
	oauth2Client OAuth2Driver
	logger       *slog.Logger
	safetyMargin time.Duration

	mu    sync.RWMutex
	token *models.Token

	// Single-flight group prevents concurrent refresh operations
	refreshGroup singleflight.Group

	metrics TokenManagerMetrics
}

// TokenManagerMetrics tracks token refresh operations.
type TokenManagerMetrics struct {
	RefreshAttempts     int64 `json:"refresh_attempts"`
	SuccessfulRefreshes int64 `json:"successful_refreshes"`
	FailedRefreshes     int64 `json:"failed_refreshes"`
	SingleFlightHits    int64 `json:"singleflight_hits"`
}

// NewTokenManager creates a token manager with the given safety margin.
// A zero margin selects the 60-second default.
func NewTokenManager(oauth2Client OAuth2Driver, safetyMargin time.Duration, logger *slog.Logger) *TokenManager {
	if logger == nil {
		logger = slog.Default()
	}
	if safetyMargin <= 0 {
		safetyMargin = defaultSafetyMargin
	}

	return &TokenManager{
		oauth2Client: oauth2Client,
		logger:       logger,
		safetyMargin: safetyMargin,
	}
}

// GetToken returns a currently-valid access token. A cached token strictly
// inside its safety margin is returned with zero network activity; otherwise
// one refresh is performed through the OAuth endpoint and its result is
// shared with every concurrent caller.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if token != nil && !token.NeedsRefresh(m.safetyMargin) {
		return token.AccessToken, nil
	}

	refreshed, err := m.refresh(ctx)
	if err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

// refresh performs a single-flight protected token refresh. Concurrent
// callers observing an expired cache collapse into one underlying request
// and all receive its result.
func (m *TokenManager) refresh(ctx context.Context) (*models.Token, error) {
	result, err, shared := m.refreshGroup.Do("token_refresh", func() (interface{}, error) {
		// Re-check in case another flight already replaced the token.
		m.mu.RLock()
		current := m.token
		m.mu.RUnlock()
		if current != nil && !current.NeedsRefresh(m.safetyMargin) {
			return current, nil
		}

		m.recordAttempt()

		response, err := m.oauth2Client.RequestToken(ctx)
		if err != nil {
			// The cache stays untouched on failure.
			m.recordFailure()
			return nil, err
		}

		token := models.NewToken(*response)

		m.mu.Lock()
		m.token = token
		m.mu.Unlock()

		m.recordSuccess()
		m.logger.Info("Access token refreshed",
			"expires_at", token.ExpiresAt,
			"expires_in_seconds", token.ExpiresIn)

		return token, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		m.recordSingleFlightHit()
		m.logger.Debug("Token refresh result shared with concurrent caller")
	}

	return result.(*models.Token), nil
}

// TokenStatus reports the current state of the cached token for monitoring.
type TokenStatus struct {
	HasToken         bool      `json:"has_token"`
	TokenType        string    `json:"token_type,omitempty"`
	ExpiresAt        time.Time `json:"expires_at,omitempty"`
	ExpiresInSeconds int64     `json:"expires_in_seconds,omitempty"`
	NeedsRefresh     bool      `json:"needs_refresh"`
}

// Status returns the current token status without touching the network.
func (m *TokenManager) Status() TokenStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == nil {
		return TokenStatus{NeedsRefresh: true}
	}

	return TokenStatus{
		HasToken:         true,
		TokenType:        m.token.TokenType,
		ExpiresAt:        m.token.ExpiresAt,
		ExpiresInSeconds: int64(m.token.TimeUntilExpiry().Seconds()),
		NeedsRefresh:     m.token.NeedsRefresh(m.safetyMargin),
	}
}

// Metrics returns a snapshot of the refresh counters.
func (m *TokenManager) Metrics() TokenManagerMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics
}

func (m *TokenManager) recordAttempt() {
	m.mu.Lock()
	m.metrics.RefreshAttempts++
	m.mu.Unlock()
}

func (m *TokenManager) recordSuccess() {
	m.mu.Lock()
	m.metrics.SuccessfulRefreshes++
	m.mu.Unlock()
}

func (m *TokenManager) recordFailure() {
	m.mu.Lock()
	m.metrics.FailedRefreshes++
	m.mu.Unlock()
}

func (m *TokenManager) recordSingleFlightHit() {
	m.mu.Lock()
	m.metrics.SingleFlightHits++
	m.mu.Unlock()
}
