// ABOUTME: Tests for TokenManager caching, safety margin, and single-flight refresh
// ABOUTME: Verifies zero-network cache hits and concurrent refresh collapse

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shopify-ai-agent/driver"
	"shopify-ai-agent/mocks"
	"shopify-ai-agent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTokenServer returns an httptest server issuing client-credentials
// tokens and a counter of how many token requests it actually served.
func newTokenServer(t *testing.T, expiresIn int) (*httptest.Server, *int64) {
	t.Helper()
	var calls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/oauth/access_token" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		n := atomic.AddInt64(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": fmt.Sprintf("token-%d", n),
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func TestTokenManager_CachedTokenNoNetworkActivity(t *testing.T) {
	server, calls := newTokenServer(t, 3600)

	oauth2Client := driver.NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)
	manager := NewTokenManager(oauth2Client, 60*time.Second, nil)

	first, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)

	// Repeated calls inside the safety margin return the identical cached
	// value and never touch the endpoint again.
	for i := 0; i < 10; i++ {
		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, token)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(calls))
}

func TestTokenManager_RefreshInsideSafetyMargin(t *testing.T) {
	// Tokens live 30s against a 60s margin, so every issued token is
	// observed at or after expiresAt - margin and must be refreshed.
	server, calls := newTokenServer(t, 30)

	oauth2Client := driver.NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)
	manager := NewTokenManager(oauth2Client, 60*time.Second, nil)

	first, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)

	// expiresAt - margin is already in the past, so the next call refreshes.
	second, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", second)

	assert.Equal(t, int64(2), atomic.LoadInt64(calls))
}

func TestTokenManager_ConcurrentRefreshSingleFlight(t *testing.T) {
	var calls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)

		// Slow response so the goroutines overlap.
		time.Sleep(100 * time.Millisecond)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": fmt.Sprintf("token-%d", atomic.LoadInt64(&calls)),
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	oauth2Client := driver.NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)
	manager := NewTokenManager(oauth2Client, 60*time.Second, nil)

	const numConcurrent = 8
	var wg sync.WaitGroup
	tokens := make(chan string, numConcurrent)
	failures := make(chan error, numConcurrent)

	for i := 0; i < numConcurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			token, err := manager.GetToken(context.Background())
			if err != nil {
				failures <- err
				return
			}
			tokens <- token
		}()
	}

	wg.Wait()
	close(tokens)
	close(failures)

	for err := range failures {
		t.Errorf("unexpected error: %v", err)
	}

	received := make([]string, 0, numConcurrent)
	for token := range tokens {
		received = append(received, token)
	}

	require.Len(t, received, numConcurrent)
	for _, token := range received {
		assert.Equal(t, received[0], token, "all waiters should receive the single flight's token")
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "concurrent GetToken must collapse into one refresh")
}

func TestTokenManager_RefreshFailureLeavesCacheUntouched(t *testing.T) {
	var fail atomic.Bool
	var calls int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "short-lived",
			"token_type":   "Bearer",
			"expires_in":   30, // inside a 60s margin immediately
		})
	}))
	defer server.Close()

	oauth2Client := driver.NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)
	manager := NewTokenManager(oauth2Client, 60*time.Second, nil)

	_, err := manager.GetToken(context.Background())
	require.NoError(t, err)

	fail.Store(true)

	_, err = manager.GetToken(context.Background())
	require.Error(t, err)

	var authErr *models.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusServiceUnavailable, authErr.StatusCode)

	// The expired token is still the cached one; the failed refresh must not
	// have overwritten it with anything.
	status := manager.Status()
	assert.True(t, status.HasToken)
	assert.True(t, status.NeedsRefresh)

	metrics := manager.Metrics()
	assert.Equal(t, int64(1), metrics.FailedRefreshes)
}

func TestTokenManager_GetToken_DriverErrorPassesThrough(t *testing.T) {
	authErr := &models.AuthError{Message: "token response missing access_token"}

	ctrl := gomock.NewController(t)
	oauth2Driver := mocks.NewMockOAuth2Driver(ctrl)
	oauth2Driver.EXPECT().RequestToken(gomock.Any()).Return(nil, authErr)

	manager := NewTokenManager(oauth2Driver, 60*time.Second, nil)

	_, err := manager.GetToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, authErr, err, "driver failures must surface unchanged")

	status := manager.Status()
	assert.False(t, status.HasToken, "a protocol-violating response is never cached")
}

func TestTokenManager_GetToken_CachesDriverResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	oauth2Driver := mocks.NewMockOAuth2Driver(ctrl)
	oauth2Driver.EXPECT().
		RequestToken(gomock.Any()).
		Return(&models.TokenResponse{AccessToken: "mock-token", TokenType: "Bearer", ExpiresIn: 3600}, nil).
		Times(1)

	manager := NewTokenManager(oauth2Driver, 60*time.Second, nil)

	for i := 0; i < 3; i++ {
		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "mock-token", token)
	}

	metrics := manager.Metrics()
	assert.Equal(t, int64(1), metrics.RefreshAttempts)
	assert.Equal(t, int64(1), metrics.SuccessfulRefreshes)
}

func TestTokenManager_StatusWithoutToken(t *testing.T) {
	server, calls := newTokenServer(t, 3600)

	oauth2Client := driver.NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)
	manager := NewTokenManager(oauth2Client, 60*time.Second, nil)

	status := manager.Status()
	assert.False(t, status.HasToken)
	assert.True(t, status.NeedsRefresh)
	assert.Equal(t, int64(0), atomic.LoadInt64(calls), "Status must not trigger network activity")
}
