// ABOUTME: Tests for the OAuth2 client-credentials driver
// ABOUTME: Verifies wire format, status mapping, and protocol violation handling

package driver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopify-ai-agent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuth2Client_RequestToken_Success(t *testing.T) {
	var gotContentType, gotGrantType, gotClientID, gotClientSecret string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/oauth/access_token", r.URL.Path)

		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotGrantType = r.PostForm.Get("grant_type")
		gotClientID = r.PostForm.Get("client_id")
		gotClientSecret = r.PostForm.Get("client_secret")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "issued-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	client := NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)

	response, err := client.RequestToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "issued-token", response.AccessToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, 3600, response.ExpiresIn)

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "client_credentials", gotGrantType)
	assert.Equal(t, "test-client", gotClientID)
	assert.Equal(t, "test-secret", gotClientSecret)
}

func TestOAuth2Client_RequestToken_NonSuccessStatus(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
	}{
		"unauthorized":   {status: http.StatusUnauthorized, body: `{"error":"invalid_client"}`},
		"bad_request":    {status: http.StatusBadRequest, body: `{"error":"unsupported_grant_type"}`},
		"server_failure": {status: http.StatusBadGateway, body: "bad gateway"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)

			_, err := client.RequestToken(context.Background())
			require.Error(t, err)

			var authErr *models.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, tc.status, authErr.StatusCode)
		})
	}
}

func TestOAuth2Client_RequestToken_ProtocolViolations(t *testing.T) {
	tests := map[string]struct {
		body string
	}{
		"missing_access_token": {body: `{"token_type":"Bearer","expires_in":3600}`},
		"missing_expires_in":   {body: `{"access_token":"tok","token_type":"Bearer"}`},
		"not_json":             {body: `<html>oops</html>`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewOAuth2Client("test-client", "test-secret", server.URL, 5*time.Second, nil)

			_, err := client.RequestToken(context.Background())
			require.Error(t, err)

			var authErr *models.AuthError
			assert.True(t, errors.As(err, &authErr), "protocol violations must surface as AuthError")
		})
	}
}

func TestOAuth2Client_RequestToken_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // reachable URL, refused connection

	client := NewOAuth2Client("test-client", "test-secret", server.URL, time.Second, nil)

	_, err := client.RequestToken(context.Background())
	require.Error(t, err)

	var authErr *models.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Zero(t, authErr.StatusCode)
	assert.Error(t, authErr.Unwrap())
}
