// ABOUTME: This file defines the error taxonomy for the Shopify Admin API agent
// ABOUTME: Config, auth, HTTP, protocol, and remote errors are distinct, typed failures

package models

import (
	"fmt"
	"strings"
)

// ConfigError reports credentials missing at startup. Every missing key is
// collected so a single run surfaces the full set, before any network call.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// AuthError indicates the OAuth2 token endpoint could not produce a usable
// token: unreachable, timed out, non-success status, or a response missing
// the expected access_token/expires_in fields.
type AuthError struct {
	StatusCode int // 0 when the request never produced a status
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("oauth2 token request failed with status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("oauth2 token request failed: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("oauth2 token request failed: %s", e.Message)
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// HTTPError indicates the query endpoint returned a non-success status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("query request failed with status %d", e.StatusCode)
}

// ProtocolError indicates the query endpoint answered with a body that is
// not the expected JSON structure.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed query response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RemoteError indicates a well-formed response carrying a non-empty errors
// list. The list is preserved verbatim, in order, and is never merged with
// partial data.
type RemoteError struct {
	Errors []GraphQLError
}

func (e *RemoteError) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, gqlErr := range e.Errors {
		messages = append(messages, gqlErr.Message)
	}
	return fmt.Sprintf("query returned %d error(s): %s", len(e.Errors), strings.Join(messages, "; "))
}
