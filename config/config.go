// ABOUTME: This file handles configuration management for shopify-ai-agent
// ABOUTME: Loads .env files and environment variables for Shopify Admin API access

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"shopify-ai-agent/models"

	"github.com/joho/godotenv"
)

// Documented defaults. The safety margin and timeout are configuration
// constants, not literals baked into the token or query logic.
const (
	DefaultAPIVersion   = "2025-01"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultSafetyMargin = 60 * time.Second
)

// Config holds all configuration for the shopify-ai-agent.
type Config struct {
	// Service configuration
	ServiceName string
	LogLevel    string

	// Shopify Admin API configuration
	Shopify ShopifyConfig

	// HTTP client configuration
	HTTP HTTPConfig

	// Token lifecycle configuration
	Token TokenConfig
}

// ShopifyConfig holds shop identity and Admin API settings.
type ShopifyConfig struct {
	Shop         string
	ClientID     string
	ClientSecret string
	APIVersion   string
	BaseURL      string // Overrides https://{shop}.myshopify.com, used by tests
}

// HTTPConfig holds HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration
}

// TokenConfig holds token lifecycle settings.
type TokenConfig struct {
	SafetyMargin time.Duration
}

// Load loads configuration from the optional key=value file at envFile and
// from environment variables. Values already present in the environment take
// precedence over file values; godotenv never overrides set variables and
// already handles comments, blank lines, and surrounding quotes.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
			}
		}
	}

	cfg := &Config{
		ServiceName: getEnvOrDefault("SERVICE_NAME", "shopify-ai-agent"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		Shopify: ShopifyConfig{
			Shop:         os.Getenv("SHOPIFY_SHOP"),          // Required
			ClientID:     os.Getenv("SHOPIFY_CLIENT_ID"),     // Required
			ClientSecret: os.Getenv("SHOPIFY_CLIENT_SECRET"), // Required
			APIVersion:   getEnvOrDefault("SHOPIFY_API_VERSION", DefaultAPIVersion),
			BaseURL:      os.Getenv("SHOPIFY_BASE_URL"),
		},

		HTTP: HTTPConfig{
			Timeout: getEnvSecondsOrDefault("SHOPIFY_HTTP_TIMEOUT", DefaultHTTPTimeout),
		},

		Token: TokenConfig{
			SafetyMargin: getEnvSecondsOrDefault("SHOPIFY_TOKEN_SAFETY_MARGIN", DefaultSafetyMargin),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the required credentials, collecting every missing key so
// a single run reports the full set rather than failing on the first check.
func (c *Config) Validate() error {
	var missing []string

	if c.Shopify.Shop == "" {
		missing = append(missing, "SHOPIFY_SHOP")
	}
	if c.Shopify.ClientID == "" {
		missing = append(missing, "SHOPIFY_CLIENT_ID")
	}
	if c.Shopify.ClientSecret == "" {
		missing = append(missing, "SHOPIFY_CLIENT_SECRET")
	}

	if len(missing) > 0 {
		return &models.ConfigError{Missing: missing}
	}

	return nil
}

// AdminBaseURL returns the Admin API base URL, honoring the test override.
func (c *ShopifyConfig) AdminBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return fmt.Sprintf("https://%s.myshopify.com", c.Shop)
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSecondsOrDefault parses an integer-seconds environment variable into
// a duration, falling back to the default on absence or parse failure.
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
