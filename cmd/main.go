package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"shopify-ai-agent/config"
	"shopify-ai-agent/driver"
	"shopify-ai-agent/service"

	"github.com/spf13/cobra"
)

const defaultQuery = "{ products(first: 3) { edges { node { id title handle } } } }"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "shopify-ai-agent",
		Short:         "Query the Shopify Admin API using client-credentials authentication",
		Long:          "Authenticates against the Shopify Admin API with the OAuth2 client-credentials grant and forwards GraphQL queries, caching the bearer token in memory.",
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error once
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a key=value credentials file (environment variables take precedence)")

	rootCmd.AddCommand(newQueryCommand(&envFile))
	rootCmd.AddCommand(newTokenCommand(&envFile))

	return rootCmd
}

func newQueryCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "query [graphql]",
		Short: "Execute an Admin GraphQL query and print the data payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := buildAgent(*envFile)
			if err != nil {
				return err
			}

			query := defaultQuery
			if len(args) == 1 {
				query = args[0]
			}

			data, err := agent.client.Execute(cmd.Context(), query)
			if err != nil {
				return err
			}

			return printJSON(cmd, data)
		},
	}
}

func newTokenCommand(envFile *string) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect the access token lifecycle",
	}

	tokenCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Obtain a token and print its expiry status",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := buildAgent(*envFile)
			if err != nil {
				return err
			}

			if _, err := agent.tokens.GetToken(cmd.Context()); err != nil {
				return err
			}

			return printJSON(cmd, agent.tokens.Status())
		},
	})

	return tokenCmd
}

// agent bundles the wired components behind the CLI commands.
type agent struct {
	cfg    *config.Config
	tokens *service.TokenManager
	client *service.ShopifyClient
}

// buildAgent loads and validates configuration, then wires the drivers,
// token manager, and client. Config errors surface here, before any
// network activity.
func buildAgent(envFile string) (*agent, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	baseURL := cfg.Shopify.AdminBaseURL()
	oauth2Client := driver.NewOAuth2Client(cfg.Shopify.ClientID, cfg.Shopify.ClientSecret, baseURL, cfg.HTTP.Timeout, logger)
	graphqlClient := driver.NewGraphQLClient(baseURL, cfg.Shopify.APIVersion, cfg.HTTP.Timeout, logger)

	tokens := service.NewTokenManager(oauth2Client, cfg.Token.SafetyMargin, logger)
	client := service.NewShopifyClient(tokens, graphqlClient, logger)

	logger.Debug("Agent configured",
		"service", cfg.ServiceName,
		"shop", cfg.Shopify.Shop,
		"api_version", cfg.Shopify.APIVersion,
		"token_safety_margin", cfg.Token.SafetyMargin)

	return &agent{cfg: cfg, tokens: tokens, client: client}, nil
}

// newLogger builds the structured JSON logger. Logs go to stderr so stdout
// stays reserved for query results.
func newLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
