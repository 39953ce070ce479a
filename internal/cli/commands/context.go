package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/cli/config"
	"github.com/poddubnyoleg/lightdash-mcp/internal/engine"
	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
)

type configKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded configuration in ctx for commands to pick up.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in ctx for commands to pick up.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// CommandContext bundles everything a command needs: resolved config, the
// API client, and an engine scoped to the resolved project.
type CommandContext struct {
	Config *config.Config
	Logger *slog.Logger
	Client *lightdash.Client
	Engine *engine.Engine
}

// NewCommandContext builds the client and engine from the configuration
// stored by the root command. The project UUID is resolved here, once,
// and threaded into the engine explicitly.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()

	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		logger = slog.Default()
	}

	client := lightdash.New(lightdash.Config{
		BaseURL:              cfg.URL,
		Token:                cfg.Token,
		CFAccessClientID:     cfg.CFAccessClientID,
		CFAccessClientSecret: cfg.CFAccessClientSecret,
		Logger:               logger,
	})

	projectUUID := cfg.ProjectUUID
	if projectUUID == "" {
		resolved, err := client.DefaultProjectUUID(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve default project: %w", err)
		}
		projectUUID = resolved
		logger.Debug("resolved default project", "project_uuid", projectUUID)
	}

	eng := engine.New(engine.Config{
		API:         client,
		ProjectUUID: projectUUID,
		Logger:      logger,
	})

	return &CommandContext{Config: cfg, Logger: logger, Client: client, Engine: eng}, nil
}
