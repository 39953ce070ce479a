// Package cli provides the lightdash command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/cli/commands"
	"github.com/poddubnyoleg/lightdash-mcp/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lightdash",
		Short: "Lightdash dashboard and query toolkit",
		Long: `lightdash talks to a Lightdash instance: list projects, dashboards,
charts, and spaces, inspect explore schemas, and execute dashboard tiles
with dashboard filters applied.

Configuration comes from lightdash.yaml, LIGHTDASH_* environment
variables, or flags (flags win).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to config file (default: lightdash.yaml)")
	flags.String("url", "", "Lightdash instance URL")
	flags.String("token", "", "Lightdash API token")
	flags.String("project", "", "Project UUID (default: first project on the instance)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewProjectsCommand(),
		commands.NewDashboardsCommand(),
		commands.NewChartsCommand(),
		commands.NewSpacesCommand(),
		commands.NewExploresCommand(),
		commands.NewTilesCommand(),
		commands.NewRunCommand(),
		commands.NewFiltersCommand(),
		commands.NewVersionCommand(Version, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
