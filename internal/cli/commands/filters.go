package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFiltersCommand creates the filters command group.
func NewFiltersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage dashboard-level filters",
	}
	cmd.AddCommand(newFiltersUpdateCommand())
	return cmd
}

func newFiltersUpdateCommand() *cobra.Command {
	var filtersJSON string

	cmd := &cobra.Command{
		Use:   "update <dashboard>",
		Short: "Replace a dashboard's filters",
		Long: `Replace the dashboard-level filters that apply to all tiles. The
filters document uses the dashboard filter shape: dimensions, metrics,
and tableCalculations channels, each a list of filter rules.

Changes apply immediately to all dashboard viewers.`,
		Example: `  lightdash filters update "Growth" --filters '{"dimensions":[{"id":"f1","target":{"fieldId":"orders_country"},"operator":"equals","values":["US"]}],"metrics":[],"tableCalculations":[]}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if err := cmdCtx.Engine.UpdateDashboardFilters(cmd.Context(), args[0], filtersJSON); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated filters on dashboard %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&filtersJSON, "filters", "", "Dashboard filters as JSON (required)")
	_ = cmd.MarkFlagRequired("filters")
	return cmd
}
