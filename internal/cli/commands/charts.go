package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
)

// NewChartsCommand creates the charts command group. Bare `charts` lists.
func NewChartsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "List and manage saved charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			charts, err := cmdCtx.Client.ListCharts(cmd.Context(), cmdCtx.Engine.ProjectUUID())
			if err != nil {
				return fmt.Errorf("list charts: %w", err)
			}

			rows := make([]map[string]any, 0, len(charts))
			for _, c := range charts {
				rows = append(rows, map[string]any{
					"uuid":  c.UUID,
					"name":  c.Name,
					"space": c.SpaceName,
				})
			}
			render.Table(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.AddCommand(newChartsShowCommand(), newChartsDeleteCommand())
	return cmd
}

func newChartsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <chart-uuid>",
		Short: "Show a saved chart's full definition as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			chart, err := cmdCtx.Client.GetChart(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get chart %s: %w", args[0], err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(chart)
		},
	}
}

func newChartsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chart-uuid>",
		Short: "Delete a saved chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if err := cmdCtx.Client.DeleteChart(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete chart %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted chart %s\n", args[0])
			return nil
		},
	}
}
