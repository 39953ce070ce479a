package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
)

// NewDashboardsCommand creates the dashboards command.
func NewDashboardsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboards",
		Short: "List dashboards in the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			dashboards, err := cmdCtx.Client.ListDashboards(cmd.Context(), cmdCtx.Engine.ProjectUUID())
			if err != nil {
				return fmt.Errorf("list dashboards: %w", err)
			}

			rows := make([]map[string]any, 0, len(dashboards))
			for _, d := range dashboards {
				rows = append(rows, map[string]any{
					"uuid": d.UUID,
					"name": d.Name,
				})
			}
			render.Table(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
