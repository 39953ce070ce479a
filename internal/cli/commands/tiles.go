package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
)

// NewTilesCommand creates the tiles command.
func NewTilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tiles <dashboard>",
		Short: "List a dashboard's tiles",
		Long: `List all tiles on a dashboard with their UUID, type, title, and
position. The dashboard name supports case-insensitive partial matching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			dashboard, err := cmdCtx.Engine.GetDashboardByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard: %s (%s)\n", dashboard.Name, dashboard.UUID)
			rows := make([]map[string]any, 0, len(dashboard.Tiles))
			for _, tile := range dashboard.Tiles {
				rows = append(rows, map[string]any{
					"uuid":     tile.UUID,
					"type":     string(tile.Type),
					"title":    tile.Title(),
					"position": fmt.Sprintf("%d,%d %dx%d", tile.X, tile.Y, tile.W, tile.H),
				})
			}
			render.Table(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
