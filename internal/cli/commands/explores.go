package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
)

// NewExploresCommand creates the explores command.
func NewExploresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explores [table]",
		Short: "List explores, or show one explore's schema",
		Long: `Without arguments, lists the project's explores (tables).
With a table name, prints that explore's full field schema as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				explore, err := cmdCtx.Client.GetExplore(cmd.Context(), cmdCtx.Engine.ProjectUUID(), args[0])
				if err != nil {
					return fmt.Errorf("get explore %s: %w", args[0], err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(explore)
			}

			explores, err := cmdCtx.Client.ListExplores(cmd.Context(), cmdCtx.Engine.ProjectUUID())
			if err != nil {
				return fmt.Errorf("list explores: %w", err)
			}

			rows := make([]map[string]any, 0, len(explores))
			for _, e := range explores {
				rows = append(rows, map[string]any{
					"name":        e.Name,
					"label":       e.Label,
					"description": e.Description,
				})
			}
			render.Table(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
