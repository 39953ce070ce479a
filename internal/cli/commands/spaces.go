package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
)

// NewSpacesCommand creates the spaces command.
func NewSpacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spaces",
		Short: "List spaces in the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			spaces, err := cmdCtx.Client.ListSpaces(cmd.Context(), cmdCtx.Engine.ProjectUUID())
			if err != nil {
				return fmt.Errorf("list spaces: %w", err)
			}

			rows := make([]map[string]any, 0, len(spaces))
			for _, s := range spaces {
				rows = append(rows, map[string]any{
					"uuid":    s.UUID,
					"name":    s.Name,
					"private": s.IsPrivate,
				})
			}
			render.Table(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
