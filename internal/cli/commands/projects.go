package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
)

// NewProjectsCommand creates the projects command.
func NewProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "projects [project-uuid]",
		Short: "List the organization's projects, or show one project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				project, err := cmdCtx.Client.GetProject(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("get project %s: %w", args[0], err)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(project)
			}

			projects, err := cmdCtx.Client.ListProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}

			rows := make([]map[string]any, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, map[string]any{
					"uuid": p.ProjectUUID,
					"name": p.Name,
					"type": p.Type,
				})
			}
			render.Table(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}
