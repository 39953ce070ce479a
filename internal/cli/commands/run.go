package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/poddubnyoleg/lightdash-mcp/internal/engine"
	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// NewRunCommand creates the run command group.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute dashboard tiles and queries",
	}
	cmd.AddCommand(
		newRunTilesCommand(),
		newRunChartCommand(),
		newRunQueryCommand(),
		newRunRawCommand(),
	)
	return cmd
}

func newRunTilesCommand() *cobra.Command {
	var tileUUIDs []string
	var includeSQLCharts bool

	cmd := &cobra.Command{
		Use:   "tiles <dashboard>",
		Short: "Execute dashboard tiles concurrently with dashboard filters applied",
		Long: `Fetch the dashboard once and execute its tiles in parallel, honoring
dashboard filters and per-tile filter overrides. Each tile succeeds or
fails independently; the output contains one section per tile.

By default all saved-chart and dashboard-only chart tiles run. SQL chart
tiles run only when named with --tiles or when --include-sql-charts is
set.`,
		Example: `  # Run every chart tile on the dashboard
  lightdash run tiles "Growth"

  # Run two specific tiles
  lightdash run tiles "Growth" --tiles 5f1c...,8ab2...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			results, err := cmdCtx.Engine.RunTiles(cmd.Context(), args[0], engine.RunOptions{
				TileUUIDs:        tileUUIDs,
				IncludeSQLCharts: includeSQLCharts,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching chart tiles found to execute.")
				return nil
			}

			printTileResults(cmd, results)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tileUUIDs, "tiles", nil, "Tile UUIDs to execute (default: all chart tiles)")
	cmd.Flags().BoolVar(&includeSQLCharts, "include-sql-charts", false, "Include sql_chart tiles in the default selection")
	return cmd
}

// printTileResults writes one section per tile, in stable UUID order since
// completion order carries no meaning.
func printTileResults(cmd *cobra.Command, results map[string]core.TileResult) {
	w := cmd.OutOrStdout()
	uuids := make([]string, 0, len(results))
	for id := range results {
		uuids = append(uuids, id)
	}
	sort.Strings(uuids)

	failures := 0
	for _, id := range uuids {
		result := results[id]
		fmt.Fprintf(w, "=== %s (%s) [%s]\n", result.Title, id, result.Status)
		if result.Status == core.TileStatusError {
			failures++
			fmt.Fprintf(w, "error: %s\n\n", result.Error)
			continue
		}
		fmt.Fprintf(w, "%s\n", result.CSVData)
	}
	fmt.Fprintf(w, "%d tiles, %d failed\n", len(results), failures)
}

func newRunChartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chart <dashboard> <chart>",
		Short: "Execute a chart with a dashboard's filters applied",
		Long: `Execute a saved chart in a dashboard's context, so the results match
what viewers of that dashboard see. The chart may be given by name or
UUID.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			result, err := cmdCtx.Engine.RunDashboardChart(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.CSV(result.Rows, &render.Metadata{
				RowCount: result.RowCount,
				Fields:   result.Fields,
			}))
			return nil
		},
	}
}

func newRunQueryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query <chart-uuid>",
		Short: "Execute a saved chart's query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			result, err := cmdCtx.Engine.RunChartQuery(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.CSV(result.Rows, &render.Metadata{
				RowCount: result.RowCount,
				Fields:   result.Fields,
			}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to return (0 = server default)")
	return cmd
}

func newRunRawCommand() *cobra.Command {
	var queryJSON string
	var limit int

	cmd := &cobra.Command{
		Use:   "raw <explore>",
		Short: "Execute an ad-hoc metric query against an explore",
		Long: `Run an arbitrary metric query (dimensions, metrics, filters, sorts)
against an explore. The query is given as a JSON document matching the
Lightdash metric query shape.`,
		Example: `  lightdash run raw orders --query '{"dimensions":["orders_status"],"metrics":["orders_total"],"limit":100}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			result, err := cmdCtx.Engine.RunRawQuery(cmd.Context(), args[0], queryJSON, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.CSV(result.Rows, &render.Metadata{
				RowCount: result.RowCount,
				Fields:   result.Fields,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&queryJSON, "query", "", "Metric query as JSON (required)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Row limit override")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
