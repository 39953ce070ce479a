package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/poddubnyoleg/lightdash-mcp/internal/render"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// RunOptions selects which tiles of a dashboard to execute.
type RunOptions struct {
	// TileUUIDs restricts the run to these tiles, in dashboard order.
	// Empty means the default selection.
	TileUUIDs []string

	// IncludeSQLCharts adds sql_chart tiles to the default selection.
	// Historically the default ran saved_chart and chart tiles only;
	// sql_chart tiles ran when named explicitly. That asymmetry is
	// preserved as the default and surfaced through this flag.
	IncludeSQLCharts bool
}

// RunTiles resolves the dashboard once and executes the selected tiles
// concurrently on a bounded worker pool. Each tile's failure is recorded in
// its own entry and never aborts or affects sibling executions; the result
// always holds one entry per selected tile, keyed by tile UUID.
func (e *Engine) RunTiles(ctx context.Context, dashboardName string, opts RunOptions) (map[string]core.TileResult, error) {
	dashboard, err := e.GetDashboardByName(ctx, dashboardName)
	if err != nil {
		return nil, err
	}

	tiles := selectTiles(dashboard.Tiles, opts)
	e.logger.Info("executing dashboard tiles", "dashboard", dashboard.Name, "tiles", len(tiles))

	results := make(map[string]core.TileResult, len(tiles))
	if len(tiles) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(e.maxWorkers)
	for _, tile := range tiles {
		tile := tile
		g.Go(func() error {
			result := e.runTile(ctx, dashboard, tile)
			mu.Lock()
			results[tile.UUID] = result
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; per-tile failures live in the results.
	_ = g.Wait()

	return results, nil
}

// runTile executes one tile and converts the outcome into its report entry.
func (e *Engine) runTile(ctx context.Context, dashboard *core.Dashboard, tile core.Tile) core.TileResult {
	title := tile.Title()
	rowResult, err := e.executeTile(ctx, dashboard, tile)
	if err != nil {
		e.logger.Warn("tile execution failed", "tile_uuid", tile.UUID, "title", title, "error", err)
		return core.TileResult{Title: title, Status: core.TileStatusError, Error: err.Error()}
	}
	return core.TileResult{
		Title:   title,
		Status:  core.TileStatusSuccess,
		CSVData: render.CSV(rowResult.Rows, &render.Metadata{RowCount: rowResult.RowCount, Fields: rowResult.Fields}),
	}
}

// selectTiles picks the tiles to execute: the caller's explicit UUIDs
// intersected with the dashboard (in dashboard order), or the default
// executable kinds.
func selectTiles(tiles []core.Tile, opts RunOptions) []core.Tile {
	var selected []core.Tile
	if len(opts.TileUUIDs) > 0 {
		wanted := make(map[string]bool, len(opts.TileUUIDs))
		for _, id := range opts.TileUUIDs {
			wanted[id] = true
		}
		for _, tile := range tiles {
			if wanted[tile.UUID] {
				selected = append(selected, tile)
			}
		}
		return selected
	}

	for _, tile := range tiles {
		switch tile.Type {
		case core.TileTypeSavedChart, core.TileTypeChart:
			selected = append(selected, tile)
		case core.TileTypeSQLChart:
			if opts.IncludeSQLCharts {
				selected = append(selected, tile)
			}
		}
	}
	return selected
}
