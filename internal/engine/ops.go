package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// RunTile executes a single tile of the named dashboard. Unlike RunTiles
// this propagates the execution error directly: a single-tile caller asked
// for exactly this result and there are no siblings to isolate.
func (e *Engine) RunTile(ctx context.Context, dashboardName, tileUUID string) (*core.RowResult, error) {
	dashboard, err := e.GetDashboardByName(ctx, dashboardName)
	if err != nil {
		return nil, err
	}
	for _, tile := range dashboard.Tiles {
		if tile.UUID == tileUUID {
			return e.executeTile(ctx, dashboard, tile)
		}
	}
	return nil, fmt.Errorf("tile %q on dashboard %q: %w", tileUUID, dashboard.Name, core.ErrNotFound)
}

// RunDashboardChart executes a chart through the legacy synchronous results
// endpoint with the dashboard's filters applied, simulating how the chart
// renders on that dashboard.
func (e *Engine) RunDashboardChart(ctx context.Context, dashboardName, chartIdentifier string) (*core.RowResult, error) {
	dashboard, err := e.GetDashboardByName(ctx, dashboardName)
	if err != nil {
		return nil, err
	}
	chartUUID, err := e.resolveChartUUID(ctx, chartIdentifier)
	if err != nil {
		return nil, err
	}

	results, err := e.api.RunSavedChart(ctx, chartUUID, dashboard.UUID, lightdash.SavedChartQuery{
		Filters: &dashboard.Filters,
	})
	if err != nil {
		return nil, fmt.Errorf("run chart %s: %w", chartUUID, err)
	}
	rows := core.FlattenRows(results.Rows)
	return &core.RowResult{Rows: rows, RowCount: len(rows), Fields: results.Fields}, nil
}

// RunChartQuery executes a saved chart's configured query without dashboard
// context. limit restricts the returned rows when positive; the endpoint
// does not always honor it, so the rows are trimmed client-side as well.
func (e *Engine) RunChartQuery(ctx context.Context, chartUUID string, limit int) (*core.RowResult, error) {
	var body lightdash.SavedChartQuery
	if limit > 0 {
		body.Limit = limit
	}
	results, err := e.api.RunSavedChart(ctx, chartUUID, "", body)
	if err != nil {
		return nil, fmt.Errorf("run chart %s: %w", chartUUID, err)
	}
	rows := results.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	rows = core.FlattenRows(rows)
	return &core.RowResult{Rows: rows, RowCount: len(rows), Fields: results.Fields}, nil
}

// RunRawQuery executes an ad-hoc metric query, given as JSON, against an
// explore. limit overrides the query's own limit when positive.
func (e *Engine) RunRawQuery(ctx context.Context, exploreName, metricQueryJSON string, limit int) (*core.RowResult, error) {
	var query core.MetricQuery
	if err := json.Unmarshal([]byte(metricQueryJSON), &query); err != nil {
		return nil, fmt.Errorf("metric query: %w: %v", core.ErrMalformedInput, err)
	}
	if limit > 0 {
		query["limit"] = limit
	}

	results, err := e.api.RunMetricQuery(ctx, e.projectUUID, exploreName, query)
	if err != nil {
		return nil, fmt.Errorf("run query on explore %s: %w", exploreName, err)
	}
	rows := core.FlattenRows(results.Rows)
	return &core.RowResult{Rows: rows, RowCount: len(rows), Fields: results.Fields}, nil
}

// UpdateDashboardFilters replaces the named dashboard's filters, carrying
// name, tiles, and tabs over unchanged since the endpoint replaces the
// whole dashboard content.
func (e *Engine) UpdateDashboardFilters(ctx context.Context, dashboardName, filtersJSON string) error {
	var filters core.DashboardFilters
	if err := json.Unmarshal([]byte(filtersJSON), &filters); err != nil {
		return fmt.Errorf("filters: %w: %v", core.ErrMalformedInput, err)
	}

	dashboard, err := e.GetDashboardByName(ctx, dashboardName)
	if err != nil {
		return err
	}

	tabs := make([]any, 0, len(dashboard.Tabs))
	for _, tab := range dashboard.Tabs {
		tabs = append(tabs, tab)
	}
	err = e.api.UpdateDashboard(ctx, dashboard.UUID, lightdash.UpdateDashboardRequest{
		Name:    dashboard.Name,
		Tiles:   dashboard.Tiles,
		Filters: filters,
		Tabs:    tabs,
	})
	if err != nil {
		return fmt.Errorf("update dashboard %s: %w", dashboard.UUID, err)
	}
	e.logger.Info("updated dashboard filters", "dashboard", dashboard.Name)
	return nil
}
