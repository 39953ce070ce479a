package engine

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// sqlRunnerContext tags SQL-chart submissions with their execution context.
const sqlRunnerContext = "sqlRunner"

// executeTile runs one tile and normalizes the outcome to flattened rows
// plus a field schema. Dispatch is polymorphic over the tile kind: saved
// charts and SQL charts go through the submit-and-poll protocol, dashboard-
// only charts execute synchronously as ad-hoc queries.
func (e *Engine) executeTile(ctx context.Context, dashboard *core.Dashboard, tile core.Tile) (*core.RowResult, error) {
	switch tile.Type {
	case core.TileTypeSavedChart:
		return e.executeSavedChartTile(ctx, dashboard, tile)
	case core.TileTypeSQLChart:
		return e.executeSQLChartTile(ctx, tile)
	case core.TileTypeChart:
		return e.executeEmbeddedChartTile(ctx, dashboard, tile)
	default:
		return nil, fmt.Errorf("tile %s has type %q: %w", tile.UUID, tile.Type, core.ErrUnsupportedTile)
	}
}

// executeSavedChartTile submits an async dashboard-chart query carrying the
// per-tile resolved dashboard filters. The field schema is captured from
// the submit response; the poll response only contributes rows.
func (e *Engine) executeSavedChartTile(ctx context.Context, dashboard *core.Dashboard, tile core.Tile) (*core.RowResult, error) {
	chartUUID := tile.SavedChartUUID()
	if chartUUID == "" {
		return nil, fmt.Errorf("saved chart tile %s: %w", tile.UUID, core.ErrMissingReference)
	}

	query, err := e.api.SubmitDashboardChartQuery(ctx, lightdash.DashboardChartQueryRequest{
		ChartUUID:        chartUUID,
		DashboardUUID:    dashboard.UUID,
		DashboardFilters: core.ResolveDashboardFilters(dashboard.Filters, tile.UUID),
		DashboardSorts:   []any{},
		InvalidateCache:  false,
		PivotResults:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("submit chart %s: %w", chartUUID, err)
	}

	e.logger.Debug("submitted dashboard chart query", "tile_uuid", tile.UUID, "chart_uuid", chartUUID, "query_uuid", query.QueryUUID)

	status, err := e.awaitQuery(ctx, query.QueryUUID)
	if err != nil {
		return nil, err
	}
	rows := core.FlattenRows(status.Rows)
	return &core.RowResult{Rows: rows, RowCount: len(rows), Fields: query.Fields}, nil
}

// executeSQLChartTile submits an async sql-chart query. The schema source
// is deliberately different from the saved-chart path: it is the poll
// response's column descriptor, the submit response carries none.
func (e *Engine) executeSQLChartTile(ctx context.Context, tile core.Tile) (*core.RowResult, error) {
	sqlChartUUID := tile.SavedSQLUUID()
	if sqlChartUUID == "" {
		return nil, fmt.Errorf("sql chart tile %s: %w", tile.UUID, core.ErrMissingReference)
	}

	query, err := e.api.SubmitSQLChartQuery(ctx, lightdash.SQLChartQueryRequest{
		SavedSQLUUID: sqlChartUUID,
		Context:      sqlRunnerContext,
	})
	if err != nil {
		return nil, fmt.Errorf("submit sql chart %s: %w", sqlChartUUID, err)
	}

	e.logger.Debug("submitted sql chart query", "tile_uuid", tile.UUID, "sql_chart_uuid", sqlChartUUID, "query_uuid", query.QueryUUID)

	status, err := e.awaitQuery(ctx, query.QueryUUID)
	if err != nil {
		return nil, err
	}
	rows := core.FlattenRows(status.Rows)
	return &core.RowResult{Rows: rows, RowCount: len(rows), Fields: status.Columns}, nil
}

// embeddedChart is the slice of a dashboard-only chart definition the
// engine reads out of a tile.
type embeddedChart struct {
	MetricQuery core.MetricQuery `mapstructure:"metricQuery"`
	TableName   string           `mapstructure:"tableName"`
}

// executeEmbeddedChartTile runs a dashboard-only chart synchronously. The
// chart definition lives either in the hydrated belongsToChart structure or
// in the tile's own properties; dashboard filters are conjoined with the
// embedded query's filter tree before the ad-hoc query runs.
func (e *Engine) executeEmbeddedChartTile(ctx context.Context, dashboard *core.Dashboard, tile core.Tile) (*core.RowResult, error) {
	source := tile.Properties
	if tile.BelongsToChart != nil {
		source = tile.BelongsToChart
	}

	var chart embeddedChart
	if err := mapstructure.Decode(source, &chart); err != nil || chart.MetricQuery == nil {
		// Fall back to the tile's own properties before giving up.
		if err := mapstructure.Decode(tile.Properties, &chart); err != nil || chart.MetricQuery == nil {
			return nil, fmt.Errorf("tile %s: %w", tile.UUID, core.ErrMissingQuery)
		}
	}

	chartFilters, err := chart.MetricQuery.Filters()
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", tile.UUID, err)
	}
	merged := core.MergeFilters(chartFilters, dashboard.Filters.Tree())

	// Copy before mutating: the metric query aliases the fetched dashboard.
	query := make(core.MetricQuery, len(chart.MetricQuery))
	for k, v := range chart.MetricQuery {
		query[k] = v
	}
	query.SetFilters(merged)

	results, err := e.api.RunMetricQuery(ctx, e.projectUUID, chart.TableName, query)
	if err != nil {
		return nil, fmt.Errorf("run query for tile %s: %w", tile.UUID, err)
	}
	rows := core.FlattenRows(results.Rows)
	return &core.RowResult{Rows: rows, RowCount: len(rows), Fields: results.Fields}, nil
}
