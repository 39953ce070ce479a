package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

func TestRunTile_PropagatesTileError(t *testing.T) {
	dashboard := &core.Dashboard{
		UUID:  "dash-1",
		Name:  "Growth",
		Tiles: []core.Tile{{UUID: "tile-md", Type: core.TileTypeMarkdown}},
	}
	eng := newTestEngine(t, dashboardAPI(dashboard))

	_, err := eng.RunTile(context.Background(), "Growth", "tile-md")
	assert.ErrorIs(t, err, core.ErrUnsupportedTile)
}

func TestRunTile_UnknownTileUUID(t *testing.T) {
	dashboard := &core.Dashboard{UUID: "dash-1", Name: "Growth"}
	eng := newTestEngine(t, dashboardAPI(dashboard))

	_, err := eng.RunTile(context.Background(), "Growth", "tile-x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRunDashboardChart(t *testing.T) {
	dashboard := &core.Dashboard{
		UUID: "dash-1",
		Name: "Growth",
		Filters: core.DashboardFilters{
			Dimensions: []core.DashboardFilterRule{{ID: "f1", Operator: "equals"}},
		},
	}

	api := dashboardAPI(dashboard)
	api.listCharts = func(context.Context, string) ([]lightdash.ChartSummary, error) {
		return []lightdash.ChartSummary{{UUID: "chart-1", Name: "Orders"}}, nil
	}
	api.runSavedChart = func(_ context.Context, chartUUID, dashboardUUID string, body lightdash.SavedChartQuery) (*lightdash.QueryResults, error) {
		assert.Equal(t, "chart-1", chartUUID)
		assert.Equal(t, "dash-1", dashboardUUID)
		require.NotNil(t, body.Filters)
		assert.Len(t, body.Filters.Dimensions, 1)
		return &lightdash.QueryResults{Rows: wrappedRows()}, nil
	}
	eng := newTestEngine(t, api)

	result, err := eng.RunDashboardChart(context.Background(), "Growth", "orders")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"orders_total": 42.0}}, result.Rows)
	assert.Equal(t, 1, result.RowCount)
}

func TestRunChartQuery_LimitTrimsClientSide(t *testing.T) {
	api := &fakeAPI{
		runSavedChart: func(_ context.Context, chartUUID, dashboardUUID string, body lightdash.SavedChartQuery) (*lightdash.QueryResults, error) {
			assert.Equal(t, "chart-1", chartUUID)
			assert.Empty(t, dashboardUUID)
			assert.Equal(t, 2, body.Limit)
			// The endpoint ignored the limit.
			return &lightdash.QueryResults{Rows: []map[string]any{
				{"n": 1.0}, {"n": 2.0}, {"n": 3.0},
			}}, nil
		},
	}
	eng := newTestEngine(t, api)

	result, err := eng.RunChartQuery(context.Background(), "chart-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.Len(t, result.Rows, 2)
}

func TestRunRawQuery(t *testing.T) {
	var captured core.MetricQuery
	api := &fakeAPI{
		runMetricQuery: func(_ context.Context, projectUUID, exploreName string, query core.MetricQuery) (*lightdash.QueryResults, error) {
			assert.Equal(t, "project-1", projectUUID)
			assert.Equal(t, "orders", exploreName)
			captured = query
			return &lightdash.QueryResults{Rows: wrappedRows()}, nil
		},
	}
	eng := newTestEngine(t, api)

	result, err := eng.RunRawQuery(context.Background(),
		"orders", `{"dimensions":["orders_status"],"limit":500}`, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
	// The explicit limit overrides the one embedded in the query JSON.
	assert.Equal(t, 10, captured["limit"])
}

func TestRunRawQuery_MalformedJSON(t *testing.T) {
	eng := newTestEngine(t, &fakeAPI{})

	_, err := eng.RunRawQuery(context.Background(), "orders", `{not json`, 0)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestUpdateDashboardFilters(t *testing.T) {
	dashboard := &core.Dashboard{
		UUID:  "dash-1",
		Name:  "Growth",
		Tiles: []core.Tile{{UUID: "tile-1", Type: core.TileTypeSavedChart}},
	}

	var captured lightdash.UpdateDashboardRequest
	api := dashboardAPI(dashboard)
	api.updateDashboard = func(_ context.Context, dashboardUUID string, req lightdash.UpdateDashboardRequest) error {
		assert.Equal(t, "dash-1", dashboardUUID)
		captured = req
		return nil
	}
	eng := newTestEngine(t, api)

	err := eng.UpdateDashboardFilters(context.Background(), "Growth",
		`{"dimensions":[{"id":"f1","operator":"equals"}],"metrics":[],"tableCalculations":[]}`)
	require.NoError(t, err)

	// Name and tiles ride along unchanged so the PATCH does not clobber them.
	assert.Equal(t, "Growth", captured.Name)
	assert.Len(t, captured.Tiles, 1)
	require.Len(t, captured.Filters.Dimensions, 1)
	assert.Equal(t, "f1", captured.Filters.Dimensions[0].ID)
}

func TestUpdateDashboardFilters_MalformedJSON(t *testing.T) {
	eng := newTestEngine(t, &fakeAPI{})

	err := eng.UpdateDashboardFilters(context.Background(), "Growth", `[]`)
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}
