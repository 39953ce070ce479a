package engine

import (
	"context"
	"testing"
	"time"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/internal/testutil"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// fakeAPI scripts the Lightdash client for engine tests. Unset methods fail
// the test when called.
type fakeAPI struct {
	t testing.TB

	listDashboards            func(ctx context.Context, projectUUID string) ([]lightdash.DashboardSummary, error)
	getDashboard              func(ctx context.Context, dashboardUUID string) (*core.Dashboard, error)
	updateDashboard           func(ctx context.Context, dashboardUUID string, req lightdash.UpdateDashboardRequest) error
	listCharts                func(ctx context.Context, projectUUID string) ([]lightdash.ChartSummary, error)
	runSavedChart             func(ctx context.Context, chartUUID, dashboardUUID string, body lightdash.SavedChartQuery) (*lightdash.QueryResults, error)
	submitDashboardChartQuery func(ctx context.Context, req lightdash.DashboardChartQueryRequest) (*lightdash.AsyncQuery, error)
	submitSQLChartQuery       func(ctx context.Context, req lightdash.SQLChartQueryRequest) (*lightdash.AsyncQuery, error)
	getQueryStatus            func(ctx context.Context, queryUUID string) (*lightdash.QueryStatus, error)
	runMetricQuery            func(ctx context.Context, projectUUID, exploreName string, query core.MetricQuery) (*lightdash.QueryResults, error)
}

func (f *fakeAPI) ListDashboards(ctx context.Context, projectUUID string) ([]lightdash.DashboardSummary, error) {
	if f.listDashboards == nil {
		f.t.Fatal("unexpected ListDashboards call")
	}
	return f.listDashboards(ctx, projectUUID)
}

func (f *fakeAPI) GetDashboard(ctx context.Context, dashboardUUID string) (*core.Dashboard, error) {
	if f.getDashboard == nil {
		f.t.Fatal("unexpected GetDashboard call")
	}
	return f.getDashboard(ctx, dashboardUUID)
}

func (f *fakeAPI) UpdateDashboard(ctx context.Context, dashboardUUID string, req lightdash.UpdateDashboardRequest) error {
	if f.updateDashboard == nil {
		f.t.Fatal("unexpected UpdateDashboard call")
	}
	return f.updateDashboard(ctx, dashboardUUID, req)
}

func (f *fakeAPI) ListCharts(ctx context.Context, projectUUID string) ([]lightdash.ChartSummary, error) {
	if f.listCharts == nil {
		f.t.Fatal("unexpected ListCharts call")
	}
	return f.listCharts(ctx, projectUUID)
}

func (f *fakeAPI) RunSavedChart(ctx context.Context, chartUUID, dashboardUUID string, body lightdash.SavedChartQuery) (*lightdash.QueryResults, error) {
	if f.runSavedChart == nil {
		f.t.Fatal("unexpected RunSavedChart call")
	}
	return f.runSavedChart(ctx, chartUUID, dashboardUUID, body)
}

func (f *fakeAPI) SubmitDashboardChartQuery(ctx context.Context, req lightdash.DashboardChartQueryRequest) (*lightdash.AsyncQuery, error) {
	if f.submitDashboardChartQuery == nil {
		f.t.Fatal("unexpected SubmitDashboardChartQuery call")
	}
	return f.submitDashboardChartQuery(ctx, req)
}

func (f *fakeAPI) SubmitSQLChartQuery(ctx context.Context, req lightdash.SQLChartQueryRequest) (*lightdash.AsyncQuery, error) {
	if f.submitSQLChartQuery == nil {
		f.t.Fatal("unexpected SubmitSQLChartQuery call")
	}
	return f.submitSQLChartQuery(ctx, req)
}

func (f *fakeAPI) GetQueryStatus(ctx context.Context, queryUUID string) (*lightdash.QueryStatus, error) {
	if f.getQueryStatus == nil {
		f.t.Fatal("unexpected GetQueryStatus call")
	}
	return f.getQueryStatus(ctx, queryUUID)
}

func (f *fakeAPI) RunMetricQuery(ctx context.Context, projectUUID, exploreName string, query core.MetricQuery) (*lightdash.QueryResults, error) {
	if f.runMetricQuery == nil {
		f.t.Fatal("unexpected RunMetricQuery call")
	}
	return f.runMetricQuery(ctx, projectUUID, exploreName, query)
}

// newTestEngine wires a fake API into an engine with a fast poll cadence.
func newTestEngine(t testing.TB, api *fakeAPI) *Engine {
	t.Helper()
	api.t = t
	return New(Config{
		API:          api,
		ProjectUUID:  "project-1",
		Logger:       testutil.NewTestLogger(t),
		PollInterval: time.Millisecond,
	})
}

// readyStatus scripts a poll that immediately succeeds with the given rows.
func readyStatus(rows []map[string]any) func(context.Context, string) (*lightdash.QueryStatus, error) {
	return func(context.Context, string) (*lightdash.QueryStatus, error) {
		return &lightdash.QueryStatus{Status: lightdash.QueryStatusReady, Rows: rows}, nil
	}
}
