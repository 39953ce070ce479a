package lightdash

import (
	"context"
	"fmt"
	"net/url"

	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// ProjectSummary is one entry of the organization project list.
type ProjectSummary struct {
	ProjectUUID string `json:"projectUuid"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
}

// DashboardSummary is one entry of a project's dashboard list.
type DashboardSummary struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SpaceUUID   string `json:"spaceUuid,omitempty"`
}

// ChartSummary is one entry of a project's saved chart list.
type ChartSummary struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	SpaceUUID string `json:"spaceUuid,omitempty"`
	SpaceName string `json:"spaceName,omitempty"`
}

// SpaceSummary is one entry of a project's space list.
type SpaceSummary struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate,omitempty"`
}

// ExploreSummary is one entry of a project's catalog.
type ExploreSummary struct {
	Name         string `json:"name"`
	Label        string `json:"label,omitempty"`
	Description  string `json:"description,omitempty"`
	DatabaseName string `json:"databaseName,omitempty"`
	SchemaName   string `json:"schemaName,omitempty"`
}

// QueryResults is the synchronous query response shape: wrapped rows plus a
// field-schema descriptor.
type QueryResults struct {
	Rows   []map[string]any `json:"rows"`
	Fields map[string]any   `json:"fields,omitempty"`
}

// SavedChartQuery is the body of the legacy synchronous saved-chart run.
type SavedChartQuery struct {
	Filters *core.DashboardFilters `json:"filters,omitempty"`
	Limit   int                    `json:"limit,omitempty"`
}

// DashboardChartQueryRequest submits a saved chart for asynchronous
// execution in a dashboard context. Cache invalidation and pivoting are
// always disabled for engine-driven runs, so both flags marshal explicitly.
type DashboardChartQueryRequest struct {
	ChartUUID        string               `json:"chartUuid"`
	DashboardUUID    string               `json:"dashboardUuid"`
	DashboardFilters core.ResolvedFilters `json:"dashboardFilters"`
	DashboardSorts   []any                `json:"dashboardSorts"`
	InvalidateCache  bool                 `json:"invalidateCache"`
	PivotResults     bool                 `json:"pivotResults"`
}

// SQLChartQueryRequest submits a SQL chart for asynchronous execution.
type SQLChartQueryRequest struct {
	SavedSQLUUID string `json:"savedSqlUuid"`
	Context      string `json:"context"`
}

// AsyncQuery is the handle returned by an async submit. Fields is populated
// by the dashboard-chart submit only; the SQL-chart schema arrives with the
// poll response instead.
type AsyncQuery struct {
	QueryUUID string         `json:"queryUuid"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Async query states. Anything else is treated as still in flight.
const (
	QueryStatusPending = "pending"
	QueryStatusRunning = "running"
	QueryStatusReady   = "ready"
	QueryStatusError   = "error"
	QueryStatusFailed  = "failed"
)

// QueryStatus is one poll response for an async query.
type QueryStatus struct {
	Status  string           `json:"status"`
	Rows    []map[string]any `json:"rows,omitempty"`
	Columns map[string]any   `json:"columns,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ListProjects lists the organization's projects.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	var projects []ProjectSummary
	if err := c.get(ctx, "/api/v1/org/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// DefaultProjectUUID returns the first listed project's UUID. Used only
// when no project is configured explicitly.
func (c *Client) DefaultProjectUUID(ctx context.Context) (string, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", fmt.Errorf("no projects found in this Lightdash instance")
	}
	return projects[0].ProjectUUID, nil
}

// GetProject fetches one project's details.
func (c *Client) GetProject(ctx context.Context, projectUUID string) (map[string]any, error) {
	var project map[string]any
	if err := c.get(ctx, "/api/v1/projects/"+url.PathEscape(projectUUID), &project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListDashboards lists a project's dashboards.
func (c *Client) ListDashboards(ctx context.Context, projectUUID string) ([]DashboardSummary, error) {
	var dashboards []DashboardSummary
	if err := c.get(ctx, "/api/v1/projects/"+url.PathEscape(projectUUID)+"/dashboards", &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

// GetDashboard fetches a full dashboard, tiles and filters included.
func (c *Client) GetDashboard(ctx context.Context, dashboardUUID string) (*core.Dashboard, error) {
	var dashboard core.Dashboard
	if err := c.get(ctx, "/api/v1/dashboards/"+url.PathEscape(dashboardUUID), &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// UpdateDashboardRequest replaces a dashboard's mutable content. Name,
// tiles, and tabs must be carried over from the current dashboard; the API
// treats the update as a full replacement.
type UpdateDashboardRequest struct {
	Name    string                `json:"name"`
	Tiles   []core.Tile           `json:"tiles"`
	Filters core.DashboardFilters `json:"filters"`
	Tabs    []any                 `json:"tabs"`
}

// UpdateDashboard applies req to the dashboard.
func (c *Client) UpdateDashboard(ctx context.Context, dashboardUUID string, req UpdateDashboardRequest) error {
	return c.patch(ctx, "/api/v1/dashboards/"+url.PathEscape(dashboardUUID), req, nil)
}

// ListCharts lists a project's saved charts.
func (c *Client) ListCharts(ctx context.Context, projectUUID string) ([]ChartSummary, error) {
	var charts []ChartSummary
	if err := c.get(ctx, "/api/v1/projects/"+url.PathEscape(projectUUID)+"/charts", &charts); err != nil {
		return nil, err
	}
	return charts, nil
}

// GetChart fetches one saved chart's full definition.
func (c *Client) GetChart(ctx context.Context, chartUUID string) (map[string]any, error) {
	var chart map[string]any
	if err := c.get(ctx, "/api/v1/saved/"+url.PathEscape(chartUUID), &chart); err != nil {
		return nil, err
	}
	return chart, nil
}

// DeleteChart deletes a saved chart.
func (c *Client) DeleteChart(ctx context.Context, chartUUID string) error {
	return c.delete(ctx, "/api/v1/saved/"+url.PathEscape(chartUUID))
}

// ListSpaces lists a project's spaces.
func (c *Client) ListSpaces(ctx context.Context, projectUUID string) ([]SpaceSummary, error) {
	var spaces []SpaceSummary
	if err := c.get(ctx, "/api/v1/projects/"+url.PathEscape(projectUUID)+"/spaces", &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

// ListExplores lists a project's catalog of explores.
func (c *Client) ListExplores(ctx context.Context, projectUUID string) ([]ExploreSummary, error) {
	var explores []ExploreSummary
	if err := c.get(ctx, "/api/v1/projects/"+url.PathEscape(projectUUID)+"/catalog", &explores); err != nil {
		return nil, err
	}
	return explores, nil
}

// GetExplore fetches one explore's schema.
func (c *Client) GetExplore(ctx context.Context, projectUUID, exploreName string) (map[string]any, error) {
	var explore map[string]any
	path := "/api/v1/projects/" + url.PathEscape(projectUUID) + "/explores/" + url.PathEscape(exploreName)
	if err := c.get(ctx, path, &explore); err != nil {
		return nil, err
	}
	return explore, nil
}

// RunSavedChart executes a saved chart synchronously via the legacy results
// endpoint. dashboardUUID is optional; when set the chart runs in that
// dashboard's context.
func (c *Client) RunSavedChart(ctx context.Context, chartUUID, dashboardUUID string, body SavedChartQuery) (*QueryResults, error) {
	path := "/api/v1/saved/" + url.PathEscape(chartUUID) + "/results"
	if dashboardUUID != "" {
		path += "?dashboardUuid=" + url.QueryEscape(dashboardUUID)
	}
	var results QueryResults
	if err := c.post(ctx, path, body, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// SubmitDashboardChartQuery starts an async saved-chart query and returns
// its handle. The field schema for the result rows comes from this response.
func (c *Client) SubmitDashboardChartQuery(ctx context.Context, req DashboardChartQueryRequest) (*AsyncQuery, error) {
	var query AsyncQuery
	if err := c.post(ctx, "/api/v1/query/dashboard-chart", req, &query); err != nil {
		return nil, err
	}
	return &query, nil
}

// SubmitSQLChartQuery starts an async SQL-chart query and returns its
// handle. Unlike the dashboard-chart submit the response carries no field
// schema; it arrives as the poll response's column descriptor.
func (c *Client) SubmitSQLChartQuery(ctx context.Context, req SQLChartQueryRequest) (*AsyncQuery, error) {
	var query AsyncQuery
	if err := c.post(ctx, "/api/v1/query/sql-chart", req, &query); err != nil {
		return nil, err
	}
	return &query, nil
}

// GetQueryStatus reads the current state of an async query.
func (c *Client) GetQueryStatus(ctx context.Context, queryUUID string) (*QueryStatus, error) {
	var status QueryStatus
	if err := c.get(ctx, "/api/v1/query/"+url.PathEscape(queryUUID), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RunMetricQuery executes an ad-hoc metric query against an explore.
func (c *Client) RunMetricQuery(ctx context.Context, projectUUID, exploreName string, query core.MetricQuery) (*QueryResults, error) {
	path := "/api/v1/projects/" + url.PathEscape(projectUUID) + "/explores/" + url.PathEscape(exploreName) + "/runQuery"
	var results QueryResults
	if err := c.post(ctx, path, query, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
