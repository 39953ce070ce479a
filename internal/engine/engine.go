// Package engine executes dashboard tiles: it resolves dashboards by name,
// merges dashboard filters into tile queries, dispatches each tile through
// the synchronous or submit-and-poll protocol, and runs many tiles on a
// bounded worker pool with per-tile failure isolation.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// Sized to bound load on the downstream warehouse, not for throughput.
const defaultMaxWorkers = 5

// Poll cadence for async queries; together these bound the worst-case wait
// for one query at 15s.
const (
	defaultPollInterval    = 500 * time.Millisecond
	defaultMaxPollAttempts = 30
)

// API is the slice of the Lightdash client the engine consumes.
type API interface {
	ListDashboards(ctx context.Context, projectUUID string) ([]lightdash.DashboardSummary, error)
	GetDashboard(ctx context.Context, dashboardUUID string) (*core.Dashboard, error)
	UpdateDashboard(ctx context.Context, dashboardUUID string, req lightdash.UpdateDashboardRequest) error
	ListCharts(ctx context.Context, projectUUID string) ([]lightdash.ChartSummary, error)
	RunSavedChart(ctx context.Context, chartUUID, dashboardUUID string, body lightdash.SavedChartQuery) (*lightdash.QueryResults, error)
	SubmitDashboardChartQuery(ctx context.Context, req lightdash.DashboardChartQueryRequest) (*lightdash.AsyncQuery, error)
	SubmitSQLChartQuery(ctx context.Context, req lightdash.SQLChartQueryRequest) (*lightdash.AsyncQuery, error)
	GetQueryStatus(ctx context.Context, queryUUID string) (*lightdash.QueryStatus, error)
	RunMetricQuery(ctx context.Context, projectUUID, exploreName string, query core.MetricQuery) (*lightdash.QueryResults, error)
}

// Config configures an Engine.
type Config struct {
	// API is the Lightdash client.
	API API

	// ProjectUUID scopes all dashboard and chart lookups. Resolving a
	// default project from the server happens before construction; the
	// engine itself never consults ambient state.
	ProjectUUID string

	Logger *slog.Logger

	// MaxWorkers overrides the worker pool size. Zero means the default.
	MaxWorkers int

	// PollInterval and MaxPollAttempts override the poll cadence.
	// Zero means the defaults.
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Engine orchestrates tile execution for one project.
type Engine struct {
	api             API
	projectUUID     string
	logger          *slog.Logger
	maxWorkers      int
	pollInterval    time.Duration
	maxPollAttempts int
}

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	maxPollAttempts := cfg.MaxPollAttempts
	if maxPollAttempts <= 0 {
		maxPollAttempts = defaultMaxPollAttempts
	}
	return &Engine{
		api:             cfg.API,
		projectUUID:     cfg.ProjectUUID,
		logger:          logger,
		maxWorkers:      maxWorkers,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
	}
}

// ProjectUUID returns the project the engine is scoped to.
func (e *Engine) ProjectUUID() string { return e.projectUUID }
