package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

// resolveByName finds an item by display name: case-insensitive exact match
// first, then case-insensitive substring match. The first hit in collection
// order wins in both passes; partial matches are not disambiguated further,
// so with names ["Growth", "Growth EU"] the query "growth" resolves to
// "Growth".
func resolveByName[T any](items []T, name func(T) string, query string) (T, bool) {
	lowered := strings.ToLower(query)
	for _, item := range items {
		if strings.ToLower(name(item)) == lowered {
			return item, true
		}
	}
	for _, item := range items {
		if strings.Contains(strings.ToLower(name(item)), lowered) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// GetDashboardByName resolves a dashboard name within the project and
// fetches the full dashboard.
func (e *Engine) GetDashboardByName(ctx context.Context, name string) (*core.Dashboard, error) {
	dashboards, err := e.api.ListDashboards(ctx, e.projectUUID)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	match, ok := resolveByName(dashboards, func(d lightdash.DashboardSummary) string { return d.Name }, name)
	if !ok {
		return nil, fmt.Errorf("dashboard %q: %w", name, core.ErrNotFound)
	}
	dashboard, err := e.api.GetDashboard(ctx, match.UUID)
	if err != nil {
		return nil, fmt.Errorf("get dashboard %s: %w", match.UUID, err)
	}
	return dashboard, nil
}

// resolveChartUUID resolves a chart identifier: a listed chart's UUID or
// name wins; otherwise an identifier that is itself a valid UUID is used
// directly, covering charts that exist but are absent from the project list.
func (e *Engine) resolveChartUUID(ctx context.Context, identifier string) (string, error) {
	charts, err := e.api.ListCharts(ctx, e.projectUUID)
	if err != nil {
		return "", fmt.Errorf("list charts: %w", err)
	}
	for _, chart := range charts {
		if chart.UUID == identifier || strings.EqualFold(chart.Name, identifier) {
			return chart.UUID, nil
		}
	}
	if _, err := uuid.Parse(identifier); err == nil {
		return identifier, nil
	}
	return "", fmt.Errorf("chart %q: %w", identifier, core.ErrNotFound)
}
