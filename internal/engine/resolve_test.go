package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poddubnyoleg/lightdash-mcp/internal/lightdash"
	"github.com/poddubnyoleg/lightdash-mcp/pkg/core"
)

type named struct{ name string }

func namesOf(items ...string) []named {
	out := make([]named, len(items))
	for i, s := range items {
		out[i] = named{name: s}
	}
	return out
}

func TestResolveByName(t *testing.T) {
	getName := func(n named) string { return n.name }

	tests := []struct {
		name  string
		items []named
		query string
		want  string
		found bool
	}{
		{"exact match", namesOf("Growth", "Retention"), "Growth", "Growth", true},
		{"exact match is case-insensitive", namesOf("Growth", "Retention"), "gRoWtH", "Growth", true},
		{"exact beats partial regardless of order", namesOf("Growth EU", "Growth"), "growth", "Growth", true},
		{"partial match falls back to first in collection order", namesOf("Growth", "Growth EU"), "growth e", "Growth EU", true},
		{"ambiguous partial returns first candidate", namesOf("Growth", "Growth EU"), "grow", "Growth", true},
		{"no match", namesOf("Growth"), "churn", "", false},
		{"empty collection", nil, "anything", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveByName(tt.items, getName, tt.query)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got.name)
			}
		})
	}
}

func TestGetDashboardByName(t *testing.T) {
	api := &fakeAPI{
		listDashboards: func(_ context.Context, projectUUID string) ([]lightdash.DashboardSummary, error) {
			assert.Equal(t, "project-1", projectUUID)
			return []lightdash.DashboardSummary{
				{UUID: "dash-1", Name: "Growth"},
				{UUID: "dash-2", Name: "Growth EU"},
			}, nil
		},
		getDashboard: func(_ context.Context, dashboardUUID string) (*core.Dashboard, error) {
			require.Equal(t, "dash-1", dashboardUUID)
			return &core.Dashboard{UUID: "dash-1", Name: "Growth"}, nil
		},
	}
	eng := newTestEngine(t, api)

	dashboard, err := eng.GetDashboardByName(context.Background(), "growth")
	require.NoError(t, err)
	assert.Equal(t, "dash-1", dashboard.UUID)
}

func TestGetDashboardByName_NotFound(t *testing.T) {
	api := &fakeAPI{
		listDashboards: func(context.Context, string) ([]lightdash.DashboardSummary, error) {
			return []lightdash.DashboardSummary{{UUID: "dash-1", Name: "Growth"}}, nil
		},
	}
	eng := newTestEngine(t, api)

	_, err := eng.GetDashboardByName(context.Background(), "churn")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestResolveChartUUID(t *testing.T) {
	api := &fakeAPI{
		listCharts: func(context.Context, string) ([]lightdash.ChartSummary, error) {
			return []lightdash.ChartSummary{
				{UUID: "chart-1", Name: "Orders by Country"},
			}, nil
		},
	}
	eng := newTestEngine(t, api)
	ctx := context.Background()

	got, err := eng.resolveChartUUID(ctx, "orders by country")
	require.NoError(t, err)
	assert.Equal(t, "chart-1", got)

	got, err = eng.resolveChartUUID(ctx, "chart-1")
	require.NoError(t, err)
	assert.Equal(t, "chart-1", got)

	// An unlisted chart passed as a raw UUID is used directly; this covers
	// dashboard-scoped charts missing from the project chart list.
	got, err = eng.resolveChartUUID(ctx, "1fa3bb22-97a5-4b3f-9071-67a2bba6c3f1")
	require.NoError(t, err)
	assert.Equal(t, "1fa3bb22-97a5-4b3f-9071-67a2bba6c3f1", got)

	_, err = eng.resolveChartUUID(ctx, "no such chart")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetDashboardByName_ListFailurePropagates(t *testing.T) {
	listErr := errors.New("boom")
	api := &fakeAPI{
		listDashboards: func(context.Context, string) ([]lightdash.DashboardSummary, error) {
			return nil, listErr
		},
	}
	eng := newTestEngine(t, api)

	_, err := eng.GetDashboardByName(context.Background(), "growth")
	assert.ErrorIs(t, err, listErr)
}
