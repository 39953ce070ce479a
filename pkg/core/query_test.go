package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenRows_UnwrapsValueCells(t *testing.T) {
	rows := []map[string]any{
		{
			"f": map[string]any{"value": map[string]any{"raw": 7, "formatted": "7.0"}},
			"g": map[string]any{"value": map[string]any{"raw": "us", "formatted": "US"}},
		},
	}

	flat := FlattenRows(rows)
	require.Len(t, flat, 1)
	assert.Equal(t, 7, flat[0]["f"])
	assert.Equal(t, "us", flat[0]["g"])
}

func TestFlattenRows_IdempotentOnFlatRows(t *testing.T) {
	rows := []map[string]any{{"f": 7, "g": "x"}}

	flat := FlattenRows(FlattenRows(rows))
	assert.Equal(t, rows, flat)
}

func TestFlattenRows_LeavesOtherShapesUntouched(t *testing.T) {
	// Maps that merely look similar are not unwrapped.
	rows := []map[string]any{
		{
			"a": map[string]any{"value": "plain"},
			"b": map[string]any{"other": map[string]any{"raw": 1}},
			"c": nil,
		},
	}

	flat := FlattenRows(rows)
	assert.Equal(t, rows[0]["a"], flat[0]["a"])
	assert.Equal(t, rows[0]["b"], flat[0]["b"])
	assert.Nil(t, flat[0]["c"])
}

func TestFlattenRows_EmptyInput(t *testing.T) {
	assert.Empty(t, FlattenRows(nil))
}

func TestMetricQuery_Filters(t *testing.T) {
	query := MetricQuery{
		"dimensions": []any{"orders_status"},
		"filters": map[string]any{
			"dimensions": map[string]any{
				"id": "root",
				"and": []any{
					map[string]any{"id": "f1", "operator": "equals", "values": []any{"US"}},
				},
			},
		},
	}

	tree, err := query.Filters()
	require.NoError(t, err)
	require.NotNil(t, tree.Dimensions)
	assert.Equal(t, "root", tree.Dimensions.ID)
	assert.True(t, tree.Dimensions.IsGroup())
}

func TestMetricQuery_FiltersAbsent(t *testing.T) {
	tree, err := MetricQuery{"dimensions": []any{}}.Filters()
	require.NoError(t, err)
	assert.True(t, tree.Empty())
}
