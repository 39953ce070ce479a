package core

import (
	"encoding/json"
	"fmt"
)

// MetricQuery is an ad-hoc query definition (dimensions, metrics, filters,
// sorts, limit, additional metrics). It is kept loosely typed so keys the
// engine does not interpret survive a round trip to the API unchanged; the
// engine only ever rewrites the "filters" key.
type MetricQuery map[string]any

// Filters decodes the query's filter tree. An absent or null "filters" key
// yields an empty tree.
func (q MetricQuery) Filters() (FilterTree, error) {
	raw, ok := q["filters"]
	if !ok || raw == nil {
		return FilterTree{}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return FilterTree{}, fmt.Errorf("encode filters: %w", err)
	}
	var tree FilterTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return FilterTree{}, fmt.Errorf("decode filters: %w", err)
	}
	return tree, nil
}

// SetFilters replaces the query's filter tree.
func (q MetricQuery) SetFilters(tree FilterTree) {
	q["filters"] = tree
}

// RowResult is the normalized outcome of one tile execution: flattened rows
// plus the field-schema descriptor for those rows.
type RowResult struct {
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
	Fields   map[string]any   `json:"fields,omitempty"`
}

// FlattenRows replaces wrapped cells of the form
// {"value": {"raw": x, "formatted": "..."}} with their raw scalar. Cells of
// any other shape pass through untouched, so the operation is idempotent.
func FlattenRows(rows []map[string]any) []map[string]any {
	flattened := make([]map[string]any, len(rows))
	for i, row := range rows {
		flat := make(map[string]any, len(row))
		for key, cell := range row {
			flat[key] = flattenCell(cell)
		}
		flattened[i] = flat
	}
	return flattened
}

func flattenCell(cell any) any {
	wrapper, ok := cell.(map[string]any)
	if !ok {
		return cell
	}
	value, ok := wrapper["value"].(map[string]any)
	if !ok {
		return cell
	}
	raw, ok := value["raw"]
	if !ok {
		return cell
	}
	return raw
}
