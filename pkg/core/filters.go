package core

import (
	"encoding/json"
	"fmt"
)

// BooleanOp is the combinator of a filter group.
type BooleanOp string

// Group combinators.
const (
	OpAnd BooleanOp = "and"
	OpOr  BooleanOp = "or"
)

// MergedRootID is the identifier of the synthetic AND group created when
// chart and dashboard filters are conjoined.
const MergedRootID = "merged_root"

// dashboardRootID is the identifier of the implicit AND group a flat
// dashboard filter list normalizes to at the merge boundary.
const dashboardRootID = "dashboard_root"

// FieldTarget references the field a filter applies to.
type FieldTarget struct {
	FieldID   string `json:"fieldId"`
	TableName string `json:"tableName,omitempty"`
}

// FilterNode is one node of a chart-level filter tree: either a boolean
// group with children or a single filter rule kept as raw JSON. Leaves are
// never reinterpreted by the engine, so merging preserves them verbatim.
type FilterNode struct {
	ID       string
	Op       BooleanOp // empty for leaves
	Children []FilterNode
	Leaf     json.RawMessage
}

// IsGroup reports whether the node is a boolean group.
func (n FilterNode) IsGroup() bool { return n.Op != "" }

// filterNodeProbe sniffs the group combinator during unmarshalling.
type filterNodeProbe struct {
	ID  string            `json:"id"`
	And []json.RawMessage `json:"and"`
	Or  []json.RawMessage `json:"or"`
}

// UnmarshalJSON decodes either shape: a group `{"id": ..., "and": [...]}`
// (or "or"), or a single rule object which is retained as-is.
func (n *FilterNode) UnmarshalJSON(data []byte) error {
	var probe filterNodeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	var op BooleanOp
	var raw []json.RawMessage
	switch {
	case probe.And != nil:
		op, raw = OpAnd, probe.And
	case probe.Or != nil:
		op, raw = OpOr, probe.Or
	default:
		n.ID = probe.ID
		n.Op = ""
		n.Children = nil
		n.Leaf = append(json.RawMessage(nil), data...)
		return nil
	}

	children := make([]FilterNode, len(raw))
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &children[i]); err != nil {
			return fmt.Errorf("filter group %q child %d: %w", probe.ID, i, err)
		}
	}
	n.ID = probe.ID
	n.Op = op
	n.Children = children
	n.Leaf = nil
	return nil
}

// MarshalJSON emits groups as `{"id": ..., "<op>": [...]}` and leaves as
// their original bytes.
func (n FilterNode) MarshalJSON() ([]byte, error) {
	if !n.IsGroup() {
		if n.Leaf == nil {
			return []byte("null"), nil
		}
		return n.Leaf, nil
	}
	children := n.Children
	if children == nil {
		children = []FilterNode{}
	}
	return json.Marshal(map[string]any{
		"id":         n.ID,
		string(n.Op): children,
	})
}

// FilterTree is the nested, per-channel filter shape found inside a chart's
// metric query. A nil channel means no constraints on that channel.
type FilterTree struct {
	Dimensions        *FilterNode `json:"dimensions,omitempty"`
	Metrics           *FilterNode `json:"metrics,omitempty"`
	TableCalculations *FilterNode `json:"tableCalculations,omitempty"`
}

// Empty reports whether no channel carries filters.
func (f FilterTree) Empty() bool {
	return f.Dimensions == nil && f.Metrics == nil && f.TableCalculations == nil
}

// MergeFilters conjoins dashboard filters into chart filters. The merge is
// shallow: when both sides of a channel are present they become the two
// children of a synthetic AND group and neither side's internal structure
// (including nested OR groups) is altered. The table-calculation channel is
// carried only by whichever side survives untouched; the conjoined result
// keeps the dimension and metric channels only.
func MergeFilters(chart, dashboard FilterTree) FilterTree {
	if dashboard.Empty() {
		return chart
	}
	if chart.Empty() {
		return FilterTree{Dimensions: dashboard.Dimensions, Metrics: dashboard.Metrics}
	}
	return FilterTree{
		Dimensions: mergeChannel(chart.Dimensions, dashboard.Dimensions),
		Metrics:    mergeChannel(chart.Metrics, dashboard.Metrics),
	}
}

func mergeChannel(chart, dashboard *FilterNode) *FilterNode {
	if chart == nil {
		return dashboard
	}
	if dashboard == nil {
		return chart
	}
	return &FilterNode{
		ID:       MergedRootID,
		Op:       OpAnd,
		Children: []FilterNode{*chart, *dashboard},
	}
}

// TileTarget is one entry of a filter's per-tile override mapping. The wire
// value is either `false`, meaning the filter does not apply to that tile at
// all, or a field target overriding the filter's default target.
type TileTarget struct {
	Excluded bool
	Target   *FieldTarget
}

// UnmarshalJSON accepts `false` (exclusion sentinel), `true` (apply with the
// default target), or a field target object.
func (t *TileTarget) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		t.Excluded = !flag
		t.Target = nil
		return nil
	}
	var target FieldTarget
	if err := json.Unmarshal(data, &target); err != nil {
		return err
	}
	t.Excluded = false
	t.Target = &target
	return nil
}

// MarshalJSON round-trips the wire shapes accepted by UnmarshalJSON.
func (t TileTarget) MarshalJSON() ([]byte, error) {
	if t.Excluded {
		return json.Marshal(false)
	}
	if t.Target == nil {
		return json.Marshal(true)
	}
	return json.Marshal(t.Target)
}

// DashboardFilterRule is one dashboard-level filter. Unlike chart filter
// trees these arrive as flat, fully typed lists.
type DashboardFilterRule struct {
	ID          string                `json:"id"`
	Label       string                `json:"label,omitempty"`
	Target      *FieldTarget          `json:"target,omitempty"`
	Operator    string                `json:"operator"`
	Values      []any                 `json:"values,omitempty"`
	Settings    map[string]any        `json:"settings,omitempty"`
	Disabled    bool                  `json:"disabled,omitempty"`
	Required    *bool                 `json:"required,omitempty"`
	SingleValue *bool                 `json:"singleValue,omitempty"`
	TileTargets map[string]TileTarget `json:"tileTargets,omitempty"`
}

// DashboardFilters holds the three independent dashboard filter channels.
type DashboardFilters struct {
	Dimensions        []DashboardFilterRule `json:"dimensions"`
	Metrics           []DashboardFilterRule `json:"metrics"`
	TableCalculations []DashboardFilterRule `json:"tableCalculations"`
}

// Empty reports whether no channel carries filters.
func (f DashboardFilters) Empty() bool {
	return len(f.Dimensions) == 0 && len(f.Metrics) == 0 && len(f.TableCalculations) == 0
}

// Tree normalizes the flat dashboard lists into the nested chart shape so
// the two can be merged consistently: each non-empty channel becomes an
// implicit AND group of its rules.
func (f DashboardFilters) Tree() FilterTree {
	return FilterTree{
		Dimensions:        rulesToNode(f.Dimensions),
		Metrics:           rulesToNode(f.Metrics),
		TableCalculations: rulesToNode(f.TableCalculations),
	}
}

func rulesToNode(rules []DashboardFilterRule) *FilterNode {
	if len(rules) == 0 {
		return nil
	}
	children := make([]FilterNode, 0, len(rules))
	for _, rule := range rules {
		leaf, err := json.Marshal(rule)
		if err != nil {
			continue
		}
		children = append(children, FilterNode{ID: rule.ID, Leaf: leaf})
	}
	return &FilterNode{ID: dashboardRootID, Op: OpAnd, Children: children}
}

// ResolvedFilterRule is a dashboard filter after per-tile target resolution,
// normalized for the async query endpoints: label is never null, disabled
// and settings always present, the original override mapping passed through.
type ResolvedFilterRule struct {
	ID          string                `json:"id"`
	Label       string                `json:"label"`
	Target      FieldTarget           `json:"target"`
	Values      []any                 `json:"values"`
	Disabled    bool                  `json:"disabled"`
	Operator    string                `json:"operator"`
	Settings    map[string]any        `json:"settings"`
	TileTargets map[string]TileTarget `json:"tileTargets,omitempty"`
	Required    *bool                 `json:"required,omitempty"`
	SingleValue *bool                 `json:"singleValue,omitempty"`
}

// ResolveForTile produces the filters actually applicable to one tile.
// A filter whose override for the tile is the exclusion sentinel is dropped
// entirely; an override target replaces the default; a filter with neither
// an override entry nor a default target applies to no tile and is dropped.
func ResolveForTile(rules []DashboardFilterRule, tileUUID string) []ResolvedFilterRule {
	resolved := make([]ResolvedFilterRule, 0, len(rules))
	for _, rule := range rules {
		var target *FieldTarget
		if override, ok := rule.TileTargets[tileUUID]; ok {
			if override.Excluded {
				continue
			}
			target = override.Target
			if target == nil {
				target = rule.Target
			}
		} else {
			target = rule.Target
		}
		if target == nil {
			continue
		}

		values := rule.Values
		if values == nil {
			values = []any{}
		}
		settings := rule.Settings
		if settings == nil {
			settings = map[string]any{}
		}
		resolved = append(resolved, ResolvedFilterRule{
			ID:          rule.ID,
			Label:       rule.Label,
			Target:      *target,
			Values:      values,
			Disabled:    rule.Disabled,
			Operator:    rule.Operator,
			Settings:    settings,
			TileTargets: rule.TileTargets,
			Required:    rule.Required,
			SingleValue: rule.SingleValue,
		})
	}
	return resolved
}

// ResolvedFilters carries the three resolved channels of an async
// saved-chart query.
type ResolvedFilters struct {
	Dimensions        []ResolvedFilterRule `json:"dimensions"`
	Metrics           []ResolvedFilterRule `json:"metrics"`
	TableCalculations []ResolvedFilterRule `json:"tableCalculations"`
}

// ResolveDashboardFilters resolves all three channels for one tile.
func ResolveDashboardFilters(filters DashboardFilters, tileUUID string) ResolvedFilters {
	return ResolvedFilters{
		Dimensions:        ResolveForTile(filters.Dimensions, tileUUID),
		Metrics:           ResolveForTile(filters.Metrics, tileUUID),
		TableCalculations: ResolveForTile(filters.TableCalculations, tileUUID),
	}
}
