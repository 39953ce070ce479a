package core

import (
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"
)

// TileType identifies the kind of content a dashboard tile holds.
type TileType string

// Known tile types. Only saved charts, SQL charts, and dashboard-only
// charts are executable; markdown and loom tiles are inert.
const (
	TileTypeSavedChart TileType = "saved_chart"
	TileTypeSQLChart   TileType = "sql_chart"
	TileTypeChart      TileType = "chart"
	TileTypeMarkdown   TileType = "markdown"
	TileTypeLoom       TileType = "loom"
)

// Executable reports whether the tile type is backed by a query.
func (t TileType) Executable() bool {
	switch t {
	case TileTypeSavedChart, TileTypeSQLChart, TileTypeChart:
		return true
	}
	return false
}

// Dashboard is a named collection of tiles plus dashboard-level filters.
// It is owned by the Lightdash server and fetched fresh per operation;
// the engine never mutates it.
type Dashboard struct {
	UUID    string            `json:"uuid"`
	Name    string            `json:"name"`
	Tiles   []Tile            `json:"tiles"`
	Filters DashboardFilters  `json:"filters"`
	Tabs    []json.RawMessage `json:"tabs,omitempty"`
}

// Tile is one visual unit on a dashboard. Properties are kind-specific and
// loosely typed; BelongsToChart is hydrated by the server for dashboard-only
// charts and carries the embedded chart definition.
type Tile struct {
	UUID           string         `json:"uuid"`
	Type           TileType       `json:"type"`
	Properties     map[string]any `json:"properties"`
	BelongsToChart map[string]any `json:"belongsToChart,omitempty"`
	X              int            `json:"x"`
	Y              int            `json:"y"`
	W              int            `json:"w"`
	H              int            `json:"h"`
	TabUUID        string         `json:"tabUuid,omitempty"`
}

// tileProperties is the subset of tile properties the engine reads.
type tileProperties struct {
	Title          string `mapstructure:"title"`
	ChartName      string `mapstructure:"chartName"`
	SavedChartUUID string `mapstructure:"savedChartUuid"`
	ChartUUID      string `mapstructure:"chartUuid"`
	SavedSQLUUID   string `mapstructure:"savedSqlUuid"`
}

func (t Tile) props() tileProperties {
	var p tileProperties
	// Decode errors mean a property had an unexpected type; the zero
	// value then behaves like an absent property.
	_ = mapstructure.Decode(t.Properties, &p)
	return p
}

// Title returns the tile's display title, falling back to the referenced
// chart name and then to "Untitled".
func (t Tile) Title() string {
	p := t.props()
	if p.Title != "" {
		return p.Title
	}
	if p.ChartName != "" {
		return p.ChartName
	}
	return "Untitled"
}

// SavedChartUUID returns the saved chart reference for a saved_chart tile,
// checking both property spellings the API has used. Empty when absent.
func (t Tile) SavedChartUUID() string {
	p := t.props()
	if p.SavedChartUUID != "" {
		return p.SavedChartUUID
	}
	return p.ChartUUID
}

// SavedSQLUUID returns the SQL chart reference for a sql_chart tile.
// Empty when absent.
func (t Tile) SavedSQLUUID() string {
	return t.props().SavedSQLUUID
}
