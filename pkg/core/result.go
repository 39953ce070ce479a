package core

// TileStatus tags a per-tile execution outcome.
type TileStatus string

// Tile execution outcomes.
const (
	TileStatusSuccess TileStatus = "success"
	TileStatusError   TileStatus = "error"
)

// TileResult is the per-tile entry of an orchestration run. Created once
// per tile, never mutated afterwards; failed tiles carry Error, successful
// tiles carry CSVData.
type TileResult struct {
	Title   string     `json:"title"`
	Status  TileStatus `json:"status"`
	CSVData string     `json:"csv_data,omitempty"`
	Error   string     `json:"error,omitempty"`
}
