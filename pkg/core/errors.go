package core

import "errors"

// Sentinel errors for the execution engine. Resolution errors (ErrNotFound,
// ErrMalformedInput) abort a whole operation; the remaining errors are
// recorded against a single tile and never abort sibling executions.
var (
	// ErrNotFound is returned when a dashboard, tile, or chart cannot be
	// resolved after exact and partial name matching.
	ErrNotFound = errors.New("not found")

	// ErrMalformedInput is returned when caller-supplied structured text
	// (e.g. a filters JSON document) fails to parse.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingReference is returned when a saved-chart or SQL-chart tile
	// lacks the chart reference needed to build a query.
	ErrMissingReference = errors.New("missing chart reference")

	// ErrMissingQuery is returned when a dashboard-only chart tile carries
	// no embedded metric query.
	ErrMissingQuery = errors.New("missing metric query")

	// ErrUnsupportedTile is returned when a non-executable tile kind is
	// requested directly.
	ErrUnsupportedTile = errors.New("unsupported tile type")

	// ErrQueryFailed is returned when the remote query reaches a terminal
	// error or failed state.
	ErrQueryFailed = errors.New("query failed")

	// ErrTimeout is returned when poll attempts are exhausted before the
	// query reaches a terminal state.
	ErrTimeout = errors.New("query timed out")
)
