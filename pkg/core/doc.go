// Package core defines the domain types shared across the Lightdash client
// and the tile execution engine: dashboards, tiles, the two filter shapes
// (flat dashboard filter lists and nested chart filter trees), and the
// algorithms that combine them.
package core
