// Package render formats query results: CSV blocks with a leading metadata
// comment line for programmatic consumers, and light-style tables for the
// terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Metadata is encoded into the CSV block's leading comment line.
type Metadata struct {
	RowCount int            `json:"row_count"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// CSV renders rows as an RFC-4180 CSV block. When metadata is given it is
// prepended as a `# Metadata: {...}` comment line; an empty result set
// renders a `# No data rows` marker instead of a bare header. Columns are
// emitted in sorted key order so output is deterministic.
func CSV(rows []map[string]any, meta *Metadata) string {
	header := ""
	if meta != nil {
		encoded, err := json.Marshal(meta)
		if err == nil {
			header = "# Metadata: " + string(encoded) + "\n"
		}
	}
	if len(rows) == 0 {
		return header + "# No data rows\n"
	}

	cols := columnOrder(rows[0])

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(strings.Join(cols, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(formatValue(row[col]))
		}
		b.WriteString(strings.Join(values, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// Table renders rows as a light-style terminal table followed by a row
// count, for interactive use.
func Table(w io.Writer, rows []map[string]any) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	cols := columnOrder(rows[0])

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		out := make(table.Row, len(cols))
		for i, col := range cols {
			out[i] = formatValue(row[col])
		}
		t.AppendRow(out)
	}
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func columnOrder(row map[string]any) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		// JSON numbers decode as float64; keep integers undecorated.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
