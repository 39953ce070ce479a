// Command lightdash is a CLI for Lightdash: it lists projects, dashboards,
// charts, and spaces, and executes dashboard tiles with dashboard filters
// applied.
package main

import "github.com/poddubnyoleg/lightdash-mcp/internal/cli"

func main() {
	cli.Execute()
}
