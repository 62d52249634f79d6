// Package main provides the routescan CLI, which lists the HTTP routes
// declared in a directory of source files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/agrahamlincoln/branchsweep/internal/routes"
)

// CLI defines the command line of routescan.
type CLI struct {
	Dir string `arg:"" type:"existingdir" help:"Directory whose files are scanned for route declarations."`
}

// Run scans the directory and prints the report to stdout.
func (c *CLI) Run() error {
	found, err := routes.Scan(c.Dir)
	if err != nil {
		return fmt.Errorf("scanning routes: %w", err)
	}
	slog.Debug("scanned routes", "dir", c.Dir, "count", len(found))
	return routes.Render(os.Stdout, found)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("routescan"),
		kong.Description("Print a Markdown report of the app.<method>(path) routes declared in a directory."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
