// Package main provides the branchsweep CLI, which deletes stale and
// merged branches from a remote after confirmation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/agrahamlincoln/branchsweep/internal/branches"
	"github.com/agrahamlincoln/branchsweep/internal/config"
	"github.com/agrahamlincoln/branchsweep/internal/confirm"
	"github.com/agrahamlincoln/branchsweep/internal/sweep"
	"github.com/agrahamlincoln/branchsweep/pkg/git"
)

// CLI defines the command line of branchsweep.
type CLI struct {
	Dir string `arg:"" optional:"" type:"existingdir" help:"Git working copy to clean up. Defaults to the current directory."`
}

// Run executes the cleanup pipeline.
func (c *CLI) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	dir := c.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
	}

	repo := git.Open(dir)
	if !repo.IsRepo(ctx) {
		return fmt.Errorf("%s is not a git repository", dir)
	}

	now := time.Now()
	th, err := branches.NewThresholds(now, cfg.StaleAge(), cfg.MergedAge())
	if err != nil {
		return err
	}
	slog.Debug("sweeping", "dir", dir, "remote", cfg.Remote, "merged_into", cfg.MergedInto,
		"stale_days", cfg.StaleDays, "merged_days", cfg.MergedDays, "workers", cfg.Workers)

	finder := branches.NewFinder(
		branches.NewRealGitOps(repo, cfg.Remote, cfg.MergedInto),
		branches.NewProtectedSet(cfg.Protected...),
		cfg.Workers,
	)
	outcome, err := sweep.Run(ctx, finder, sweep.Options{
		Thresholds: th,
		Now:        now,
		Prompter:   confirm.New(os.Stdin, os.Stdout),
		Out:        os.Stdout,
	})
	slog.Debug("sweep finished", "outcome", outcome)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("branchsweep"),
		kong.Description(`Delete stale and merged branches from a git remote.

Branches untouched for longer than the stale threshold, and merged branches
untouched for longer than the merged threshold, are listed for review. Nothing
is deleted unless you type "yes". main, master, staging and production are
never touched.`),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run()
	stop()
	kctx.FatalIfErrorf(err)
	os.Exit(0)
}
