// Package sweep runs the branch cleanup pipeline: prune, classify, report,
// confirm, delete.
package sweep

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agrahamlincoln/branchsweep/internal/branches"
	"github.com/agrahamlincoln/branchsweep/internal/confirm"
	"github.com/agrahamlincoln/branchsweep/internal/report"
)

// Outcome describes how a run ended without error.
type Outcome int

const (
	// Clean means no branch qualified for deletion.
	Clean Outcome = iota
	// Declined means the user did not approve the deletion.
	Declined
	// Deleted means the approved branches were deleted.
	Deleted
)

// String returns the human-readable name of an Outcome value.
func (o Outcome) String() string {
	switch o {
	case Clean:
		return "Clean"
	case Declined:
		return "Declined"
	case Deleted:
		return "Deleted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Options controls a run.
type Options struct {
	Thresholds branches.Thresholds
	// Now is used for the ages shown in the report.
	Now      time.Time
	Prompter confirm.Prompter
	Out      io.Writer
}

// Run executes the pipeline against finder. Nothing is deleted unless the
// prompter answers with exactly "yes". Any error before the prompt means
// nothing was deleted; an error from the deletion step may leave some
// branches already deleted.
func Run(ctx context.Context, finder *branches.Finder, opts Options) (Outcome, error) {
	if err := finder.Prune(ctx); err != nil {
		return Clean, err
	}

	plan, err := finder.Classify(ctx, opts.Thresholds)
	if err != nil {
		return Clean, err
	}

	report.Render(opts.Out, plan, opts.Now)
	if plan.Empty() {
		fmt.Fprintln(opts.Out, "Nothing to clean up.")
		return Clean, nil
	}

	records := plan.All()
	prompt := fmt.Sprintf("Delete %d branch(es) from the remote? Type %q to continue:", len(records), confirm.Approval)
	ok, err := confirm.Gate(opts.Prompter, prompt)
	if err != nil {
		return Clean, err
	}
	if !ok {
		fmt.Fprintln(opts.Out, "Aborted. No branches were deleted.")
		return Declined, nil
	}

	deleted, err := finder.Delete(ctx, records)
	report.Summary(opts.Out, deleted, len(records))
	return Deleted, err
}
