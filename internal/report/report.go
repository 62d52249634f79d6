// Package report renders the deletion plan for the user to review.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/agrahamlincoln/branchsweep/internal/branches"
)

const dateLayout = "2006-01-02"

// Render writes both branch sets of plan, with their counts and the two
// threshold dates. Ages are relative to now.
func Render(w io.Writer, plan branches.Plan, now time.Time) {
	bold := color.New(color.Bold)

	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Stale threshold: "), plan.Thresholds.Stale.Format(dateLayout))
	fmt.Fprintf(w, "%s %s\n\n", bold.Sprint("Merged threshold:"), plan.Thresholds.Merged.Format(dateLayout))

	renderSet(w, "Stale branches", plan.Stale, color.New(color.FgRed), now)
	renderSet(w, "Merged branches", plan.Merged, color.New(color.FgYellow), now)
}

func renderSet(w io.Writer, title string, records []branches.Record, name *color.Color, now time.Time) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Fprintf(w, "%s\n", bold.Sprintf("%s (%d):", title, len(records)))
	if len(records) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dim.Sprint("none"))
		return
	}
	width := 0
	for _, r := range records {
		width = max(width, len(r.Name))
	}
	for _, r := range records {
		fmt.Fprintf(w, "  %s  %s\n",
			name.Sprintf("%-*s", width, r.Name),
			dim.Sprintf("%s (%s)", r.LastCommit.Format(dateLayout), FormatAge(r.LastCommit, now)),
		)
	}
	fmt.Fprintln(w)
}

// Summary writes the outcome of the deletion step.
func Summary(w io.Writer, deleted []string, total int) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Sprintf("Deleted %d of %d branch(es).", len(deleted), total))
}

// FormatAge describes how long before now t was, in the coarsest unit
// that fits.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "1 day ago"
	case days < 30:
		return fmt.Sprintf("%d days ago", days)
	case days < 365:
		months := days / 30
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := days / 365
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
