package branches

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/agrahamlincoln/branchsweep/internal/parallel"
)

// Finder lists, dates, classifies and deletes branches on one remote.
// Git work is spread across at most the given number of workers.
type Finder struct {
	git       GitOps
	protected ProtectedSet
	workers   int
}

// NewFinder creates a Finder. A nil protected set means DefaultProtected.
func NewFinder(git GitOps, protected ProtectedSet, workers int) *Finder {
	if protected == nil {
		protected = NewProtectedSet()
	}
	return &Finder{git: git, protected: protected, workers: workers}
}

// Prune drops stale remote-tracking refs so later lookups see the
// remote's current state.
func (f *Finder) Prune(ctx context.Context) error {
	if err := f.git.Prune(ctx); err != nil {
		return fmt.Errorf("pruning remote-tracking refs: %w", err)
	}
	return nil
}

// ListAll returns every unprotected branch on the remote.
func (f *Finder) ListAll(ctx context.Context) ([]string, error) {
	names, err := f.git.RemoteBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote branches: %w", err)
	}
	return f.protected.Filter(names), nil
}

// ListMerged returns every unprotected remote branch that is already merged.
func (f *Finder) ListMerged(ctx context.Context) ([]string, error) {
	names, err := f.git.MergedBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing merged branches: %w", err)
	}
	return f.protected.Filter(names), nil
}

// Resolve fetches each branch and reads the date of its last commit. A
// single failed lookup fails the whole call: classifying against a partial
// set of dates would give wrong answers.
func (f *Finder) Resolve(ctx context.Context, names []string) ([]Record, error) {
	return parallel.Map(ctx, names, f.workers, func(ctx context.Context, name string) (Record, error) {
		if err := f.git.Fetch(ctx, name); err != nil {
			return Record{}, fmt.Errorf("fetching %s: %w", name, err)
		}
		date, err := f.git.CommitTime(ctx, name)
		if err != nil {
			return Record{}, fmt.Errorf("reading commit date of %s: %w", name, err)
		}
		if date.IsZero() || date.Unix() <= 0 {
			return Record{}, fmt.Errorf("reading commit date of %s: invalid timestamp %d", name, date.Unix())
		}
		slog.Debug("resolved commit date", "branch", name, "date", date.Format(time.RFC3339))
		return Record{Name: name, LastCommit: date}, nil
	})
}

// Classify builds the deletion plan. Stale branches are those not committed
// to since th.Stale. Merged branches are those merged and not committed to
// since th.Merged, excluding anything already classified as stale.
func (f *Finder) Classify(ctx context.Context, th Thresholds) (Plan, error) {
	plan := Plan{Thresholds: th}

	all, err := f.ListAll(ctx)
	if err != nil {
		return Plan{}, err
	}
	slog.Debug("found remote branches", "count", len(all))

	records, err := f.Resolve(ctx, all)
	if err != nil {
		return Plan{}, err
	}
	plan.Stale = Older(records, th.Stale)

	stale := make(map[string]bool, len(plan.Stale))
	for _, r := range plan.Stale {
		stale[r.Name] = true
	}

	merged, err := f.ListMerged(ctx)
	if err != nil {
		return Plan{}, err
	}
	candidates := make([]string, 0, len(merged))
	for _, name := range merged {
		if !stale[name] {
			candidates = append(candidates, name)
		}
	}
	slog.Debug("found merged branches", "count", len(merged), "candidates", len(candidates))

	records, err = f.Resolve(ctx, candidates)
	if err != nil {
		return Plan{}, err
	}
	plan.Merged = Older(records, th.Merged)

	return plan, nil
}

// Older returns the records last committed to strictly before threshold,
// oldest first. Records with equal dates keep their relative order.
func Older(records []Record, threshold time.Time) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.LastCommit.Before(threshold) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return a.LastCommit.Compare(b.LastCommit)
	})
	return out
}

// Delete removes every record's branch from the remote. The first failure
// stops deletions that have not started yet and is returned; deletions that
// already completed stay deleted. The names deleted so far are returned
// either way.
func (f *Finder) Delete(ctx context.Context, records []Record) ([]string, error) {
	var (
		mu      sync.Mutex
		deleted []string
	)
	err := parallel.Each(ctx, records, f.workers, func(ctx context.Context, r Record) error {
		slog.Debug("deleting remote branch", "branch", r.Name)
		// A push that has started runs to completion so that deleted
		// reports every branch actually gone from the remote.
		if err := f.git.DeleteRemote(context.WithoutCancel(ctx), r.Name); err != nil {
			return fmt.Errorf("deleting %s: %w", r.Name, err)
		}
		mu.Lock()
		deleted = append(deleted, r.Name)
		mu.Unlock()
		return nil
	})
	return deleted, err
}
