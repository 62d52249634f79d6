package branches_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/agrahamlincoln/branchsweep/internal/branches"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return now.Add(-time.Duration(n) * 24 * time.Hour)
}

func thresholds(t *testing.T) branches.Thresholds {
	t.Helper()
	th, err := branches.NewThresholds(now, 90*24*time.Hour, 14*24*time.Hour)
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	return th
}

func names(records []branches.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestClassify_StaleExcludedFromMerged(t *testing.T) {
	git := &fakeGit{
		remote: []string{"main", "feature-a", "feature-b"},
		merged: []string{"feature-a"},
		dates: map[string]time.Time{
			"feature-a": daysAgo(400),
			"feature-b": daysAgo(10),
		},
	}

	plan, err := branches.NewFinder(git, nil, 4).Classify(context.Background(), thresholds(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := names(plan.Stale); !reflect.DeepEqual(got, []string{"feature-a"}) {
		t.Errorf("stale: got %v, want [feature-a]", got)
	}
	if len(plan.Merged) != 0 {
		t.Errorf("merged: expected none, got %v", names(plan.Merged))
	}
	for _, b := range git.fetched {
		if b == "main" {
			t.Error("protected branch main should never be fetched")
		}
	}
}

func TestClassify_MergedBranches(t *testing.T) {
	git := &fakeGit{
		remote: []string{"feature/old-merged", "feature/fresh-merged", "feature/open"},
		merged: []string{"feature/old-merged", "feature/fresh-merged"},
		dates: map[string]time.Time{
			"feature/old-merged":   daysAgo(30),
			"feature/fresh-merged": daysAgo(3),
			"feature/open":         daysAgo(60),
		},
	}

	plan, err := branches.NewFinder(git, nil, 2).Classify(context.Background(), thresholds(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Stale) != 0 {
		t.Errorf("stale: expected none, got %v", names(plan.Stale))
	}
	if got := names(plan.Merged); !reflect.DeepEqual(got, []string{"feature/old-merged"}) {
		t.Errorf("merged: got %v, want [feature/old-merged]", got)
	}
	if !plan.Thresholds.Stale.Equal(daysAgo(90)) || !plan.Thresholds.Merged.Equal(daysAgo(14)) {
		t.Errorf("unexpected thresholds in plan: %+v", plan.Thresholds)
	}
}

func TestClassify_ProtectedNeverClassified(t *testing.T) {
	protected := []string{"main", "master", "staging", "production", "release"}
	dates := map[string]time.Time{"feature": daysAgo(500)}
	for _, p := range protected {
		dates[p] = daysAgo(1000)
	}
	git := &fakeGit{
		remote: append([]string{"feature"}, protected...),
		merged: append([]string{"feature"}, protected...),
		dates:  dates,
	}

	finder := branches.NewFinder(git, branches.NewProtectedSet("release"), 4)
	plan, err := finder.Classify(context.Background(), thresholds(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range plan.All() {
		for _, p := range protected {
			if r.Name == p {
				t.Errorf("protected branch %q was classified", p)
			}
		}
	}
	if got := names(plan.Stale); !reflect.DeepEqual(got, []string{"feature"}) {
		t.Errorf("stale: got %v, want [feature]", got)
	}
}

func TestClassify_FailedLookupAborts(t *testing.T) {
	git := &fakeGit{
		remote: []string{"feature-a", "feature-b", "feature-c"},
		dates: map[string]time.Time{
			"feature-a": daysAgo(400),
			"feature-b": daysAgo(400),
			"feature-c": daysAgo(400),
		},
		fetchErr: map[string]error{"feature-b": errors.New("exit status 128")},
	}

	plan, err := branches.NewFinder(git, nil, 4).Classify(context.Background(), thresholds(t))
	if err == nil {
		t.Fatal("expected error when a commit date lookup fails")
	}
	if !strings.Contains(err.Error(), "feature-b") {
		t.Errorf("expected error to name the branch, got %v", err)
	}
	if !plan.Empty() {
		t.Errorf("expected no partial plan, got %+v", plan)
	}
}

func TestClassify_ZeroTimestampAborts(t *testing.T) {
	git := &fakeGit{
		remote: []string{"feature-a"},
		dates:  map[string]time.Time{"feature-a": {}},
	}

	_, err := branches.NewFinder(git, nil, 1).Classify(context.Background(), thresholds(t))
	if err == nil || !strings.Contains(err.Error(), "invalid timestamp") {
		t.Fatalf("expected invalid timestamp error, got %v", err)
	}
}

func TestClassify_ListingErrorsAreFatal(t *testing.T) {
	tests := []struct {
		name string
		git  *fakeGit
		want string
	}{
		{
			name: "remote branches",
			git:  &fakeGit{remoteErr: errors.New("could not read from remote")},
			want: "listing remote branches",
		},
		{
			name: "merged branches",
			git:  &fakeGit{mergedErr: errors.New("no upstream configured")},
			want: "listing merged branches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := branches.NewFinder(tt.git, nil, 1).Classify(context.Background(), thresholds(t))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestOlder_StrictInequality(t *testing.T) {
	threshold := daysAgo(90)
	records := []branches.Record{
		{Name: "exactly", LastCommit: threshold},
		{Name: "one-second-older", LastCommit: threshold.Add(-time.Second)},
		{Name: "newer", LastCommit: threshold.Add(time.Second)},
	}

	got := names(branches.Older(records, threshold))
	if !reflect.DeepEqual(got, []string{"one-second-older"}) {
		t.Errorf("got %v, want [one-second-older]", got)
	}
}

func TestOlder_StableOldestFirst(t *testing.T) {
	tip := daysAgo(100)
	records := []branches.Record{
		{Name: "B1", LastCommit: tip},
		{Name: "B2", LastCommit: tip},
		{Name: "B3", LastCommit: tip.Add(-time.Second)},
	}

	got := names(branches.Older(records, daysAgo(90)))
	want := []string{"B3", "B1", "B2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOlder_Empty(t *testing.T) {
	if got := branches.Older(nil, now); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestResolve_PreservesOrder(t *testing.T) {
	git := &fakeGit{dates: map[string]time.Time{
		"c": daysAgo(3), "a": daysAgo(1), "b": daysAgo(2),
	}}

	records, err := branches.NewFinder(git, nil, 3).Resolve(context.Background(), []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(records); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("got %v, want [c a b]", got)
	}
	if len(git.fetched) != 3 {
		t.Errorf("expected every branch to be fetched, got %v", git.fetched)
	}
}

func TestDelete_All(t *testing.T) {
	git := &fakeGit{}
	records := []branches.Record{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	deleted, err := branches.NewFinder(git, nil, 3).Delete(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 3 || len(git.deleted) != 3 {
		t.Errorf("expected 3 deletions, got %v", deleted)
	}
}

func TestDelete_PartialFailureIsNotRolledBack(t *testing.T) {
	git := &fakeGit{
		deleteErr: map[string]error{"second": errors.New("remote rejected")},
	}
	records := []branches.Record{{Name: "first"}, {Name: "second"}, {Name: "third"}}

	// One worker makes the completion order deterministic.
	deleted, err := branches.NewFinder(git, nil, 1).Delete(context.Background(), records)
	if err == nil {
		t.Fatal("expected error from failed deletion")
	}
	if !strings.Contains(err.Error(), "deleting second") {
		t.Errorf("expected error to name the failed branch, got %v", err)
	}
	if !reflect.DeepEqual(deleted, []string{"first"}) {
		t.Errorf("expected first to remain deleted, got %v", deleted)
	}
	if !reflect.DeepEqual(git.deleted, []string{"first"}) {
		t.Errorf("expected no deletions after the failure, got %v", git.deleted)
	}
}

func TestPrune(t *testing.T) {
	git := &fakeGit{}
	if err := branches.NewFinder(git, nil, 1).Prune(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if git.pruned != 1 {
		t.Errorf("expected one prune, got %d", git.pruned)
	}

	git.pruneErr = errors.New("exit status 1")
	if err := branches.NewFinder(git, nil, 1).Prune(context.Background()); err == nil {
		t.Error("expected prune error to propagate")
	}
}
