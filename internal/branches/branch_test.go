package branches_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/agrahamlincoln/branchsweep/internal/branches"
)

func TestProtectedSet_Filter(t *testing.T) {
	p := branches.NewProtectedSet()
	got := p.Filter([]string{"feature", "main", "Main", "master", "feature", "staging", "production-fix", "production"})
	want := []string{"feature", "Main", "feature", "production-fix"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestProtectedSet_Extra(t *testing.T) {
	p := branches.NewProtectedSet("develop", "")
	want := []string{"develop", "main", "master", "production", "staging"}
	if got := p.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNewThresholds(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		name      string
		stale     time.Duration
		merged    time.Duration
		wantError bool
	}{
		{name: "defaults", stale: 90 * day, merged: 14 * day},
		{name: "equal durations", stale: 14 * day, merged: 14 * day, wantError: true},
		{name: "stale shorter", stale: 7 * day, merged: 14 * day, wantError: true},
		{name: "zero merged", stale: 7 * day, merged: 0, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := branches.NewThresholds(now, tt.stale, tt.merged)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !th.Stale.Before(th.Merged) {
				t.Errorf("expected stale threshold %v before merged threshold %v", th.Stale, th.Merged)
			}
			if !th.Stale.Equal(now.Add(-tt.stale)) {
				t.Errorf("unexpected stale threshold %v", th.Stale)
			}
		})
	}
}

func TestPlan_All(t *testing.T) {
	plan := branches.Plan{
		Stale:  []branches.Record{{Name: "s1"}, {Name: "s2"}},
		Merged: []branches.Record{{Name: "m1"}},
	}
	if got := names(plan.All()); !reflect.DeepEqual(got, []string{"s1", "s2", "m1"}) {
		t.Errorf("got %v", got)
	}
	if plan.Empty() {
		t.Error("expected non-empty plan")
	}
	if !(branches.Plan{}).Empty() {
		t.Error("expected zero plan to be empty")
	}
}

func TestRecord_Age(t *testing.T) {
	r := branches.Record{Name: "x", LastCommit: daysAgo(10)}
	if got := r.Age(now); got != 10*24*time.Hour {
		t.Errorf("got %v", got)
	}
}
