// Package branches finds stale and merged branches on a remote and
// deletes the ones a user approves.
package branches

import (
	"fmt"
	"slices"
	"time"
)

// Record is a remote branch together with the author date of its tip.
type Record struct {
	Name       string
	LastCommit time.Time
}

// Age returns how long before now the branch was last committed to.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.LastCommit)
}

// DefaultProtected lists the branch names that are never classified or
// deleted, whatever their age or merge status.
var DefaultProtected = []string{"main", "master", "staging", "production"}

// ProtectedSet is a set of branch names matched by exact string equality.
type ProtectedSet map[string]struct{}

// NewProtectedSet returns DefaultProtected plus any extra names.
func NewProtectedSet(extra ...string) ProtectedSet {
	p := make(ProtectedSet, len(DefaultProtected)+len(extra))
	for _, name := range DefaultProtected {
		p[name] = struct{}{}
	}
	for _, name := range extra {
		if name != "" {
			p[name] = struct{}{}
		}
	}
	return p
}

// Contains reports whether name is protected.
func (p ProtectedSet) Contains(name string) bool {
	_, ok := p[name]
	return ok
}

// Filter returns names with protected entries removed. Order and
// duplicates are preserved.
func (p ProtectedSet) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !p.Contains(name) {
			out = append(out, name)
		}
	}
	return out
}

// Names returns the protected names in sorted order.
func (p ProtectedSet) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Thresholds are the two classification boundaries. A branch is stale when
// its last commit is before Stale, and a merged branch is eligible when its
// last commit is before Merged.
type Thresholds struct {
	Stale  time.Time
	Merged time.Time
}

// NewThresholds computes both boundaries relative to now. staleAge must be
// strictly longer than mergedAge, and mergedAge must be positive.
func NewThresholds(now time.Time, staleAge, mergedAge time.Duration) (Thresholds, error) {
	if mergedAge <= 0 {
		return Thresholds{}, fmt.Errorf("merged age must be positive, got %s", mergedAge)
	}
	if staleAge <= mergedAge {
		return Thresholds{}, fmt.Errorf("stale age (%s) must be longer than merged age (%s)", staleAge, mergedAge)
	}
	return Thresholds{
		Stale:  now.Add(-staleAge),
		Merged: now.Add(-mergedAge),
	}, nil
}

// Plan is the result of classification: the branches proposed for deletion.
type Plan struct {
	Thresholds Thresholds
	Stale      []Record
	Merged     []Record
}

// Empty reports whether there is nothing to delete.
func (p Plan) Empty() bool {
	return len(p.Stale) == 0 && len(p.Merged) == 0
}

// All returns the stale branches followed by the merged branches.
func (p Plan) All() []Record {
	all := make([]Record, 0, len(p.Stale)+len(p.Merged))
	all = append(all, p.Stale...)
	return append(all, p.Merged...)
}
