package branches_test

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeGit is an in-memory GitOps. All methods are safe for concurrent use.
type fakeGit struct {
	mu sync.Mutex

	remote    []string
	merged    []string
	dates     map[string]time.Time
	remoteErr error
	mergedErr error
	pruneErr  error
	fetchErr  map[string]error
	deleteErr map[string]error

	pruned  int
	fetched []string
	deleted []string
}

func (f *fakeGit) RemoteBranches(_ context.Context) ([]string, error) {
	return f.remote, f.remoteErr
}

func (f *fakeGit) MergedBranches(_ context.Context) ([]string, error) {
	return f.merged, f.mergedErr
}

func (f *fakeGit) Prune(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned++
	return f.pruneErr
}

func (f *fakeGit) Fetch(_ context.Context, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, branch)
	return f.fetchErr[branch]
}

func (f *fakeGit) CommitTime(_ context.Context, branch string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dates[branch]
	if !ok {
		return time.Time{}, errors.New("unknown revision origin/" + branch)
	}
	return d, nil
}

func (f *fakeGit) DeleteRemote(_ context.Context, branch string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[branch]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, branch)
	return nil
}
