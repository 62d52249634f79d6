package branches

import (
	"context"
	"time"

	"github.com/agrahamlincoln/branchsweep/pkg/git"
)

// GitOps defines the git operations needed to find and delete branches on
// one remote. This interface enables testing with fakes.
type GitOps interface {
	RemoteBranches(ctx context.Context) ([]string, error)
	MergedBranches(ctx context.Context) ([]string, error)
	Prune(ctx context.Context) error
	Fetch(ctx context.Context, branch string) error
	CommitTime(ctx context.Context, branch string) (time.Time, error)
	DeleteRemote(ctx context.Context, branch string) error
}

// RealGitOps implements GitOps for a single remote of a git working copy.
type RealGitOps struct {
	repo   *git.Repo
	remote string
	into   string
}

// NewRealGitOps creates a RealGitOps. Merged branches are those merged
// into the ref named by into, usually "@{upstream}".
func NewRealGitOps(repo *git.Repo, remote, into string) *RealGitOps {
	return &RealGitOps{repo: repo, remote: remote, into: into}
}

// RemoteBranches lists every branch on the remote.
func (r *RealGitOps) RemoteBranches(ctx context.Context) ([]string, error) {
	return r.repo.RemoteBranches(ctx, r.remote)
}

// MergedBranches lists the remote's branches already merged into the
// configured ref.
func (r *RealGitOps) MergedBranches(ctx context.Context) ([]string, error) {
	return r.repo.MergedRemoteBranches(ctx, r.remote, r.into)
}

// Prune drops remote-tracking refs for branches deleted on the remote.
func (r *RealGitOps) Prune(ctx context.Context) error {
	return r.repo.PruneRemote(ctx, r.remote)
}

// Fetch updates the remote-tracking ref of one branch.
func (r *RealGitOps) Fetch(ctx context.Context, branch string) error {
	return r.repo.FetchBranch(ctx, r.remote, branch)
}

// CommitTime returns the author date of the remote-tracking branch's tip.
func (r *RealGitOps) CommitTime(ctx context.Context, branch string) (time.Time, error) {
	return r.repo.CommitTime(ctx, r.remote+"/"+branch)
}

// DeleteRemote deletes the branch on the remote.
func (r *RealGitOps) DeleteRemote(ctx context.Context, branch string) error {
	return r.repo.DeleteRemoteBranch(ctx, r.remote, branch)
}
