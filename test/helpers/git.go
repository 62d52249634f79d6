// Package helpers provides test utilities for creating git repositories and scenarios.
package helpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRepo represents a test git working copy, optionally with a bare
// repository configured as its origin remote.
type TestRepo struct {
	Path   string
	Origin string
	t      *testing.T
}

// NewTestRepo creates a new test repository in a temporary directory
// with a single commit on main.
func NewTestRepo(t *testing.T, name string) *TestRepo {
	t.Helper()

	tmpDir := t.TempDir()
	repoPath := filepath.Join(tmpDir, name)

	if err := os.MkdirAll(repoPath, 0750); err != nil {
		t.Fatalf("Failed to create test repo directory: %v", err)
	}

	repo := &TestRepo{
		Path: repoPath,
		t:    t,
	}

	repo.run("init", "-b", "main")
	repo.run("config", "user.name", "Test User")
	repo.run("config", "user.email", "test@example.com")

	repo.WriteFile("README.md", "# Test Repository\n")
	repo.AddFile("README.md")
	repo.CommitWithDate("Initial commit", time.Now())

	return repo
}

// NewTestRepoWithOrigin creates a test repository plus a bare repository
// next to it, wired up as origin with main pushed and tracking.
func NewTestRepoWithOrigin(t *testing.T, name string) *TestRepo {
	t.Helper()

	repo := NewTestRepo(t, name)
	origin := filepath.Join(filepath.Dir(repo.Path), name+".git")

	// #nosec G204 - git command with controlled inputs in test code
	cmd := exec.Command("git", "init", "--bare", "-b", "main", origin)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to create bare origin: %v\n%s", err, output)
	}

	repo.Origin = origin
	repo.run("remote", "add", "origin", origin)
	repo.run("push", "-u", "origin", "main")
	return repo
}

// WriteFile writes a file to the repository
func (r *TestRepo) WriteFile(filename, content string) {
	r.t.Helper()
	path := filepath.Join(r.Path, filename)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		r.t.Fatalf("Failed to write file %s: %v", filename, err)
	}
}

// AddFile stages a file for commit
func (r *TestRepo) AddFile(filename string) {
	r.t.Helper()
	r.run("add", filename)
}

// Commit creates a commit with the current timestamp
func (r *TestRepo) Commit(message string) {
	r.t.Helper()
	r.CommitWithDate(message, time.Now())
}

// CommitWithDate creates a commit whose author and committer dates are
// both set to date.
func (r *TestRepo) CommitWithDate(message string, date time.Time) {
	r.t.Helper()
	dateStr := date.Format(time.RFC3339)
	// #nosec G204 - git command with controlled inputs in test code
	cmd := exec.Command("git", "commit", "-m", message, "--date", dateStr)
	cmd.Dir = r.Path
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("GIT_AUTHOR_DATE=%s", dateStr),
		fmt.Sprintf("GIT_COMMITTER_DATE=%s", dateStr),
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("Failed to commit: %v\n%s", err, output)
	}
}

// CreateBranch creates a new branch and checks it out
func (r *TestRepo) CreateBranch(name string) {
	r.t.Helper()
	r.run("checkout", "-b", name)
}

// AddBranch creates branch off main with one commit dated date, then
// switches back to main.
func (r *TestRepo) AddBranch(name string, date time.Time) {
	r.t.Helper()
	r.CreateBranch(name)
	file := strings.ReplaceAll(name, "/", "-") + ".txt"
	r.WriteFile(file, name)
	r.AddFile(file)
	r.CommitWithDate("work on "+name, date)
	r.Checkout("main")
}

// Checkout switches to a branch
func (r *TestRepo) Checkout(branch string) {
	r.t.Helper()
	r.run("checkout", branch)
}

// Merge merges a branch into the current branch
func (r *TestRepo) Merge(branch string) {
	r.t.Helper()
	r.run("merge", "--no-ff", branch, "-m", fmt.Sprintf("Merge branch '%s'", branch))
}

// Push pushes a branch to origin
func (r *TestRepo) Push(branch string) {
	r.t.Helper()
	r.run("push", "origin", branch)
}

// RemoteBranches returns the branch names present in the bare origin.
func (r *TestRepo) RemoteBranches() []string {
	r.t.Helper()
	// #nosec G204 - git command with controlled inputs in test code
	cmd := exec.Command("git", "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	cmd.Dir = r.Origin
	output, err := cmd.Output()
	if err != nil {
		r.t.Fatalf("Failed to list origin branches: %v", err)
	}

	var branches []string
	for _, line := range strings.Split(string(output), "\n") {
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches
}

// HasRemoteBranch reports whether origin still has the given branch.
func (r *TestRepo) HasRemoteBranch(branch string) bool {
	r.t.Helper()
	for _, b := range r.RemoteBranches() {
		if b == branch {
			return true
		}
	}
	return false
}

// run executes a git command in the repository
func (r *TestRepo) run(args ...string) {
	r.t.Helper()
	// #nosec G204 - git command with controlled inputs in test code
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	if output, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("Git command failed: git %v\n%s", args, output)
	}
}
