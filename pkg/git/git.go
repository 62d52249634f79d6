// Package git provides functions for interacting with git repositories
// by shelling out to the git CLI.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Repo is a git working copy driven through a Runner.
type Repo struct {
	Path   string
	Runner Runner
}

// Open returns a Repo for path that runs the real git binary.
func Open(path string) *Repo {
	return &Repo{Path: path, Runner: ExecRunner{}}
}

// run executes a git command in the repository and returns its stdout.
// Non-zero exits are always fatal here.
func (r *Repo) run(ctx context.Context, echo bool, args ...string) (string, error) {
	res, err := r.Runner.Run(ctx, r.Path, Options{Check: true, Echo: echo}, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// IsRepo returns true if the repository path is inside a git working copy.
func (r *Repo) IsRepo(ctx context.Context) bool {
	_, err := r.run(ctx, false, "rev-parse", "--git-dir")
	return err == nil
}

// RemoteBranches returns every branch on the given remote as reported by
// ls-remote. Lines that are not of the form "<sha>\trefs/heads/<branch>"
// are dropped.
func (r *Repo) RemoteBranches(ctx context.Context, remote string) ([]string, error) {
	out, err := r.run(ctx, false, "ls-remote", "--heads", remote)
	if err != nil {
		return nil, err
	}
	return parseHeads(out), nil
}

// MergedRemoteBranches returns the remote-tracking branches of remote that
// are merged into the given ref. Lines that are not of the form
// "<remote>/<branch>" are dropped, which also skips the symbolic HEAD entry.
func (r *Repo) MergedRemoteBranches(ctx context.Context, remote, into string) ([]string, error) {
	out, err := r.run(ctx, false, "branch", "-r", "--merged", into)
	if err != nil {
		return nil, err
	}
	return parseRemoteTracking(out, remote), nil
}

// PruneRemote removes remote-tracking refs whose branches no longer exist
// on the remote.
func (r *Repo) PruneRemote(ctx context.Context, remote string) error {
	_, err := r.run(ctx, false, "remote", "prune", remote)
	return err
}

// FetchBranch fetches a single branch from the remote, updating its
// remote-tracking ref.
func (r *Repo) FetchBranch(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, false, "fetch", remote, branch)
	return err
}

// CommitTime returns the author date of the commit ref points to.
func (r *Repo) CommitTime(ctx context.Context, ref string) (time.Time, error) {
	out, err := r.run(ctx, false, "show", "-s", "--format=%at", ref)
	if err != nil {
		return time.Time{}, err
	}
	return parseUnixTime(ref, out)
}

// DeleteRemoteBranch deletes a branch on the given remote. Git's own
// output is echoed to the console.
func (r *Repo) DeleteRemoteBranch(ctx context.Context, remote, branch string) error {
	_, err := r.run(ctx, true, "push", remote, "--delete", branch)
	return err
}

// ParseError reports command output that could not be interpreted.
type ParseError struct {
	Ref    string
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected commit time for %s: %q", e.Ref, e.Output)
}

var headRe = regexp.MustCompile(`^[0-9a-f]+\s+refs/heads/(\S+)$`)

// parseHeads extracts branch names from ls-remote --heads output.
func parseHeads(out string) []string {
	var names []string
	for _, line := range splitNonEmpty(out) {
		m := headRe.FindStringSubmatch(line)
		if m == nil {
			slog.Debug("dropping unrecognized ls-remote line", "line", line)
			continue
		}
		names = append(names, m[1])
	}
	return names
}

// parseRemoteTracking extracts branch names from git branch -r output,
// keeping only refs under the given remote.
func parseRemoteTracking(out, remote string) []string {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(remote) + `/(\S+)$`)
	var names []string
	for _, line := range splitNonEmpty(out) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			slog.Debug("dropping unrecognized branch line", "line", line)
			continue
		}
		names = append(names, m[1])
	}
	return names
}

// parseUnixTime parses a positive Unix timestamp. Anything else is an error.
func parseUnixTime(ref, out string) (time.Time, error) {
	s := strings.TrimSpace(out)
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, &ParseError{Ref: ref, Output: s}
	}
	return time.Unix(secs, 0), nil
}

// splitNonEmpty splits a newline-separated string and returns non-empty lines.
func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}
