package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Result holds the outcome of a single git invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Options controls how a command is run.
type Options struct {
	// Check turns a non-zero exit status into an *ExitError.
	Check bool
	// Echo copies the command's own output to the runner's console writers
	// while it is also being captured.
	Echo bool
}

// Runner executes git commands. ExecRunner is the production implementation;
// tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, dir string, opts Options, args ...string) (Result, error)
}

// ExitError reports a git command that exited with a non-zero status.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("git %s: exit status %d", strings.Join(e.Args, " "), e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

// ExecRunner runs the git binary found on PATH. Stdout and Stderr receive
// echoed output when Options.Echo is set; nil writers default to the
// process's own stdout and stderr.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes git with args in dir.
func (r ExecRunner) Run(ctx context.Context, dir string, opts Options, args ...string) (Result, error) {
	// #nosec G204 - arguments are built by this package, never by a shell
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if opts.Echo {
		cmd.Stdout = io.MultiWriter(&stdout, r.stdout())
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr())
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		return res, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	if opts.Check && res.ExitCode != 0 {
		return res, &ExitError{Args: args, Code: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

func (r ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
