// Package confirm implements the interactive gate that must be passed
// before anything destructive happens.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Approval is the only answer that lets a run proceed.
const Approval = "yes"

// Prompter shows a prompt and blocks until the user has entered one line.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// Approved reports whether answer authorizes the run. The comparison is
// exact: case and surrounding whitespace matter.
func Approved(answer string) bool {
	return answer == Approval
}

// Gate asks p for confirmation. An aborted prompt or closed input counts as
// a refusal, not an error.
func Gate(p Prompter, prompt string) (bool, error) {
	answer, err := p.Prompt(prompt)
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return Approved(answer), nil
}

// New returns a FormPrompter when in is a terminal and a LinePrompter
// reading from in otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return FormPrompter{}
	}
	return &LinePrompter{In: in, Out: out}
}

// FormPrompter asks with a huh text input.
type FormPrompter struct{}

// Prompt runs a single-field form and returns what was typed.
func (FormPrompter) Prompt(prompt string) (string, error) {
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(prompt).
				Value(&answer),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return answer, nil
}

// LinePrompter writes the prompt to Out and reads one line from In. Only
// the line terminator is removed from the answer.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

// Prompt reads one line. Input that ends without a newline is returned as
// is; input that is already exhausted yields io.EOF.
func (p *LinePrompter) Prompt(prompt string) (string, error) {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	if _, err := fmt.Fprintf(p.Out, "%s ", prompt); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Static answers every prompt with Answer, or fails with Err. Prompts
// records what was asked.
type Static struct {
	Answer  string
	Err     error
	Prompts []string
}

// Prompt returns the canned answer.
func (s *Static) Prompt(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	return s.Answer, s.Err
}
