// File: internal/review/prompter.go
package review

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ConsolePrompter drives a review Machine from a terminal. It is the CLI
// rendition of the in-page review surface: the fill outcome and ranked
// candidates are shown in the terminal while the filled fields stay
// highlighted on the live page for inspection.
type ConsolePrompter struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
}

// NewConsolePrompter creates a prompter reading commands from in and writing
// the review summary to out.
func NewConsolePrompter(in io.Reader, out io.Writer, logger *zap.Logger) *ConsolePrompter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsolePrompter{
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.Named("review"),
	}
}

// Run presents the gate until it reaches a terminal state. It returns true
// when the reviewer proceeded and the click landed, false on cancel. EOF on
// the input counts as cancel.
func (p *ConsolePrompter) Run(ctx context.Context, m *Machine) (bool, error) {
	p.renderSummary(m)

	for {
		if err := ctx.Err(); err != nil {
			m.Cancel()
			return false, err
		}
		p.renderPrompt(m)

		if !p.in.Scan() {
			m.Cancel()
			fmt.Fprintln(p.out, "Cancelled. No button was clicked.")
			return false, p.in.Err()
		}
		input := strings.ToLower(strings.TrimSpace(p.in.Text()))

		switch {
		case input == "c" || input == "cancel" || input == "q":
			m.Cancel()
			fmt.Fprintln(p.out, "Cancelled. No button was clicked.")
			return false, nil

		case input == "r":
			m.SetReviewed(m.State() != StateVerified)

		case input == "p" || input == "proceed":
			err := m.Proceed(ctx)
			switch {
			case err == nil:
				if cand, ok := m.Selected(); ok {
					fmt.Fprintf(p.out, "Clicked %q.\n", cand.Text)
				}
				return true, nil
			case errors.Is(err, ErrNotVerified):
				fmt.Fprintln(p.out, "Check the review confirmation first (command: r).")
			case isRecoverable(err):
				// Blocking warning; the gate has dropped back to reviewing.
				fmt.Fprintf(p.out, "\n!! %v\n", err)
				fmt.Fprintln(p.out, "Fix the page (or pick another button) and review again.")
			default:
				return false, err
			}

		default:
			if n, convErr := strconv.Atoi(input); convErr == nil {
				if err := m.Select(n - 1); err != nil {
					fmt.Fprintf(p.out, "%v\n", err)
				}
				continue
			}
			fmt.Fprintln(p.out, "Commands: <n> select button, r toggle reviewed, p proceed, c cancel")
		}
	}
}

func isRecoverable(err error) bool {
	var mf *MissingFieldsError
	var cg *CandidateGoneError
	return errors.As(err, &mf) || errors.As(err, &cg)
}

func (p *ConsolePrompter) renderSummary(m *Machine) {
	r := m.Report()

	fmt.Fprintf(p.out, "\n=== Review before submitting ===\n")
	fmt.Fprintf(p.out, "\nFilled (%d):\n", len(r.Filled))
	for _, f := range r.Filled {
		fmt.Fprintf(p.out, "  - %s = %q\n", f.Label, f.Value)
	}
	if len(r.Skipped) > 0 {
		fmt.Fprintf(p.out, "\nSkipped (%d):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Fprintf(p.out, "  - %s (%s)\n", s.Label, s.Reason)
		}
	}
	if len(r.RequiredUnfilled) > 0 {
		fmt.Fprintf(p.out, "\nRequired and still empty (%d):\n", len(r.RequiredUnfilled))
		for _, rf := range r.RequiredUnfilled {
			fmt.Fprintf(p.out, "  ! %s (%s)\n", rf.Label, rf.Reason)
		}
		fmt.Fprintln(p.out, "\nFill these on the page before proceeding; they are re-checked at proceed time.")
	}

	cands := m.Candidates()
	if len(cands) == 0 {
		fmt.Fprintln(p.out, "\nNo action buttons were found; only cancel is possible.")
		return
	}
	fmt.Fprintf(p.out, "\nAction buttons (best first):\n")
	for i, c := range cands {
		fmt.Fprintf(p.out, "  %d. %q (score %d)\n", i+1, c.Text, c.Score)
	}
}

func (p *ConsolePrompter) renderPrompt(m *Machine) {
	checked := " "
	if m.State() == StateVerified {
		checked = "x"
	}
	sel := "-"
	if cand, ok := m.Selected(); ok {
		sel = fmt.Sprintf("%d (%s)", m.SelectedIndex()+1, cand.Text)
	}
	fmt.Fprintf(p.out, "\n[%s] I reviewed the fields   selected: %s\n", checked, sel)
	fmt.Fprintf(p.out, "command (<n>/r/p/c)> ")
}
