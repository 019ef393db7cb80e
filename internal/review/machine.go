// File: internal/review/machine.go

// Package review implements the supervised confirmation gate: the state
// machine that stands between a completed fill pass and the single click that
// submits or advances the form.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/page"
)

// State of the review gate. Transitions are driven exclusively by reviewer
// input; no timer ever advances the machine.
type State int

const (
	StateClosed State = iota
	// StateReviewing: gate is open, the reviewed confirmation is unchecked,
	// Proceed is refused.
	StateReviewing
	// StateVerified: the reviewer has explicitly confirmed; Proceed is armed.
	StateVerified
	// StateProceeded: terminal; the selected action was clicked.
	StateProceeded
	// StateCancelled: terminal; the gate closed with no side effects.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateReviewing:
		return "reviewing"
	case StateVerified:
		return "verified"
	case StateProceeded:
		return "proceeded"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ErrNotVerified is returned when Proceed is called before the reviewer has
// confirmed the fields.
var ErrNotVerified = errors.New("review not confirmed: check the reviewed confirmation first")

// ErrNoCandidates is returned when Proceed is called with nothing to click.
var ErrNoCandidates = errors.New("no action candidates available")

// MissingFieldsError reports required fields that are still empty at proceed
// time. The gate drops back to reviewing; the reviewer can fill the fields on
// the page and try again.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("required fields still missing: %s", strings.Join(e.Fields, ", "))
}

// CandidateGoneError reports that the selected action element disappeared
// from the document between ranking and proceeding.
type CandidateGoneError struct {
	Selector string
}

func (e *CandidateGoneError) Error() string {
	return fmt.Sprintf("selected action element no longer present: %s", e.Selector)
}

// Machine is the review gate for a single invocation. It is not safe for
// concurrent use; a single reviewer drives it.
type Machine struct {
	pg         page.Page
	report     *schemas.FillReport
	candidates []schemas.ActionCandidate
	clickDelay time.Duration

	state    State
	selected int

	// sleep is swappable in tests; it must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewMachine opens the gate in the reviewing state with the top-ranked
// candidate preselected. clickDelay is the settle pause between scrolling the
// chosen element into view and clicking it.
func NewMachine(pg page.Page, report *schemas.FillReport, candidates []schemas.ActionCandidate, clickDelay time.Duration) *Machine {
	return &Machine{
		pg:         pg,
		report:     report,
		candidates: candidates,
		clickDelay: clickDelay,
		state:      StateReviewing,
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the current gate state.
func (m *Machine) State() State { return m.state }

// Report returns the fill outcome the gate was opened with.
func (m *Machine) Report() *schemas.FillReport { return m.report }

// Candidates returns the ranked action candidates.
func (m *Machine) Candidates() []schemas.ActionCandidate { return m.candidates }

// Selected returns the currently selected candidate.
func (m *Machine) Selected() (schemas.ActionCandidate, bool) {
	if len(m.candidates) == 0 {
		return schemas.ActionCandidate{}, false
	}
	return m.candidates[m.selected], true
}

// SelectedIndex returns the index of the selected candidate.
func (m *Machine) SelectedIndex() int { return m.selected }

// SetReviewed toggles the explicit "I reviewed the fields" confirmation.
// Checking it arms Proceed; unchecking disarms it.
func (m *Machine) SetReviewed(v bool) {
	switch {
	case v && m.state == StateReviewing:
		m.state = StateVerified
	case !v && m.state == StateVerified:
		m.state = StateReviewing
	}
}

// Select changes the candidate to click. Valid in reviewing and verified.
func (m *Machine) Select(i int) error {
	if m.state != StateReviewing && m.state != StateVerified {
		return fmt.Errorf("cannot select a candidate in state %s", m.state)
	}
	if i < 0 || i >= len(m.candidates) {
		return fmt.Errorf("candidate index %d out of range", i)
	}
	m.selected = i
	return nil
}

// Cancel closes the gate with no side effects.
func (m *Machine) Cancel() {
	if m.state == StateReviewing || m.state == StateVerified {
		m.state = StateCancelled
	}
}

// Proceed re-validates every originally-required-unfilled field against the
// live document, then scrolls the selected candidate into view and clicks it
// after the settle delay. The snapshot from scan time is deliberately
// distrusted here: the reviewer may have edited the page since.
//
// On MissingFieldsError or CandidateGoneError the gate returns to reviewing
// with the confirmation cleared.
func (m *Machine) Proceed(ctx context.Context) error {
	if m.state != StateVerified {
		return ErrNotVerified
	}

	if missing := m.recheckRequired(ctx); len(missing) > 0 {
		m.state = StateReviewing
		return &MissingFieldsError{Fields: missing}
	}

	cand, ok := m.Selected()
	if !ok {
		return ErrNoCandidates
	}

	if err := m.pg.ScrollIntoView(ctx, cand.Selector); err != nil {
		m.state = StateReviewing
		return &CandidateGoneError{Selector: cand.Selector}
	}
	// Let scroll-into-view settle before the click lands.
	if err := m.sleep(ctx, m.clickDelay); err != nil {
		return err
	}
	if err := m.pg.Click(ctx, cand.Selector); err != nil {
		m.state = StateReviewing
		return &CandidateGoneError{Selector: cand.Selector}
	}

	m.state = StateProceeded
	return nil
}

// recheckRequired reads the current state of each required-unfilled field.
// File inputs pass when a file is chosen; everything else passes on a
// non-blank trimmed value. Read failures count as still missing.
func (m *Machine) recheckRequired(ctx context.Context) []string {
	var missing []string
	for _, rf := range m.report.RequiredUnfilled {
		name := rf.Label
		if name == "" {
			name = rf.Selector
		}
		if rf.IsFile {
			chosen, err := m.pg.HasFile(ctx, rf.Selector)
			if err != nil || !chosen {
				missing = append(missing, name)
			}
			continue
		}
		v, err := m.pg.Value(ctx, rf.Selector)
		if err != nil || strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
