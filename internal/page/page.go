// File: internal/page/page.go

// Package page defines the abstraction the classifier, filler, ranker and
// review gate operate against. Two implementations exist: a live browser tab
// (internal/browser) and a parsed static document (internal/htmldoc).
package page

import "context"

// Highlight kinds understood by ResetMarks/Highlight implementations.
const (
	MarkFilled = "filled"
	MarkFile   = "file"
)

// StyleBlockID is the fixed identifier of the injected highlight stylesheet.
// Implementations must check for it before injecting another block.
const StyleBlockID = "autoapply-style"

// Control is a point-in-time snapshot of one form control. It is rebuilt on
// every scan and discarded when the invocation ends; only the Selector is a
// durable handle back into the live page.
type Control struct {
	Selector     string `json:"selector"`
	Tag          string `json:"tag"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	ID           string `json:"id"`
	Placeholder  string `json:"placeholder"`
	AriaLabel    string `json:"ariaLabel"`
	Autocomplete string `json:"autocomplete"`
	Label        string `json:"label"`
	Value        string `json:"value"`
	Required     bool   `json:"required"`
	Disabled     bool   `json:"disabled"`
	ReadOnly     bool   `json:"readOnly"`
	Visible      bool   `json:"visible"`
	HasFile      bool   `json:"hasFile"`
}

// Button is a snapshot of one clickable action element. Text is already
// resolved through the textContent -> value -> aria-label fallback chain.
type Button struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Visible  bool   `json:"visible"`
	Disabled bool   `json:"disabled"`
}

// Page is a loaded document the subsystem can scan and mutate. All reads
// reflect the current DOM, not a cached snapshot; the review gate relies on
// that for its proceed-time re-validation.
type Page interface {
	// Controls returns a fresh snapshot of every input, textarea and select.
	Controls(ctx context.Context) ([]Control, error)
	// Buttons returns a fresh snapshot of the action-candidate pool.
	Buttons(ctx context.Context) ([]Button, error)

	// Value reads the current value of the control at selector.
	Value(ctx context.Context, selector string) (string, error)
	// HasFile reports whether a file input currently has a file chosen.
	HasFile(ctx context.Context, selector string) (bool, error)

	// SetValue writes value into the control and dispatches synthetic input
	// then change events, in that order.
	SetValue(ctx context.Context, selector, value string) error

	// ResetMarks clears all highlight marks from a previous invocation and
	// ensures the highlight style block (StyleBlockID) is present exactly once.
	ResetMarks(ctx context.Context) error
	// Highlight visually flags the control with the given mark kind.
	Highlight(ctx context.Context, selector, kind string) error

	// ScrollIntoView brings the element at selector into the viewport.
	ScrollIntoView(ctx context.Context, selector string) error
	// Click triggers the element's click. This is the only page-mutating
	// navigation path in the subsystem.
	Click(ctx context.Context, selector string) error

	// HTML returns the serialized current document.
	HTML(ctx context.Context) (string, error)
	// Location returns the document URL.
	Location(ctx context.Context) (string, error)
}

// Describe returns the most human-meaningful handle for a control, used in
// review summaries and missing-field alerts.
func Describe(c Control) string {
	for _, s := range []string{c.Label, c.AriaLabel, c.Placeholder, c.Name, c.ID} {
		if s != "" {
			return s
		}
	}
	return c.Selector
}
