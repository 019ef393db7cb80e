// File: api/schemas/outcome.go
package schemas

// Skip and required-missing reasons. These are user-facing strings surfaced
// in the review summary, so they read as sentences rather than codes.
const (
	ReasonAlreadyFilled   = "Already has a value"
	ReasonNoProfileValue  = "No profile value"
	ReasonUnrecognized    = "Unrecognized field"
	ReasonFileAttachment  = "File must be attached manually"
	ReasonNotInteractable = "Field is not interactable"
)

// FilledField records one value the filler wrote.
type FilledField struct {
	Selector string `json:"selector"`
	Role     string `json:"role"`
	Label    string `json:"label,omitempty"`
	Value    string `json:"value"`
}

// SkippedField records a candidate field the filler deliberately left alone.
type SkippedField struct {
	Selector string `json:"selector"`
	Role     string `json:"role,omitempty"`
	Label    string `json:"label,omitempty"`
	Reason   string `json:"reason"`
}

// RequiredField records a required field that remains empty after filling.
// IsFile marks fields whose proceed-time re-check inspects chosen files
// instead of the text value.
type RequiredField struct {
	Selector string `json:"selector"`
	Role     string `json:"role,omitempty"`
	Label    string `json:"label,omitempty"`
	Reason   string `json:"reason"`
	IsFile   bool   `json:"isFile,omitempty"`
}

// FillReport is the outcome of one fill invocation. A scanned field appears
// in at most one of the three sets; invisible or disabled fields that are not
// required appear in none.
type FillReport struct {
	Filled           []FilledField   `json:"filled"`
	Skipped          []SkippedField  `json:"skipped"`
	RequiredUnfilled []RequiredField `json:"requiredUnfilled"`
}

// ActionCandidate is a clickable element believed to advance or submit the
// form, ranked by keyword score.
type ActionCandidate struct {
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Score    int    `json:"score"`
}
