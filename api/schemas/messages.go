// File: api/schemas/messages.go
package schemas

import "encoding/json"

// Action identifies one of the operations the agent dispatcher understands.
// The names mirror the message actions of the original extension boundary.
type Action string

const (
	ActionFillForm    Action = "fillForm"
	ActionAnalyzePage Action = "analyzePage"
	// ActionAutoApply is the legacy alias for ActionAutoApplySupervised.
	// Both run the same supervised policy; only the call convention differs.
	ActionAutoApply           Action = "autoApply"
	ActionAutoApplySupervised Action = "autoApplySupervised"
)

// Valid reports whether the action is one the dispatcher handles.
func (a Action) Valid() bool {
	switch a {
	case ActionFillForm, ActionAnalyzePage, ActionAutoApply, ActionAutoApplySupervised:
		return true
	}
	return false
}

// ActionRequest is the single request shape for every action. Exactly one of
// PageURL or HTMLFile selects the page; Token/APIURL address the backend.
type ActionRequest struct {
	Action   Action `json:"action"`
	PageURL  string `json:"pageUrl,omitempty"`
	HTMLFile string `json:"htmlFile,omitempty"`

	Token  string `json:"token,omitempty"`
	APIURL string `json:"apiUrl,omitempty"`

	// Identity hints. When absent they are recovered from the token claims.
	UserID string `json:"userId,omitempty"`
	// UserEmail doubles as the email override in the filler's fallback chain.
	UserEmail string `json:"userEmail,omitempty"`

	// MockProfile bypasses the backend fetch entirely when set.
	MockProfile *Profile `json:"mockProfile,omitempty"`
}

// ActionResponse is the single response shape. Success=false carries a
// human-readable Error; the remaining fields are populated per action.
type ActionResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	InvocationID string `json:"invocationId,omitempty"`

	Fill       *FillReport       `json:"fill,omitempty"`
	Candidates []ActionCandidate `json:"candidates,omitempty"`

	// Clicked reports whether the supervised review gate completed with a
	// click. Staged responses (no interactive reviewer available) leave it
	// false and return the candidates for the caller to act on.
	Clicked         bool   `json:"clicked,omitempty"`
	ClickedSelector string `json:"clickedSelector,omitempty"`

	// Analysis holds the backend's raw job-parse result for analyzePage.
	Analysis json.RawMessage `json:"analysis,omitempty"`
}

// Fail builds an error response. Mirrors the {success:false, error} shape of
// the extension message boundary.
func Fail(invocationID string, err error) ActionResponse {
	return ActionResponse{Success: false, Error: err.Error(), InvocationID: invocationID}
}
