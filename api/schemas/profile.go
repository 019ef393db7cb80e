// File: api/schemas/profile.go
package schemas

import "strings"

// Profile is the applicant record fetched from the backend. The backend
// returns a loosely shaped JSON object, so every field is optional; Normalize
// must be called at the boundary before the record reaches the filler.
type Profile struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	UserEmail    string `json:"userEmail,omitempty"`
	Username     string `json:"username,omitempty"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	LinkedinURL  string `json:"linkedinUrl"`
	PortfolioURL string `json:"portfolioUrl"`
	Summary      string `json:"summary"`
}

// Normalize trims surrounding whitespace on every field. The filler never
// writes blank values, so normalization here keeps "   " from counting as a
// usable profile value downstream.
func (p *Profile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.UserEmail = strings.TrimSpace(p.UserEmail)
	p.Username = strings.TrimSpace(p.Username)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = strings.TrimSpace(p.Location)
	p.LinkedinURL = strings.TrimSpace(p.LinkedinURL)
	p.PortfolioURL = strings.TrimSpace(p.PortfolioURL)
	p.Summary = strings.TrimSpace(p.Summary)
}

// FirstName derives the given name as the first whitespace-separated token of
// FullName.
func (p Profile) FirstName() string {
	parts := strings.Fields(p.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName derives the family name as everything after the first token,
// re-joined with single spaces.
func (p Profile) LastName() string {
	parts := strings.Fields(p.FullName)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}

// ResolveEmail returns the first non-empty value in the fallback chain:
// explicit override, profile email, account email, username.
func (p Profile) ResolveEmail(override string) string {
	for _, candidate := range []string{override, p.Email, p.UserEmail, p.Username} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return ""
}
