// File: internal/classify/classifier.go

// Package classify infers the semantic role of a form control from its
// attributes and surrounding label text. Classification is a pure function of
// the control snapshot: no DOM access, no side effects.
package classify

import (
	"regexp"
	"strings"

	"github.com/autoapply/autoapply-cli/internal/page"
)

// Role is the inferred meaning of a form field, independent of its HTML
// attributes. The zero value means "no role recognized".
type Role string

const (
	RoleNone         Role = ""
	RoleFirstName    Role = "firstName"
	RoleLastName     Role = "lastName"
	RoleFullName     Role = "fullName"
	RoleEmail        Role = "email"
	RolePhone        Role = "phone"
	RoleLinkedinURL  Role = "linkedinUrl"
	RolePortfolioURL Role = "portfolioUrl"
	RoleSummary      Role = "summary"
	RoleLocation     Role = "location"
	RoleFileUpload   Role = "fileUpload"
)

// Input kinds that never receive a semantic role. Password and hidden fields
// must not be touched at all; the button-like kinds are click targets, not
// value carriers.
var excludedInputTypes = map[string]bool{
	"password": true,
	"hidden":   true,
	"checkbox": true,
	"radio":    true,
	"button":   true,
	"submit":   true,
	"reset":    true,
	"image":    true,
}

// autocompleteTokens are tested in order against the autocomplete attribute.
// The compound tokens come first so that "given-name" is not swallowed by the
// bare "name" token.
var autocompleteTokens = []struct {
	token string
	role  Role
}{
	{"given-name", RoleFirstName},
	{"family-name", RoleLastName},
	{"email", RoleEmail},
	{"tel", RolePhone},
	{"address", RoleLocation},
	{"country", RoleLocation},
	{"region", RoleLocation},
	{"locality", RoleLocation},
	{"name", RoleFullName},
}

// contextRules are tested in order against the normalized context string.
// First match wins, so the more specific name roles precede fullName.
var contextRules = []struct {
	role Role
	re   *regexp.Regexp
}{
	{RoleFirstName, regexp.MustCompile(`first[\s_-]*name|\bfname\b|given[\s_-]*name`)},
	{RoleLastName, regexp.MustCompile(`last[\s_-]*name|\blname\b|surname|family[\s_-]*name`)},
	{RoleFullName, regexp.MustCompile(`full[\s_-]*name|applicant[\s_-]*name|your[\s_-]*name|\bname\b`)},
	{RoleEmail, regexp.MustCompile(`e-?mail`)},
	{RolePhone, regexp.MustCompile(`phone|mobile|telephone|\btel\b`)},
	{RoleLinkedinURL, regexp.MustCompile(`linked[\s_-]*in`)},
	{RolePortfolioURL, regexp.MustCompile(`portfolio|personal[\s_-]*website|\bwebsite\b|home[\s_-]*page`)},
	{RoleSummary, regexp.MustCompile(`\bsummary\b|about[\s_-]*(yourself|you|me)\b|\bbio\b`)},
	{RoleLocation, regexp.MustCompile(`location|\bcity\b|address|country|region|locality`)},
}

// fileContextRe marks attachment fields by keyword even when the input is not
// type=file (custom upload widgets often proxy a styled text input).
var fileContextRe = regexp.MustCompile(`resume|r[eé]sum[eé]|\bcv\b|cover[\s_-]*letter|curriculum`)

// NormalizeText lowercases, collapses internal whitespace and trims. Every
// string compared against the keyword rules goes through this first.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContextText builds the normalized haystack the keyword rules run against:
// label text, placeholder, name, id, aria-label and autocomplete, joined.
func ContextText(c page.Control) string {
	return NormalizeText(strings.Join([]string{
		c.Label, c.Placeholder, c.Name, c.ID, c.AriaLabel, c.Autocomplete,
	}, " "))
}

// Classify returns the semantic role for a control, or RoleNone. Signal
// priority: file input kind, then the autocomplete attribute, then keyword
// rules over the context string, then attachment keywords.
func Classify(c page.Control) Role {
	tag := strings.ToLower(c.Tag)
	typ := strings.ToLower(strings.TrimSpace(c.Type))

	if tag == "input" && excludedInputTypes[typ] {
		return RoleNone
	}
	if tag == "input" && typ == "file" {
		return RoleFileUpload
	}

	if ac := NormalizeText(c.Autocomplete); ac != "" && ac != "off" && ac != "on" {
		for _, t := range autocompleteTokens {
			if strings.Contains(ac, t.token) {
				return t.role
			}
		}
	}

	ctx := ContextText(c)
	if ctx == "" {
		return RoleNone
	}

	for _, rule := range contextRules {
		if rule.role == RoleSummary && tag != "textarea" {
			continue
		}
		// A field mentioning "company" is an employer-name field, never the
		// applicant's own name.
		if rule.role == RoleFullName && strings.Contains(ctx, "company") {
			continue
		}
		if rule.re.MatchString(ctx) {
			return rule.role
		}
	}

	if fileContextRe.MatchString(ctx) {
		return RoleFileUpload
	}
	return RoleNone
}
