// File: internal/fill/values.go
package fill

import (
	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/classify"
)

// Values maps semantic roles to the concrete strings the filler may write.
// Roles with empty values are never written.
type Values map[classify.Role]string

// BuildValues flattens a profile into per-role values. First and last name
// are derived by splitting the full name; the email honors the override ->
// profile -> account -> username fallback chain.
func BuildValues(p schemas.Profile, emailOverride string) Values {
	p.Normalize()
	return Values{
		classify.RoleFirstName:    p.FirstName(),
		classify.RoleLastName:     p.LastName(),
		classify.RoleFullName:     p.FullName,
		classify.RoleEmail:        p.ResolveEmail(emailOverride),
		classify.RolePhone:        p.Phone,
		classify.RoleLocation:     p.Location,
		classify.RoleLinkedinURL:  p.LinkedinURL,
		classify.RolePortfolioURL: p.PortfolioURL,
		classify.RoleSummary:      p.Summary,
	}
}
