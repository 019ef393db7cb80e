// File: api/schemas/profile_test.go
package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSplitting(t *testing.T) {
	tests := []struct {
		full  string
		first string
		last  string
	}{
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Ada", "Ada", ""},
		{"Mary Ann Evans", "Mary", "Ann Evans"},
		{"  Ada   Lovelace  ", "Ada", "Lovelace"},
		{"", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.full, func(t *testing.T) {
			p := Profile{FullName: tc.full}
			assert.Equal(t, tc.first, p.FirstName())
			assert.Equal(t, tc.last, p.LastName())
		})
	}
}

func TestResolveEmailChain(t *testing.T) {
	p := Profile{
		Email:     "profile@example.com",
		UserEmail: "account@example.com",
		Username:  "username@example.com",
	}

	assert.Equal(t, "override@example.com", p.ResolveEmail("override@example.com"))
	assert.Equal(t, "profile@example.com", p.ResolveEmail(""))

	p.Email = ""
	assert.Equal(t, "account@example.com", p.ResolveEmail(""))

	p.UserEmail = ""
	assert.Equal(t, "username@example.com", p.ResolveEmail(""))

	p.Username = ""
	assert.Equal(t, "", p.ResolveEmail(""))
}

func TestNormalizeTrimsEveryField(t *testing.T) {
	p := Profile{
		FullName: "  Ada Lovelace ",
		Email:    " ada@example.com ",
		Phone:    "\t555-0100\n",
	}
	p.Normalize()
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "555-0100", p.Phone)
}

func TestActionValid(t *testing.T) {
	assert.True(t, ActionFillForm.Valid())
	assert.True(t, ActionAutoApply.Valid())
	assert.True(t, ActionAutoApplySupervised.Valid())
	assert.True(t, ActionAnalyzePage.Valid())
	assert.False(t, Action("explode").Valid())
	assert.False(t, Action("").Valid())
}
