// File: internal/jobdesc/extract_test.go
package jobdesc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longText = strings.Repeat("We are looking for a senior engineer. ", 10)

func TestExtractPrefersSpecificContainer(t *testing.T) {
	page := `<html><body>
		<div class="description">` + longText + `generic</div>
		<div data-job-description>` + longText + `specific</div>
	</body></html>`

	md, err := Extract(page)
	require.NoError(t, err)
	assert.Contains(t, md, "specific")
	assert.NotContains(t, md, "generic")
}

func TestExtractSkipsShortMatches(t *testing.T) {
	page := `<html><body>
		<div class="job-description">Too short.</div>
		<div id="job-description">` + longText + `</div>
	</body></html>`

	md, err := Extract(page)
	require.NoError(t, err)
	assert.Contains(t, md, "senior engineer")
}

func TestExtractFallsBackToMain(t *testing.T) {
	page := `<html><body><nav>Menu</nav><main><p>` + longText + `</p></main></body></html>`

	md, err := Extract(page)
	require.NoError(t, err)
	assert.Contains(t, md, "senior engineer")
	assert.NotContains(t, md, "Menu")
}

func TestExtractProducesMarkdown(t *testing.T) {
	page := `<html><body><div class="job-description">
		<h2>About the role</h2>
		<ul><li>Build things</li><li>Ship things</li></ul>
		<p>` + longText + `</p>
	</div></body></html>`

	md, err := Extract(page)
	require.NoError(t, err)
	assert.Contains(t, md, "## About the role")
	assert.Contains(t, md, "- Build things")
}

func TestExtractNothingFound(t *testing.T) {
	_, err := Extract(`<html><body><p>Tiny page.</p></body></html>`)
	assert.ErrorIs(t, err, ErrNoJobDescription)
}
