// File: internal/htmldoc/doc_test.go
package htmldoc

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoapply/autoapply-cli/internal/page"
)

const formPage = `<!DOCTYPE html>
<html><head><title>Apply</title></head><body>
<form>
  <label for="first">First Name</label>
  <input id="first" type="text" required>
  <label>Email <input type="email" name="email" value="old@example.com"></label>
  <input type="hidden" name="csrf" value="tok">
  <textarea name="summary" placeholder="Tell us about yourself"></textarea>
  <select name="location">
    <option value="">Choose</option>
    <option value="remote">Remote</option>
  </select>
  <input type="file" name="resume" aria-label="Resume" required>
  <input type="text" name="ghost" style="display:none">
  <button type="submit">Submit Application</button>
  <button disabled>Next</button>
  <a role="button" href="#">Cancel</a>
</form>
</body></html>`

func mustParse(t *testing.T, content string) *Document {
	t.Helper()
	d, err := ParseString(content, "https://jobs.example.com/apply")
	require.NoError(t, err)
	return d
}

func TestControlsSnapshot(t *testing.T) {
	d := mustParse(t, formPage)
	controls, err := d.Controls(context.Background())
	require.NoError(t, err)
	require.Len(t, controls, 7)

	byName := make(map[string]page.Control)
	for _, c := range controls {
		key := c.Name
		if key == "" {
			key = c.ID
		}
		byName[key] = c
	}

	first := byName["first"]
	assert.Equal(t, "#first", first.Selector)
	assert.Equal(t, "First Name", first.Label)
	assert.True(t, first.Required)
	assert.True(t, first.Visible)

	email := byName["email"]
	assert.Equal(t, "old@example.com", email.Value)
	assert.Contains(t, email.Label, "Email")

	assert.False(t, byName["csrf"].Visible, "type=hidden must not be visible")
	assert.False(t, byName["ghost"].Visible, "display:none must not be visible")

	resume := byName["resume"]
	assert.Equal(t, "file", resume.Type)
	assert.False(t, resume.HasFile)
	assert.Equal(t, "Resume", resume.Label)

	loc := byName["location"]
	assert.Equal(t, "select", loc.Tag)
	assert.Equal(t, "", loc.Value, "first option has empty value")
}

func TestButtonsSnapshot(t *testing.T) {
	d := mustParse(t, formPage)
	buttons, err := d.Buttons(context.Background())
	require.NoError(t, err)
	require.Len(t, buttons, 3)

	assert.Equal(t, "Submit Application", buttons[0].Text)
	assert.True(t, buttons[0].Visible)
	assert.False(t, buttons[0].Disabled)

	assert.Equal(t, "Next", buttons[1].Text)
	assert.True(t, buttons[1].Disabled)

	assert.Equal(t, "Cancel", buttons[2].Text)
}

func TestSetValueDispatchesInputThenChange(t *testing.T) {
	d := mustParse(t, formPage)
	_, err := d.Controls(context.Background())
	require.NoError(t, err)

	require.NoError(t, d.SetValue(context.Background(), "#first", "Ada"))

	v, err := d.Value(context.Background(), "#first")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	events := d.Events()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Selector: "#first", Type: "input"}, events[0])
	assert.Equal(t, Event{Selector: "#first", Type: "change"}, events[1])
}

func TestSetValueTextareaAndSelect(t *testing.T) {
	ctx := context.Background()
	d := mustParse(t, formPage)
	_, err := d.Controls(ctx)
	require.NoError(t, err)

	require.NoError(t, d.SetValue(ctx, `textarea[name="summary"]`, "Experienced engineer."))
	v, err := d.Value(ctx, `textarea[name="summary"]`)
	require.NoError(t, err)
	assert.Equal(t, "Experienced engineer.", v)

	require.NoError(t, d.SetValue(ctx, `select[name="location"]`, "remote"))
	v, err = d.Value(ctx, `select[name="location"]`)
	require.NoError(t, err)
	assert.Equal(t, "remote", v)
}

func TestResetMarksInjectsStyleOnce(t *testing.T) {
	ctx := context.Background()
	d := mustParse(t, formPage)

	require.NoError(t, d.ResetMarks(ctx))
	require.NoError(t, d.Highlight(ctx, `input[name="email"]`, page.MarkFilled))
	require.NoError(t, d.Highlight(ctx, `input[name="resume"]`, page.MarkFile))

	out, err := d.HTML(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, page.StyleBlockID))
	assert.Contains(t, out, classFilled)
	assert.Contains(t, out, classFile)

	// A second reset clears marks but never duplicates the style block.
	require.NoError(t, d.ResetMarks(ctx))
	out, err = d.HTML(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, page.StyleBlockID))
	assert.NotContains(t, out, classFilled)
}

func TestClickAndScrollRecorded(t *testing.T) {
	ctx := context.Background()
	d := mustParse(t, formPage)
	buttons, err := d.Buttons(ctx)
	require.NoError(t, err)

	sel := buttons[0].Selector
	require.NoError(t, d.ScrollIntoView(ctx, sel))
	require.NoError(t, d.Click(ctx, sel))
	assert.Equal(t, []string{sel}, d.Scrolled())
	assert.Equal(t, []string{sel}, d.Clicks())

	err = d.Click(ctx, "#does-not-exist")
	assert.Error(t, err)
}

func TestRemoveNodeInvalidatesSelector(t *testing.T) {
	ctx := context.Background()
	d := mustParse(t, formPage)
	buttons, err := d.Buttons(ctx)
	require.NoError(t, err)

	sel := buttons[0].Selector
	require.NoError(t, d.RemoveNode(sel))
	assert.Error(t, d.Click(ctx, sel))
}

func TestChooseFile(t *testing.T) {
	ctx := context.Background()
	d := mustParse(t, formPage)
	_, err := d.Controls(ctx)
	require.NoError(t, err)

	sel := `input[name="resume"]`
	has, err := d.HasFile(ctx, sel)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, d.ChooseFile(sel))
	has, err = d.HasFile(ctx, sel)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCheckboxValueOnlyWhenChecked(t *testing.T) {
	d := mustParse(t, `<html><head></head><body>
		<input type="checkbox" id="a" value="yes">
		<input type="checkbox" id="b" value="yes" checked>
	</body></html>`)
	ctx := context.Background()
	_, err := d.Controls(ctx)
	require.NoError(t, err)

	v, err := d.Value(ctx, "#a")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = d.Value(ctx, "#b")
	require.NoError(t, err)
	assert.Equal(t, "yes", v)
}
