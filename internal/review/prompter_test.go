// File: internal/review/prompter_test.go
package review

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/htmldoc"
)

func promptFixture(t *testing.T, input string) (*htmldoc.Document, *Machine, *ConsolePrompter, *bytes.Buffer) {
	t.Helper()
	doc, err := htmldoc.ParseString(gatePage, "x")
	require.NoError(t, err)
	_, err = doc.Controls(context.Background())
	require.NoError(t, err)

	report := &schemas.FillReport{
		Filled: []schemas.FilledField{
			{Selector: "#fn", Label: "First Name", Value: "Ada"},
		},
	}
	candidates := []schemas.ActionCandidate{
		{Selector: "#go", Text: "Submit Application", Score: 10},
	}
	m := NewMachine(doc, report, candidates, time.Millisecond)

	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader(input), &out, nil)
	return doc, m, p, &out
}

func TestPrompterProceedFlow(t *testing.T) {
	doc, m, p, out := promptFixture(t, "r\np\n")

	proceeded, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, proceeded)
	assert.Equal(t, []string{"#go"}, doc.Clicks())
	assert.Contains(t, out.String(), "Submit Application")
	assert.Contains(t, out.String(), "First Name")
}

func TestPrompterProceedBeforeReviewIsRefused(t *testing.T) {
	doc, m, p, out := promptFixture(t, "p\nr\np\n")

	proceeded, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, proceeded)
	assert.Contains(t, out.String(), "Check the review confirmation first")
	assert.Equal(t, []string{"#go"}, doc.Clicks())
}

func TestPrompterCancel(t *testing.T) {
	doc, m, p, out := promptFixture(t, "c\n")

	proceeded, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, proceeded)
	assert.Equal(t, StateCancelled, m.State())
	assert.Empty(t, doc.Clicks())
	assert.Contains(t, out.String(), "No button was clicked")
}

func TestPrompterEOFCancels(t *testing.T) {
	_, m, p, _ := promptFixture(t, "")

	proceeded, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, proceeded)
	assert.Equal(t, StateCancelled, m.State())
}

func TestPrompterRecoverableErrorKeepsGateOpen(t *testing.T) {
	doc, err := htmldoc.ParseString(gatePage, "x")
	require.NoError(t, err)
	_, err = doc.Controls(context.Background())
	require.NoError(t, err)

	report := &schemas.FillReport{RequiredUnfilled: []schemas.RequiredField{
		{Selector: "#visa", Label: "Visa status", Reason: schemas.ReasonUnrecognized},
	}}
	m := NewMachine(doc, report, []schemas.ActionCandidate{
		{Selector: "#go", Text: "Submit Application", Score: 10},
	}, time.Millisecond)

	// First proceed is blocked by the empty required field; the scripted
	// reviewer then cancels.
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("r\np\nc\n"), &out, nil)

	proceeded, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, proceeded)
	assert.Contains(t, out.String(), "required fields still missing")
	assert.Contains(t, out.String(), "Visa status")
	assert.Empty(t, doc.Clicks())
}

func TestPrompterSelectByNumber(t *testing.T) {
	doc, err := htmldoc.ParseString(`<html><head></head><body>
		<button id="a">Submit Application</button>
		<button id="b">Next</button>
	</body></html>`, "x")
	require.NoError(t, err)

	m := NewMachine(doc, &schemas.FillReport{}, []schemas.ActionCandidate{
		{Selector: "#a", Text: "Submit Application", Score: 10},
		{Selector: "#b", Text: "Next", Score: 7},
	}, time.Millisecond)

	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("2\nr\np\n"), &out, nil)
	proceeded, err := p.Run(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, proceeded)
	assert.Equal(t, []string{"#b"}, doc.Clicks())
}
