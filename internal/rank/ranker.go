// File: internal/rank/ranker.go

// Package rank scores clickable elements for "advance or submit" intent.
// Ranking is pure over the button snapshot; the only DOM access happened at
// snapshot time.
package rank

import (
	"regexp"
	"sort"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/classify"
	"github.com/autoapply/autoapply-cli/internal/page"
)

// MaxCandidates caps the ranked list presented to the reviewer.
const MaxCandidates = 6

// Negative-intent buttons are dropped outright, whatever they would score.
var excludeRe = regexp.MustCompile(`cancel|back|previous|close|discard`)

// Scoring rules. Each rule contributes at most once; contributions add up
// across rules ("Save and Continue" earns both the continue and save points).
var scoreRules = []struct {
	re     *regexp.Regexp
	points int
}{
	{regexp.MustCompile(`submit|apply|send application|finish`), 10},
	{regexp.MustCompile(`next|continue|review|proceed|save and continue`), 7},
	{regexp.MustCompile(`\bsave\b`), 2},
	{regexp.MustCompile(`sign in|log ?in`), -5},
}

// Rank filters and scores the button pool. Results are sorted by descending
// score with encounter order preserved on ties, truncated to MaxCandidates.
// Buttons scoring zero or below are excluded.
func Rank(buttons []page.Button) []schemas.ActionCandidate {
	var out []schemas.ActionCandidate
	for _, b := range buttons {
		if !b.Visible || b.Disabled {
			continue
		}
		text := classify.NormalizeText(b.Text)
		if text == "" || excludeRe.MatchString(text) {
			continue
		}
		score := 0
		for _, rule := range scoreRules {
			if rule.re.MatchString(text) {
				score += rule.points
			}
		}
		if score <= 0 {
			continue
		}
		out = append(out, schemas.ActionCandidate{
			Selector: b.Selector,
			Text:     b.Text,
			Score:    score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}
