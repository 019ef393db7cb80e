// File: internal/jobdesc/extract.go

// Package jobdesc locates the job description block in a page and converts
// it to markdown for backend analysis.
package jobdesc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// ErrNoJobDescription means no candidate block met the content threshold.
var ErrNoJobDescription = errors.New("no job description found on page")

// minLength filters out navigation stubs and empty containers that happen to
// match a description selector.
const minLength = 100

// Candidate containers, most specific first. The first match with enough
// text wins.
var candidateQueries = []string{
	`//*[@data-job-description]`,
	`//*[contains(concat(' ', normalize-space(@class), ' '), ' job-description ')]`,
	`//*[contains(concat(' ', normalize-space(@class), ' '), ' job-description-text ')]`,
	`//*[@id='job-description']`,
	`//*[contains(@class, 'description')]`,
	`//*[contains(@id, 'description')]`,
}

// Page-level fallbacks when nothing matches a description container.
var fallbackQueries = []string{
	`//main`,
	`//*[@role='main']`,
	`//body`,
}

// Extract finds the job description in the HTML content and returns it as
// markdown.
func Extract(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	node := findCandidate(doc)
	if node == nil {
		return "", ErrNoJobDescription
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", fmt.Errorf("failed to render description block: %w", err)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	md, err := conv.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("failed to convert description to markdown: %w", err)
	}

	md = strings.TrimSpace(md)
	if len(md) < minLength {
		return "", ErrNoJobDescription
	}
	return md, nil
}

func findCandidate(doc *html.Node) *html.Node {
	for _, q := range candidateQueries {
		for _, n := range htmlquery.Find(doc, q) {
			if textLength(n) >= minLength {
				return n
			}
		}
	}
	for _, q := range fallbackQueries {
		if n := htmlquery.FindOne(doc, q); n != nil && textLength(n) >= minLength {
			return n
		}
	}
	return nil
}

func textLength(n *html.Node) int {
	return len(strings.TrimSpace(htmlquery.InnerText(n)))
}
