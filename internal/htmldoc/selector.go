// File: internal/htmldoc/selector.go
package htmldoc

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// selectorFor builds a stable CSS selector for an element: its id when it has
// one, its name attribute when unique enough, otherwise a positional path
// from body. The same strategy runs in-browser for live pages so selectors
// compare equal across both page implementations.
func selectorFor(n *html.Node) string {
	if id := attr(n, "id"); id != "" {
		return "#" + cssEscape(id)
	}
	if name := attr(n, "name"); name != "" {
		return fmt.Sprintf(`%s[name="%s"]`, strings.ToLower(n.Data), name)
	}

	var parts []string
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		tag := strings.ToLower(p.Data)
		if tag == "body" || tag == "html" {
			break
		}
		parts = append([]string{segmentFor(p)}, parts...)
	}
	return "body > " + strings.Join(parts, " > ")
}

// segmentFor renders one path segment: tag, classes, and an nth-child index
// among element siblings.
func segmentFor(n *html.Node) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(n.Data))
	for _, c := range strings.Fields(attr(n, "class")) {
		b.WriteByte('.')
		b.WriteString(cssEscape(c))
	}

	idx := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			idx++
		}
	}
	fmt.Fprintf(&b, ":nth-child(%d)", idx)
	return b.String()
}

// cssEscape backslash-escapes the characters that would break a selector
// token. Not a full CSS.escape, but enough for real-world ids and classes.
func cssEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '#', '.', ':', '[', ']', '(', ')', '>', '+', '~', '"', '\'', '\\', ',':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
