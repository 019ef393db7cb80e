// File: internal/htmldoc/doc.go

// Package htmldoc implements page.Page over a parsed static HTML document.
// It backs the --html-file dry-run mode and the package tests: mutations are
// applied to the in-memory tree and synthetic event dispatches are recorded
// in order instead of reaching real listeners.
//
// Visibility is necessarily an approximation without a layout engine: a node
// is considered hidden when it (or an ancestor) carries the hidden attribute
// or an inline display:none / visibility:hidden style, or when the input type
// is hidden.
package htmldoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/autoapply/autoapply-cli/internal/page"
)

const (
	classFilled = "autoapply-filled"
	classFile   = "autoapply-file"

	highlightCSS = `.autoapply-filled{outline:2px solid #22c55e;outline-offset:1px}` +
		`.autoapply-file{outline:2px dashed #f59e0b;outline-offset:1px}`
)

// Event is one recorded synthetic event dispatch.
type Event struct {
	Selector string
	Type     string
}

// Document is a static page.Page. All methods are safe for use from a single
// invocation goroutine; internal locking only guards against interleaved
// reads from helpers.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	base string

	// selector -> node cache, rebuilt whenever a lookup misses.
	nodes map[string]*html.Node

	files    map[string]bool
	events   []Event
	clicks   []string
	scrolled []string
}

var _ page.Page = (*Document)(nil)

// Parse builds a Document from HTML content. baseURL is reported by
// Location.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{
		root:  root,
		base:  baseURL,
		nodes: make(map[string]*html.Node),
		files: make(map[string]bool),
	}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(content, baseURL string) (*Document, error) {
	return Parse(strings.NewReader(content), baseURL)
}

// ParseFile loads and parses an HTML file from disk. The file path becomes
// the document location with a file:// scheme.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML file: %w", err)
	}
	defer f.Close()
	return Parse(f, "file://"+path)
}

// -- page.Page implementation --

// Controls snapshots every input, textarea and select in document order.
func (d *Document) Controls(ctx context.Context) ([]page.Control, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []page.Control
	for _, n := range htmlquery.Find(d.root, "//input | //textarea | //select") {
		sel := selectorFor(n)
		d.nodes[sel] = n
		out = append(out, d.snapshotControl(n, sel))
	}
	return out, nil
}

func (d *Document) snapshotControl(n *html.Node, sel string) page.Control {
	typ := strings.ToLower(attr(n, "type"))
	return page.Control{
		Selector:     sel,
		Tag:          strings.ToLower(n.Data),
		Type:         typ,
		Name:         attr(n, "name"),
		ID:           attr(n, "id"),
		Placeholder:  attr(n, "placeholder"),
		AriaLabel:    attr(n, "aria-label"),
		Autocomplete: attr(n, "autocomplete"),
		Label:        labelFor(d.root, n),
		Value:        valueOf(n),
		Required:     hasAttr(n, "required") || attr(n, "aria-required") == "true",
		Disabled:     hasAttr(n, "disabled"),
		ReadOnly:     hasAttr(n, "readonly"),
		Visible:      isVisible(n),
		HasFile:      typ == "file" && d.files[sel],
	}
}

// Buttons snapshots the action-candidate pool: buttons, submit inputs and
// elements carrying role=button.
func (d *Document) Buttons(ctx context.Context) ([]page.Button, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[*html.Node]bool)
	var out []page.Button
	for _, n := range htmlquery.Find(d.root, `//button | //input[@type='submit'] | //*[@role='button']`) {
		if seen[n] {
			continue
		}
		seen[n] = true

		sel := selectorFor(n)
		d.nodes[sel] = n

		text := strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
		if text == "" {
			text = strings.TrimSpace(attr(n, "value"))
		}
		if text == "" {
			text = strings.TrimSpace(attr(n, "aria-label"))
		}

		out = append(out, page.Button{
			Selector: sel,
			Text:     text,
			Visible:  isVisible(n),
			Disabled: hasAttr(n, "disabled") || attr(n, "aria-disabled") == "true",
		})
	}
	return out, nil
}

// Value reads the current value of the control at selector.
func (d *Document) Value(ctx context.Context, selector string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.resolve(selector)
	if err != nil {
		return "", err
	}
	return valueOf(n), nil
}

// HasFile reports whether a file was chosen (via ChooseFile) for the input.
func (d *Document) HasFile(ctx context.Context, selector string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.resolve(selector); err != nil {
		return false, err
	}
	return d.files[selector], nil
}

// SetValue writes the value into the control and records synthetic input then
// change dispatches, in that order.
func (d *Document) SetValue(ctx context.Context, selector, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.resolve(selector)
	if err != nil {
		return err
	}

	switch strings.ToLower(n.Data) {
	case "textarea":
		// Replace the element's children with a single text node.
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	case "select":
		selectOption(n, value)
	default:
		setAttr(n, "value", value)
	}

	d.events = append(d.events,
		Event{Selector: selector, Type: "input"},
		Event{Selector: selector, Type: "change"},
	)
	return nil
}

// ResetMarks strips highlight classes left by a previous invocation and
// ensures the highlight style block exists exactly once.
func (d *Document) ResetMarks(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	walk(d.root, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if cls := attr(n, "class"); cls != "" {
			cleaned := removeClasses(cls, classFilled, classFile)
			if cleaned != cls {
				if cleaned == "" {
					removeAttr(n, "class")
				} else {
					setAttr(n, "class", cleaned)
				}
			}
		}
	})

	if htmlquery.FindOne(d.root, fmt.Sprintf(`//style[@id=%q]`, page.StyleBlockID)) != nil {
		return nil
	}
	head := htmlquery.FindOne(d.root, "//head")
	if head == nil {
		return fmt.Errorf("document has no head element")
	}
	style := &html.Node{
		Type: html.ElementNode,
		Data: "style",
		Attr: []html.Attribute{{Key: "id", Val: page.StyleBlockID}},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: highlightCSS})
	head.AppendChild(style)
	return nil
}

// Highlight adds the mark class for kind to the element.
func (d *Document) Highlight(ctx context.Context, selector, kind string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.resolve(selector)
	if err != nil {
		return err
	}
	cls := classFilled
	if kind == page.MarkFile {
		cls = classFile
	}
	setAttr(n, "class", addClass(attr(n, "class"), cls))
	return nil
}

// ScrollIntoView records the scroll request; static documents have no
// viewport.
func (d *Document) ScrollIntoView(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.resolve(selector); err != nil {
		return err
	}
	d.scrolled = append(d.scrolled, selector)
	return nil
}

// Click records the click. In a static document nothing navigates, but the
// record lets callers assert exactly what would have been clicked.
func (d *Document) Click(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.resolve(selector); err != nil {
		return err
	}
	d.clicks = append(d.clicks, selector)
	return nil
}

// HTML renders the current document.
func (d *Document) HTML(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// Location returns the base URL the document was created with.
func (d *Document) Location(ctx context.Context) (string, error) {
	return d.base, nil
}

// -- test and dry-run hooks --

// ChooseFile simulates the user picking a file for a file input.
func (d *Document) ChooseFile(selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.resolve(selector); err != nil {
		return err
	}
	d.files[selector] = true
	return nil
}

// Events returns the recorded synthetic event dispatches in order.
func (d *Document) Events() []Event { return append([]Event(nil), d.events...) }

// Clicks returns the selectors clicked so far, in order.
func (d *Document) Clicks() []string { return append([]string(nil), d.clicks...) }

// Scrolled returns the selectors scrolled into view so far, in order.
func (d *Document) Scrolled() []string { return append([]string(nil), d.scrolled...) }

// RemoveNode deletes the element at selector from the tree. Tests use it to
// simulate the page mutating underneath the review gate.
func (d *Document) RemoveNode(selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.resolve(selector)
	if err != nil {
		return err
	}
	if n.Parent == nil {
		return fmt.Errorf("cannot remove detached node %s", selector)
	}
	n.Parent.RemoveChild(n)
	delete(d.nodes, selector)
	return nil
}

// resolve maps a selector back to its node, refreshing the cache on a miss.
// Callers must hold d.mu.
func (d *Document) resolve(selector string) (*html.Node, error) {
	if n, ok := d.nodes[selector]; ok && attached(d.root, n) {
		return n, nil
	}
	// Cache miss or stale entry: re-index every element.
	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode {
			d.nodes[selectorFor(n)] = n
		}
	})
	if n, ok := d.nodes[selector]; ok && attached(d.root, n) {
		return n, nil
	}
	return nil, fmt.Errorf("no element matches selector %s", selector)
}

// -- node helpers --

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attached(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// valueOf computes the control's current value the way a browser would
// surface it: checkbox/radio report empty unless checked, textareas report
// their text content, selects report the selected (or first) option.
func valueOf(n *html.Node) string {
	switch strings.ToLower(n.Data) {
	case "textarea":
		return htmlquery.InnerText(n)
	case "select":
		options := htmlquery.Find(n, ".//option")
		for _, opt := range options {
			if hasAttr(opt, "selected") {
				return optionValue(opt)
			}
		}
		if len(options) > 0 {
			return optionValue(options[0])
		}
		return ""
	default:
		typ := strings.ToLower(attr(n, "type"))
		if typ == "checkbox" || typ == "radio" {
			if !hasAttr(n, "checked") {
				return ""
			}
		}
		if typ == "file" {
			return ""
		}
		return attr(n, "value")
	}
}

func optionValue(opt *html.Node) string {
	if hasAttr(opt, "value") {
		return attr(opt, "value")
	}
	return strings.TrimSpace(htmlquery.InnerText(opt))
}

// selectOption marks the option matching value as selected and clears the
// rest. Unknown values fall through to a plain value attribute so the write
// is still observable.
func selectOption(sel *html.Node, value string) {
	matched := false
	for _, opt := range htmlquery.Find(sel, ".//option") {
		if optionValue(opt) == value {
			setAttr(opt, "selected", "selected")
			matched = true
		} else {
			removeAttr(opt, "selected")
		}
	}
	if !matched {
		setAttr(sel, "value", value)
	}
}

func isVisible(n *html.Node) bool {
	if strings.EqualFold(n.Data, "input") && strings.EqualFold(attr(n, "type"), "hidden") {
		return false
	}
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if hasAttr(p, "hidden") {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(attr(p, "style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

// labelFor resolves the label text for a control: a label[for=id] match
// first, then an ancestor label, then aria-label.
func labelFor(root, n *html.Node) string {
	if id := attr(n, "id"); id != "" {
		if l := htmlquery.FindOne(root, fmt.Sprintf(`//label[@for=%q]`, id)); l != nil {
			return strings.Join(strings.Fields(htmlquery.InnerText(l)), " ")
		}
	}
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if strings.EqualFold(p.Data, "label") {
			return strings.Join(strings.Fields(htmlquery.InnerText(p)), " ")
		}
	}
	return strings.TrimSpace(attr(n, "aria-label"))
}

func addClass(existing, cls string) string {
	for _, c := range strings.Fields(existing) {
		if c == cls {
			return existing
		}
	}
	if existing == "" {
		return cls
	}
	return existing + " " + cls
}

func removeClasses(existing string, drop ...string) string {
	dropSet := make(map[string]bool, len(drop))
	for _, c := range drop {
		dropSet[c] = true
	}
	var kept []string
	for _, c := range strings.Fields(existing) {
		if !dropSet[c] {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, " ")
}
