// File: internal/browser/page.go
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/internal/page"
)

// Page is a live browser tab implementing page.Page. The tab's chromedp
// context is held internally; the caller's ctx bounds each operation.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

var _ page.Page = (*Page)(nil)

// Close closes the tab. The browser process stays up.
func (p *Page) Close() {
	if p.cancel != nil {
		p.cancel()
	}
}

// run executes chromedp actions bounded by the caller's context.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	bounded, cancel := mergeContext(p.ctx, ctx)
	defer cancel()
	return chromedp.Run(bounded, actions...)
}

// mergeContext derives from the tab context but stops when the caller's
// context does.
func mergeContext(tab, caller context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(tab)
	stop := context.AfterFunc(caller, cancel)
	return merged, func() { stop(); cancel() }
}

func (p *Page) Controls(ctx context.Context) ([]page.Control, error) {
	var out []page.Control
	if err := p.run(ctx, chromedp.Evaluate(controlsJS, &out)); err != nil {
		return nil, fmt.Errorf("failed to scan controls: %w", err)
	}
	return out, nil
}

func (p *Page) Buttons(ctx context.Context) ([]page.Button, error) {
	var out []page.Button
	if err := p.run(ctx, chromedp.Evaluate(buttonsJS, &out)); err != nil {
		return nil, fmt.Errorf("failed to scan buttons: %w", err)
	}
	return out, nil
}

func (p *Page) Value(ctx context.Context, selector string) (string, error) {
	var out *string
	expr := fmt.Sprintf("(%s)(%q)", valueJS, selector)
	if err := p.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return "", fmt.Errorf("failed to read value of %s: %w", selector, err)
	}
	if out == nil {
		return "", fmt.Errorf("no element matches selector %s", selector)
	}
	return *out, nil
}

func (p *Page) HasFile(ctx context.Context, selector string) (bool, error) {
	var out *bool
	expr := fmt.Sprintf("(%s)(%q)", hasFileJS, selector)
	if err := p.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return false, fmt.Errorf("failed to check file state of %s: %w", selector, err)
	}
	if out == nil {
		return false, fmt.Errorf("no element matches selector %s", selector)
	}
	return *out, nil
}

func (p *Page) SetValue(ctx context.Context, selector, value string) error {
	var ok bool
	expr := fmt.Sprintf("(%s)(%q, %q)", setValueJS, selector, value)
	if err := p.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return fmt.Errorf("failed to set value on %s: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("no element matches selector %s", selector)
	}
	return nil
}

func (p *Page) ResetMarks(ctx context.Context) error {
	var ok bool
	expr := fmt.Sprintf("(%s)(%q, %q)", resetMarksJS, page.StyleBlockID, highlightCSS)
	if err := p.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return fmt.Errorf("failed to reset marks: %w", err)
	}
	return nil
}

func (p *Page) Highlight(ctx context.Context, selector, kind string) error {
	cls := "autoapply-filled"
	if kind == page.MarkFile {
		cls = "autoapply-file"
	}
	var ok bool
	expr := fmt.Sprintf("(%s)(%q, %q)", highlightJS, selector, cls)
	if err := p.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return fmt.Errorf("failed to highlight %s: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("no element matches selector %s", selector)
	}
	return nil
}

func (p *Page) ScrollIntoView(ctx context.Context, selector string) error {
	var ok bool
	expr := fmt.Sprintf("(%s)(%q)", scrollIntoViewJS, selector)
	if err := p.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return fmt.Errorf("failed to scroll to %s: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("no element matches selector %s", selector)
	}
	return nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	var ok bool
	expr := fmt.Sprintf("(%s)(%q)", clickJS, selector)
	if err := p.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("no element matches selector %s", selector)
	}
	p.logger.Debug("Clicked element", zap.String("selector", selector))
	return nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	var out string
	if err := p.run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %w", err)
	}
	return out, nil
}

func (p *Page) Location(ctx context.Context) (string, error) {
	var out string
	if err := p.run(ctx, chromedp.Location(&out)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return out, nil
}
