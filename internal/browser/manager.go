// File: internal/browser/manager.go

// Package browser runs a real Chrome process via chromedp and exposes open
// tabs through the page.Page interface.
package browser

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/internal/config"
)

// Manager owns the browser process. Tabs are derived from the allocator
// context so Shutdown tears everything down.
type Manager struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc
}

// NewManager launches the browser process and verifies it responds.
func NewManager(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		logger: logger.Named("browser"),
		cfg:    cfg,
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, m.buildAllocatorOptions()...)
	m.allocatorCtx = allocCtx
	m.allocatorCancel = cancel

	// Confirm the browser starts before handing the manager out.
	testCtx, cancelTimeout := context.WithTimeout(allocCtx, 30*time.Second)
	testCtx, cancelTest := chromedp.NewContext(testCtx)
	defer cancelTest()
	defer cancelTimeout()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		m.allocatorCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	m.logger.Info("Browser launched", zap.Bool("headless", cfg.Headless))
	return m, nil
}

func (m *Manager) buildAllocatorOptions() []chromedp.ExecAllocatorOption {
	var opts []chromedp.ExecAllocatorOption

	// Drop the enable-automation flag: the supervised window should look
	// like a normal browsing session to the sites being filled. A bool
	// flag set to false is omitted from the Chrome command line.
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("enable-automation", false))

	opts = append(opts,
		chromedp.Flag("headless", m.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-gpu", m.cfg.Headless),
	)
	if m.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.ExecPath))
	}
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}
	return opts
}

// NewPage opens a tab, navigates to url and waits for the document to
// settle. The returned page stays open until its Close or the manager's
// Shutdown.
func (m *Manager) NewPage(ctx context.Context, url string) (*Page, error) {
	tabCtx, cancel := chromedp.NewContext(m.allocatorCtx)

	navCtx, cancelNav := context.WithTimeout(tabCtx, m.cfg.NavTimeout)
	defer cancelNav()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Give client-side rendering a moment before the first scan.
		chromedp.Sleep(m.cfg.PostLoadWait),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open %s: %w", url, err)
	}

	m.logger.Debug("Page ready", zap.String("url", url))
	return &Page{ctx: tabCtx, cancel: cancel, logger: m.logger}, nil
}

// Shutdown closes every tab and the browser process.
func (m *Manager) Shutdown() {
	if m.allocatorCancel != nil {
		m.allocatorCancel()
	}
	m.logger.Info("Browser shut down")
}
