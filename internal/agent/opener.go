// File: internal/agent/opener.go
package agent

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/browser"
	"github.com/autoapply/autoapply-cli/internal/config"
	"github.com/autoapply/autoapply-cli/internal/htmldoc"
	"github.com/autoapply/autoapply-cli/internal/page"
)

var jsonMarshal = jsoniter.ConfigCompatibleWithStandardLibrary.Marshal

// LazyOpener opens static documents directly and launches Chrome only on the
// first live-page request.
type LazyOpener struct {
	cfg    *config.Config
	logger *zap.Logger

	mu  sync.Mutex
	mgr *browser.Manager
}

// NewLazyOpener builds an opener; no browser process starts yet.
func NewLazyOpener(cfg *config.Config, logger *zap.Logger) *LazyOpener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LazyOpener{cfg: cfg, logger: logger}
}

// Open resolves the request to a page. HTMLFile takes a static parse path;
// PageURL opens a live tab.
func (o *LazyOpener) Open(ctx context.Context, req schemas.ActionRequest) (page.Page, func(), error) {
	switch {
	case req.HTMLFile != "":
		doc, err := htmldoc.ParseFile(req.HTMLFile)
		if err != nil {
			return nil, nil, err
		}
		return doc, func() {}, nil

	case req.PageURL != "":
		mgr, err := o.manager(ctx)
		if err != nil {
			return nil, nil, err
		}
		pg, err := mgr.NewPage(ctx, req.PageURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil

	default:
		return nil, nil, errors.New("request names neither a page URL nor an HTML file")
	}
}

func (o *LazyOpener) manager(ctx context.Context) (*browser.Manager, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mgr != nil {
		return o.mgr, nil
	}
	// The browser outlives the request that triggered its launch.
	mgr, err := browser.NewManager(context.WithoutCancel(ctx), o.cfg.Browser, o.logger)
	if err != nil {
		return nil, err
	}
	o.mgr = mgr
	return mgr, nil
}

// Shutdown closes the browser if one was launched.
func (o *LazyOpener) Shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mgr != nil {
		o.mgr.Shutdown()
		o.mgr = nil
	}
}
