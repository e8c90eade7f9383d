package chromedp_loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/entity"
	"github.com/user/page-sentinel/internal/repository"
)

// stampNaturalSize copies each image's intrinsic size into attributes so it
// survives serialization; the agent's DOM model has no layout engine.
const stampNaturalSize = `(() => {
	const imgs = document.querySelectorAll('img');
	imgs.forEach(img => {
		img.setAttribute('data-natural-width', String(img.naturalWidth));
		img.setAttribute('data-natural-height', String(img.naturalHeight));
	});
	return imgs.length;
})()`

// ChromedpLoader renders pages in headless Chrome and returns the live DOM.
type ChromedpLoader struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	agents      *userAgents
	logger      *zap.Logger
}

// NewChromedpLoader starts a browser allocator shared by all loads.
func NewChromedpLoader(pageLoadTimeout time.Duration, agents []string, logger *zap.Logger) *ChromedpLoader {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpLoader{
		allocCtx:    allocCtx,
		allocCancel: cancel,
		timeout:     pageLoadTimeout,
		agents:      newUserAgents(agents),
		logger:      logger,
	}
}

// Load navigates to url, waits for the body and serializes the document.
func (l *ChromedpLoader) Load(ctx context.Context, url string) (*entity.RawPage, error) {
	taskCtx, cancel := chromedp.NewContext(l.allocCtx, chromedp.WithLogf(l.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, l.timeout)
	defer cancelTimeout()

	// tie the tab to the caller's context as well
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var (
		html   string
		images int
	)
	startTime := time.Now()
	err := chromedp.Run(taskCtx,
		emulation.SetUserAgentOverride(l.agents.Pick()),
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Evaluate(stampNaturalSize, &images),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		l.logger.Error("failed to load page", zap.String("url", url), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", repository.ErrPageLoadTimeout, url)
		}
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
	}

	l.logger.Info("page loaded",
		zap.String("url", url),
		zap.Int("images", images),
		zap.Duration("duration", time.Since(startTime)),
	)
	return &entity.RawPage{URL: url, HTML: html}, nil
}

// Close shuts the browser down.
func (l *ChromedpLoader) Close() {
	l.allocCancel()
}
