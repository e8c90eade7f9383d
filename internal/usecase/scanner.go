package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/entity"
	"github.com/user/page-sentinel/pkg/metrics"
)

var ErrScanInProgress = errors.New("scan already in progress")

// DefaultScanFeedbackDelay is how long scanned images stay marked so the user notices.
const DefaultScanFeedbackDelay = 2 * time.Second

const (
	wrapperHTML      = `<div class="` + dom.ClassWrapper + `"></div>`
	reportButtonHTML = `<button type="button" class="` + dom.ClassReportButton + `">Report</button>`
)

// Scanner runs full-page scans and manages the report affordances.
type Scanner struct {
	session  *Session
	notifier *Notifier
	delay    time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewScanner creates a scanner. delay may be zero for non-interactive use.
func NewScanner(session *Session, notifier *Notifier, delay time.Duration, m *metrics.Metrics, logger *zap.Logger) *Scanner {
	if delay < 0 {
		delay = 0
	}
	return &Scanner{
		session:  session,
		notifier: notifier,
		delay:    delay,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Scan marks qualifying images, collects page info and images, holds the
// marking for the feedback delay and then clears it. Only one scan runs at a
// time; a concurrent call returns ErrScanInProgress without touching the DOM.
func (s *Scanner) Scan(ctx context.Context) (result *entity.ScanResult, err error) {
	if !s.session.TryBeginScan() {
		s.metrics.IncScan("rejected")
		return nil, ErrScanInProgress
	}

	startTime := time.Now()
	var marked []*html.Node
	defer func() {
		s.clearScanning(marked)
		s.session.EndScan()
		s.metrics.ScanDuration.Observe(time.Since(startTime).Seconds())
		if r := recover(); r != nil {
			s.logger.Error("scan panicked", zap.Any("panic", r))
			result, err = nil, fmt.Errorf("scan failed: %v", r)
		}
		if err != nil {
			s.metrics.IncScan("failed")
			s.notifier.Show(NotifyError, "Scan failed")
		} else {
			s.metrics.IncScan("completed")
			s.notifier.Show(NotifySuccess, fmt.Sprintf("Scan complete: %d images found", len(result.Images)))
		}
	}()
	s.notifier.Show(NotifyInfo, "Scanning page...")

	doc := s.session.Document()

	// phase 1: visual feedback
	doc.Mutate(func(d *goquery.Document) {
		d.Find("img").Each(func(_ int, img *goquery.Selection) {
			n := img.Get(0)
			if _, _, _, ok := qualifies(n, CollectMinSize); ok {
				dom.AddClass(n, dom.ClassScanning)
				marked = append(marked, n)
			}
		})
	})

	// phase 2: gather
	var (
		info   *entity.PageInfo
		images []entity.ImageRecord
	)
	doc.Read(func(d *goquery.Document) {
		info = pageInfo(doc, d, s.now())
		images = collectImages(doc, d)
	})
	s.metrics.AddImagesCollected(len(images))

	// phase 3: hold the marking
	if err := sleep(ctx, s.delay); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	s.logger.Info("scan completed",
		zap.String("url", info.URL),
		zap.Int("images", len(images)),
		zap.String("content_type", info.ContentType),
	)
	return &entity.ScanResult{
		Success:   true,
		PageInfo:  info,
		Images:    images,
		Timestamp: s.now(),
	}, nil
}

func (s *Scanner) clearScanning(marked []*html.Node) {
	if len(marked) == 0 {
		return
	}
	s.session.Document().Mutate(func(*goquery.Document) {
		for _, n := range marked {
			dom.RemoveClass(n, dom.ClassScanning)
		}
	})
}

// AttachAffordances wraps every image meeting the passive threshold in a
// wrapper carrying a report button. Images already inside a wrapper are
// skipped, so repeated calls are no-ops. It returns the number of new wrappers.
func (s *Scanner) AttachAffordances() int {
	wrapped := 0
	s.session.Document().Mutate(func(d *goquery.Document) {
		d.Find("img").Each(func(_ int, img *goquery.Selection) {
			if _, _, _, ok := qualifies(img.Get(0), PassiveMinSize); !ok {
				return
			}
			if img.Parent().HasClass(dom.ClassWrapper) {
				return
			}
			img.WrapHtml(wrapperHTML)
			img.Parent().AppendHtml(reportButtonHTML)
			wrapped++
		})
	})
	if wrapped > 0 {
		s.logger.Debug("report affordances attached", zap.Int("count", wrapped))
	}
	return wrapped
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
