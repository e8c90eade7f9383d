package usecase

import (
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/pkg/metrics"
)

// DefaultNotificationDuration is how long a notification stays visible.
const DefaultNotificationDuration = 3 * time.Second

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notifier shows at most one transient status message in the page.
type Notifier struct {
	doc      *dom.Document
	duration time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

func NewNotifier(doc *dom.Document, duration time.Duration, m *metrics.Metrics, logger *zap.Logger) *Notifier {
	if duration <= 0 {
		duration = DefaultNotificationDuration
	}
	return &Notifier{
		doc:      doc,
		duration: duration,
		metrics:  m,
		logger:   logger,
		timers:   make(map[*time.Timer]struct{}),
	}
}

// Show removes any visible notification, appends a new one to the body and
// schedules its removal.
func (n *Notifier) Show(kind NotificationKind, message string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()

	var node *html.Node
	n.doc.Mutate(func(d *goquery.Document) {
		d.Find("." + dom.ClassNotification).Remove()

		body := d.Find("body").First()
		if body.Length() == 0 {
			return
		}
		body.AppendHtml(`<div class="` + dom.ClassNotification + ` ` + dom.ClassNotification + `-` + string(kind) + `"></div>`)
		toast := body.Children().Last()
		toast.SetText(message)
		node = toast.Get(0)
	})
	if node == nil {
		n.logger.Warn("notification dropped, page has no body", zap.String("message", message))
		return
	}

	n.metrics.IncNotification(string(kind))
	n.logger.Debug("notification shown", zap.String("kind", string(kind)), zap.String("message", message))
	n.schedule(node)
}

func (n *Notifier) schedule(node *html.Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(n.duration, func() {
		n.mu.Lock()
		delete(n.timers, timer)
		n.mu.Unlock()

		n.doc.Mutate(func(*goquery.Document) {
			// a newer notification may already have detached it
			if node.Parent != nil {
				node.Parent.RemoveChild(node)
			}
		})
	})
	n.timers[timer] = struct{}{}
}

// Visible returns the text of the notifications currently in the page.
func (n *Notifier) Visible() []string {
	var out []string
	n.doc.Read(func(d *goquery.Document) {
		d.Find("." + dom.ClassNotification).Each(func(_ int, s *goquery.Selection) {
			out = append(out, s.Text())
		})
	})
	return out
}

// Close cancels pending removals. Notifications shown afterwards are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for t := range n.timers {
		t.Stop()
	}
	n.timers = map[*time.Timer]struct{}{}
}
