package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/repository"
	"github.com/user/page-sentinel/pkg/metrics"
)

// Options tune the interactive timings of an Agent.
type Options struct {
	ScanFeedbackDelay    time.Duration
	NotificationDuration time.Duration
	Hotkeys              map[Hotkey]HotkeyAction
}

// Agent owns everything attached to one page: the session and the handlers
// that share it. There is no package-level state; two agents never interact.
type Agent struct {
	Session    *Session
	Notifier   *Notifier
	Scanner    *Scanner
	Router     *Router
	Dispatcher *Dispatcher
}

// NewAgent wires an agent for doc. ctx bounds outbound requests only through
// its values; cancelling it does not abort requests already in flight.
func NewAgent(
	ctx context.Context,
	doc *dom.Document,
	host repository.HostRepository,
	snapshots repository.SnapshotRepository,
	opts Options,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Agent {
	logger = logger.With(zap.String("page", doc.URL()))

	session := NewSession(doc)
	notifier := NewNotifier(doc, opts.NotificationDuration, m, logger)
	scanner := NewScanner(session, notifier, opts.ScanFeedbackDelay, m, logger)
	return &Agent{
		Session:    session,
		Notifier:   notifier,
		Scanner:    scanner,
		Router:     NewRouter(session, scanner, m, logger),
		Dispatcher: NewDispatcher(ctx, session, host, snapshots, notifier, opts.Hotkeys, m, logger),
	}
}

// Attach performs the work done when the agent first lands on a page.
func (a *Agent) Attach() int {
	return a.Scanner.AttachAffordances()
}

// PageURL returns the URL of the attached page.
func (a *Agent) PageURL() string {
	return a.Session.Document().URL()
}

// Close stops pending notification timers.
func (a *Agent) Close() {
	a.Notifier.Close()
}
