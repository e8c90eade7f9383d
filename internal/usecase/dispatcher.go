package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/entity"
	"github.com/user/page-sentinel/internal/repository"
	"github.com/user/page-sentinel/pkg/metrics"
)

var (
	ErrInvalidEvent   = errors.New("invalid event")
	ErrTargetNotFound = errors.New("event target not found")
)

// Outbound host actions.
const (
	ActionQuickScan     = "quick-scan"
	ActionReportPage    = "report-page"
	ActionCollectImages = "collect-images"
	ActionReportImage   = "report-image"
)

type EventType string

const (
	EventHover       EventType = "hover"
	EventUnhover     EventType = "unhover"
	EventContextMenu EventType = "contextmenu"
	EventKeyDown     EventType = "keydown"
	EventReportClick EventType = "report-click"
)

// Event is a pointer or keyboard event. Target is a CSS selector for the
// element the event fired on; keydown events have none.
type Event struct {
	Type     EventType `json:"type"`
	Target   string    `json:"target,omitempty"`
	Key      string    `json:"key,omitempty"`
	CtrlKey  bool      `json:"ctrlKey,omitempty"`
	ShiftKey bool      `json:"shiftKey,omitempty"`
	AltKey   bool      `json:"altKey,omitempty"`
	MetaKey  bool      `json:"metaKey,omitempty"`

	defaultPrevented bool
}

// PreventDefault stops the page's own handling of the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Hotkey is a modifier+key combination. Key is compared case-insensitively.
type Hotkey struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Key   string
}

type HotkeyAction int

const (
	HotkeyQuickScan HotkeyAction = iota + 1
	HotkeyReportPage
	HotkeyCollectImages
)

// DefaultHotkeys binds Ctrl+Shift+S, Ctrl+Shift+R and Ctrl+Shift+C.
func DefaultHotkeys() map[Hotkey]HotkeyAction {
	return map[Hotkey]HotkeyAction{
		{Ctrl: true, Shift: true, Key: "S"}: HotkeyQuickScan,
		{Ctrl: true, Shift: true, Key: "R"}: HotkeyReportPage,
		{Ctrl: true, Shift: true, Key: "C"}: HotkeyCollectImages,
	}
}

// Dispatcher turns input events into DOM effects or outbound host requests.
type Dispatcher struct {
	session   *Session
	host      repository.HostRepository
	snapshots repository.SnapshotRepository
	notifier  *Notifier
	hotkeys   map[Hotkey]HotkeyAction
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time

	// outbound requests outlive the event that triggered them
	taskCtx context.Context
}

// NewDispatcher creates a dispatcher. snapshots may be nil, in which case
// context-menu snapshots are not stored.
func NewDispatcher(
	ctx context.Context,
	session *Session,
	host repository.HostRepository,
	snapshots repository.SnapshotRepository,
	notifier *Notifier,
	hotkeys map[Hotkey]HotkeyAction,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	if hotkeys == nil {
		hotkeys = DefaultHotkeys()
	}
	return &Dispatcher{
		session:   session,
		host:      host,
		snapshots: snapshots,
		notifier:  notifier,
		hotkeys:   hotkeys,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		taskCtx:   context.WithoutCancel(ctx),
	}
}

// Dispatch handles one event. Events that start an outbound request return
// its Task; the task's outcome is always surfaced as a notification.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) (task *Task, err error) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("event handler panicked", zap.String("type", string(ev.Type)), zap.Any("panic", p))
			d.notifier.Show(NotifyError, "Something went wrong")
			task, err = nil, fmt.Errorf("%s handler failed: %v", ev.Type, p)
		}
	}()

	switch ev.Type {
	case EventHover:
		return nil, d.hover(ev, true)
	case EventUnhover:
		return nil, d.hover(ev, false)
	case EventContextMenu:
		return nil, d.contextMenu(ctx, ev)
	case EventKeyDown:
		return d.keyDown(ev), nil
	case EventReportClick:
		return d.reportClick(ev)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}
}

func (d *Dispatcher) hover(ev *Event, entering bool) error {
	m, err := dom.Compile(ev.Target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	d.session.Document().Mutate(func(doc *goquery.Document) {
		target := doc.FindMatcher(m).First()
		if target.Length() == 0 || goquery.NodeName(target) != "img" {
			return
		}
		n := target.Get(0)
		if !entering {
			dom.RemoveClass(n, dom.ClassHighlight)
			return
		}
		// scanning visuals take precedence
		if !dom.HasClass(n, dom.ClassScanning) {
			dom.AddClass(n, dom.ClassHighlight)
		}
	})
	return nil
}

// contextMenu records what was right-clicked. Storage is best-effort: a
// failure is logged and never shown to the user.
func (d *Dispatcher) contextMenu(ctx context.Context, ev *Event) error {
	m, err := dom.Compile(ev.Target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	doc := d.session.Document()
	snapshot := &entity.ContextMenuSnapshot{PageURL: doc.URL(), Timestamp: d.now()}
	doc.Read(func(gq *goquery.Document) {
		target := gq.FindMatcher(m).First()
		if target.Length() == 0 {
			return
		}
		snapshot.ElementTag = strings.ToUpper(goquery.NodeName(target))
		snapshot.Alt = target.AttrOr("alt", "")
		if src, ok := target.Attr("src"); ok && src != "" {
			snapshot.Src, _ = doc.Resolve(src)
		}
		if href, ok := target.Closest("a[href]").Attr("href"); ok && href != "" {
			snapshot.Href, _ = doc.Resolve(href)
		}
	})

	if d.snapshots == nil {
		d.logger.Debug("no snapshot store configured, dropping context menu snapshot")
		return nil
	}
	if err := d.snapshots.Save(ctx, snapshot); err != nil {
		d.logger.Warn("failed to store context menu snapshot", zap.String("page", snapshot.PageURL), zap.Error(err))
	}
	return nil
}

func (d *Dispatcher) keyDown(ev *Event) *Task {
	action, ok := d.hotkeys[Hotkey{Ctrl: ev.CtrlKey, Shift: ev.ShiftKey, Alt: ev.AltKey, Key: strings.ToUpper(ev.Key)}]
	if !ok {
		return nil
	}

	doc := d.session.Document()
	switch action {
	case HotkeyQuickScan:
		// shares the scan flag so a hotkey and a host scan cannot overlap
		if !d.session.TryBeginScan() {
			d.notifier.Show(NotifyInfo, "Scan already in progress")
			return completedTask(ActionQuickScan, ErrScanInProgress)
		}
		info := GatherPageInfo(doc, d.now())
		return d.send(ActionQuickScan, entity.PagePayload{URL: doc.URL(), PageInfo: info},
			"Quick scan submitted", "Quick scan failed",
			func(error) { d.session.EndScan() })
	case HotkeyReportPage:
		info := GatherPageInfo(doc, d.now())
		return d.send(ActionReportPage, entity.PagePayload{URL: doc.URL(), PageInfo: info},
			"Page reported", "Failed to report page", nil)
	case HotkeyCollectImages:
		info := GatherPageInfo(doc, d.now())
		images := CollectImages(doc)
		d.metrics.AddImagesCollected(len(images))
		return d.send(ActionCollectImages, entity.CollectImagesPayload{Images: images, PageInfo: info},
			fmt.Sprintf("Collected %d images", len(images)), "Failed to collect images", nil)
	}
	return nil
}

func (d *Dispatcher) reportClick(ev *Event) (*Task, error) {
	ev.PreventDefault()

	m, err := dom.Compile(ev.Target)
	if err != nil {
		d.notifier.Show(NotifyError, "Failed to report image")
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	doc := d.session.Document()
	var (
		img     *html.Node
		payload entity.ReportImagePayload
	)
	doc.Read(func(gq *goquery.Document) {
		target := gq.FindMatcher(m).First()
		if target.Length() == 0 {
			return
		}
		if goquery.NodeName(target) != "img" {
			// the report button sits next to its image inside the wrapper
			target = target.Closest("." + dom.ClassWrapper).Find("img").First()
			if target.Length() == 0 {
				return
			}
		}
		img = target.Get(0)
		src, _ := doc.Resolve(target.AttrOr("src", ""))
		payload = entity.ReportImagePayload{
			URL:      src,
			PageURL:  doc.URL(),
			Context:  extractContext(doc, target),
			Selector: dom.Selector(img),
		}
	})
	if img == nil {
		d.notifier.Show(NotifyError, "Failed to report image")
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, ev.Target)
	}

	return d.send(ActionReportImage, payload, "Image reported", "Failed to report image", func(err error) {
		if err != nil {
			return
		}
		d.session.Highlight(func(*goquery.Document) []*html.Node {
			if img.Parent == nil {
				return nil
			}
			return []*html.Node{img}
		})
	}), nil
}

// send starts an outbound request. after runs before the notification is shown.
func (d *Dispatcher) send(action string, data interface{}, okMsg, failMsg string, after func(error)) *Task {
	task := newTask(action)
	task.run(
		func() error {
			_, err := d.host.Send(d.taskCtx, entity.HostRequest{Action: action, Data: data})
			return err
		},
		func(err error) {
			if after != nil {
				after(err)
			}
			if err != nil {
				d.metrics.IncOutbound(action, "failure")
				d.logger.Warn("outbound request failed", zap.String("action", action), zap.Error(err))
				d.notifier.Show(NotifyError, failMsg)
				return
			}
			d.metrics.IncOutbound(action, "success")
			d.notifier.Show(NotifySuccess, okMsg)
		},
	)
	return task
}
