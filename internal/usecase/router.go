package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/pkg/metrics"
)

var ErrUnknownAction = errors.New("unknown action")

// Wire-level error messages.
const (
	msgUnknownAction    = "Unknown action"
	msgScanInProgress   = "Scan already in progress"
	msgScanFailedPrefix = "Scan failed: "
)

// Kind is the closed set of requests the host can send.
type Kind int

const (
	KindUnknown Kind = iota
	KindScanPage
	KindCollectImages
	KindHighlightContent
	KindGetPageInfo
	KindDetectContentType
)

var kindNames = map[Kind]string{
	KindScanPage:          "scan-page",
	KindCollectImages:     "collect-images",
	KindHighlightContent:  "highlight-content",
	KindGetPageInfo:       "get-page-info",
	KindDetectContentType: "detect-content-type",
}

// ParseKind maps a wire action name to its Kind.
func ParseKind(action string) Kind {
	for k, name := range kindNames {
		if name == action {
			return k
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Async reports whether the reply arrives after Serve returns.
func (k Kind) Async() bool {
	return k == KindScanPage || k == KindCollectImages
}

// Request is one inbound message from the host.
type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HighlightResponse struct {
	Highlighted int `json:"highlighted"`
}

// Router answers inbound host messages.
type Router struct {
	session *Session
	scanner *Scanner
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewRouter(session *Session, scanner *Scanner, m *metrics.Metrics, logger *zap.Logger) *Router {
	return &Router{
		session: session,
		scanner: scanner,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Serve handles req and delivers the result through reply. It returns true
// when the reply will arrive after Serve returns, the same signal a message
// listener gives to keep its channel open.
func (r *Router) Serve(ctx context.Context, req Request, reply func(interface{})) bool {
	if !ParseKind(req.Action).Async() {
		reply(r.Handle(ctx, req))
		return false
	}
	go func() {
		reply(r.Handle(ctx, req))
	}()
	return true
}

// Handle processes req and returns its JSON-serializable result or an ErrorResponse.
func (r *Router) Handle(ctx context.Context, req Request) (resp interface{}) {
	kind := ParseKind(req.Action)
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("message handler panicked", zap.String("action", req.Action), zap.Any("panic", p))
			resp = ErrorResponse{Error: fmt.Sprintf("%s failed", kind)}
		}
		outcome := "ok"
		if _, failed := resp.(ErrorResponse); failed {
			outcome = "error"
		}
		r.metrics.IncMessage(kind.String(), outcome)
	}()

	switch kind {
	case KindScanPage:
		return r.scanPage(ctx)
	case KindCollectImages:
		return CollectImages(r.session.Document())
	case KindHighlightContent:
		return r.highlight(req.Data)
	case KindGetPageInfo:
		return GatherPageInfo(r.session.Document(), r.now())
	case KindDetectContentType:
		return DetectContentType(r.session.Document())
	case KindUnknown:
		r.logger.Warn("unknown action", zap.String("action", req.Action))
		return ErrorResponse{Error: msgUnknownAction}
	default:
		panic(fmt.Sprintf("unhandled request kind %d", kind))
	}
}

func (r *Router) scanPage(ctx context.Context) interface{} {
	result, err := r.scanner.Scan(ctx)
	if err != nil {
		if errors.Is(err, ErrScanInProgress) {
			return ErrorResponse{Error: msgScanInProgress}
		}
		r.logger.Error("scan failed", zap.Error(err))
		return ErrorResponse{Error: msgScanFailedPrefix + err.Error()}
	}
	return result
}

func (r *Router) highlight(data json.RawMessage) interface{} {
	var matchers []goquery.Matcher
	gjson.GetBytes(data, "elements").ForEach(func(_, value gjson.Result) bool {
		m, err := dom.Compile(value.String())
		if err != nil {
			r.logger.Warn("skipping highlight selector", zap.String("selector", value.String()), zap.Error(err))
			return true
		}
		matchers = append(matchers, m)
		return true
	})

	count := r.session.Highlight(func(doc *goquery.Document) []*html.Node {
		var nodes []*html.Node
		for _, m := range matchers {
			nodes = append(nodes, doc.FindMatcher(m).Nodes...)
		}
		return nodes
	})
	return HighlightResponse{Highlighted: count}
}

