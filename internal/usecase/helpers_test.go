package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/entity"
	"github.com/user/page-sentinel/internal/repository"
	"github.com/user/page-sentinel/pkg/metrics"
)

const testPageURL = "https://gallery.example.com/posts/42"

func newTestDoc(t *testing.T, pageURL, title, body string) *dom.Document {
	t.Helper()
	src := "<html><head><title>" + title + "</title></head><body>" + body + "</body></html>"
	doc, err := dom.Parse(pageURL, strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

type fakeHost struct {
	mu       sync.Mutex
	requests []entity.HostRequest
	err      error
	block    chan struct{}
}

func (h *fakeHost) Send(ctx context.Context, req entity.HostRequest) (*entity.HostResponse, error) {
	h.mu.Lock()
	h.requests = append(h.requests, req)
	err, block := h.err, h.block
	h.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return &entity.HostResponse{Success: false, Error: err.Error()}, err
	}
	return &entity.HostResponse{Success: true}, nil
}

func (h *fakeHost) Requests() []entity.HostRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]entity.HostRequest(nil), h.requests...)
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved []*entity.ContextMenuSnapshot
	err   error
}

func (s *fakeSnapshots) Save(ctx context.Context, snapshot *entity.ContextMenuSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *fakeSnapshots) Latest(ctx context.Context, pageURL string) (*entity.ContextMenuSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].PageURL == pageURL {
			return s.saved[i], nil
		}
	}
	return nil, repository.ErrSnapshotNotFound
}

var errHostDown = errors.New("host down")

func newTestAgent(t *testing.T, doc *dom.Document, host *fakeHost, snapshots repository.SnapshotRepository, delay time.Duration) *Agent {
	t.Helper()
	if host == nil {
		host = &fakeHost{}
	}
	a := NewAgent(context.Background(), doc, host, snapshots, Options{
		ScanFeedbackDelay:    delay,
		NotificationDuration: time.Minute,
	}, newTestMetrics(), zap.NewNop())
	t.Cleanup(a.Close)
	return a
}

// countClass counts elements carrying class.
func countClass(doc *dom.Document, class string) int {
	n := 0
	doc.Read(func(d *goquery.Document) {
		n = d.Find("." + class).Length()
	})
	return n
}

// hasClass reports whether the first element matching query carries class.
func hasClass(doc *dom.Document, query, class string) bool {
	var ok bool
	doc.Read(func(d *goquery.Document) {
		ok = d.Find(query).First().HasClass(class)
	})
	return ok
}

const threeImages = `
<div class="feed">
	<p>First post <img id="one" src="https://cdn.example.com/1.jpg" width="120" height="150" alt="one"></p>
	<p>Second post <img src="http://cdn.example.com/2.jpg" data-natural-width="800" data-natural-height="600"></p>
	<p>Third post <img src="/static/3.jpg" width="400" height="400"></p>
</div>`
