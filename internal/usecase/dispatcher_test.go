package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/entity"
)

func ctrlShift(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key, CtrlKey: true, ShiftKey: true}
}

func TestDispatchHover(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages+`<a id="link" href="/x">link</a>`)
	agent := newTestAgent(t, doc, nil, nil, 0)
	ctx := context.Background()

	_, err := agent.Dispatcher.Dispatch(ctx, &Event{Type: EventHover, Target: "img#one"})
	require.NoError(t, err)
	assert.True(t, hasClass(doc, "img#one", dom.ClassHighlight))

	_, err = agent.Dispatcher.Dispatch(ctx, &Event{Type: EventUnhover, Target: "img#one"})
	require.NoError(t, err)
	assert.False(t, hasClass(doc, "img#one", dom.ClassHighlight))

	_, err = agent.Dispatcher.Dispatch(ctx, &Event{Type: EventHover, Target: "a#link"})
	require.NoError(t, err)
	assert.Zero(t, countClass(doc, dom.ClassHighlight), "only images react to hover")
}

func TestDispatchHoverYieldsToScanning(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", `<img id="one" class="scanning" src="https://cdn.example.com/1.jpg">`)
	agent := newTestAgent(t, doc, nil, nil, 0)

	_, err := agent.Dispatcher.Dispatch(context.Background(), &Event{Type: EventHover, Target: "img#one"})
	require.NoError(t, err)
	assert.False(t, hasClass(doc, "img#one", dom.ClassHighlight))
}

func TestDispatchContextMenu(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", `<a href="/creators/jane"><img id="pic" src="/media/1.jpg" alt="Jane"></a>`)
	snapshots := &fakeSnapshots{}
	agent := newTestAgent(t, doc, nil, snapshots, 0)

	task, err := agent.Dispatcher.Dispatch(context.Background(), &Event{Type: EventContextMenu, Target: "img#pic"})
	require.NoError(t, err)
	assert.Nil(t, task)

	latest, err := snapshots.Latest(context.Background(), testPageURL)
	require.NoError(t, err)
	assert.Equal(t, "IMG", latest.ElementTag)
	assert.Equal(t, "https://gallery.example.com/media/1.jpg", latest.Src)
	assert.Equal(t, "https://gallery.example.com/creators/jane", latest.Href)
	assert.Equal(t, "Jane", latest.Alt)
	assert.Equal(t, testPageURL, latest.PageURL)
	assert.False(t, latest.Timestamp.IsZero())
}

func TestDispatchContextMenuStoreFailureIsSilent(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages)
	agent := newTestAgent(t, doc, nil, &fakeSnapshots{err: errHostDown}, 0)

	_, err := agent.Dispatcher.Dispatch(context.Background(), &Event{Type: EventContextMenu, Target: "img#one"})
	assert.NoError(t, err)
	assert.Empty(t, agent.Notifier.Visible())
}

func TestDispatchHotkeys(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		action   string
		okToast  string
		failText string
	}{
		{"report page", "R", ActionReportPage, "Page reported", "Failed to report page"},
		{"collect images", "c", ActionCollectImages, "Collected 2 images", "Failed to collect images"},
		{"quick scan", "S", ActionQuickScan, "Quick scan submitted", "Quick scan failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTestDoc(t, testPageURL, "Feed", threeImages)
			host := &fakeHost{}
			agent := newTestAgent(t, doc, host, nil, 0)

			task, err := agent.Dispatcher.Dispatch(context.Background(), ctrlShift(tt.key))
			require.NoError(t, err)
			require.NotNil(t, task)
			require.NoError(t, task.Wait())

			reqs := host.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.action, reqs[0].Action)
			assert.Equal(t, []string{tt.okToast}, agent.Notifier.Visible())
			assert.False(t, agent.Session.Scanning())

			switch data := reqs[0].Data.(type) {
			case entity.PagePayload:
				assert.Equal(t, testPageURL, data.URL)
				assert.Equal(t, "Feed", data.PageInfo.Title)
			case entity.CollectImagesPayload:
				assert.Len(t, data.Images, 2)
				assert.Equal(t, testPageURL, data.PageInfo.URL)
			default:
				t.Fatalf("unexpected payload %T", data)
			}
		})

		t.Run(tt.name+" failure", func(t *testing.T) {
			doc := newTestDoc(t, testPageURL, "Feed", threeImages)
			host := &fakeHost{err: errHostDown}
			agent := newTestAgent(t, doc, host, nil, 0)

			task, err := agent.Dispatcher.Dispatch(context.Background(), ctrlShift(tt.key))
			require.NoError(t, err)
			assert.ErrorIs(t, task.Wait(), errHostDown)
			assert.Equal(t, []string{tt.failText}, agent.Notifier.Visible())
			assert.False(t, agent.Session.Scanning())
		})
	}
}

func TestDispatchUnboundKeys(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages)
	host := &fakeHost{}
	agent := newTestAgent(t, doc, host, nil, 0)

	for _, ev := range []*Event{
		{Type: EventKeyDown, Key: "S", CtrlKey: true},
		{Type: EventKeyDown, Key: "S", CtrlKey: true, ShiftKey: true, AltKey: true},
		{Type: EventKeyDown, Key: "X", CtrlKey: true, ShiftKey: true},
	} {
		task, err := agent.Dispatcher.Dispatch(context.Background(), ev)
		require.NoError(t, err)
		assert.Nil(t, task)
	}
	assert.Empty(t, host.Requests())
}

func TestDispatchQuickScanRejectedWhileScanning(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages)
	host := &fakeHost{block: make(chan struct{})}
	agent := newTestAgent(t, doc, host, nil, 0)

	first, err := agent.Dispatcher.Dispatch(context.Background(), ctrlShift("S"))
	require.NoError(t, err)
	assert.True(t, agent.Session.Scanning())

	second, err := agent.Dispatcher.Dispatch(context.Background(), ctrlShift("S"))
	require.NoError(t, err)
	assert.ErrorIs(t, second.Wait(), ErrScanInProgress)
	assert.Equal(t, []string{"Scan already in progress"}, agent.Notifier.Visible())

	// a host scan is rejected too
	_, scanErr := agent.Scanner.Scan(context.Background())
	assert.ErrorIs(t, scanErr, ErrScanInProgress)

	close(host.block)
	require.NoError(t, first.Wait())
	assert.False(t, agent.Session.Scanning())
	assert.Len(t, host.Requests(), 1)
}

func TestDispatchReportClick(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", `
		<div class="post">
			<img id="big" src="https://cdn.example.com/big.jpg" alt="big" width="640" height="480">
			<a href="/u/jane">Jane</a>
		</div>`)
	host := &fakeHost{}
	agent := newTestAgent(t, doc, host, nil, 0)
	require.Equal(t, 1, agent.Attach())

	ev := &Event{Type: EventReportClick, Target: "." + dom.ClassReportButton}
	task, err := agent.Dispatcher.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, ev.DefaultPrevented())
	require.NoError(t, task.Wait())

	reqs := host.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, ActionReportImage, reqs[0].Action)
	payload, ok := reqs[0].Data.(entity.ReportImagePayload)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/big.jpg", payload.URL)
	assert.Equal(t, testPageURL, payload.PageURL)
	assert.Equal(t, "img#big", payload.Selector)
	assert.Equal(t, "big", payload.Context.AltText)

	assert.True(t, hasClass(doc, "img#big", dom.ClassSelected))
	assert.Equal(t, []string{"Image reported"}, agent.Notifier.Visible())
}

func TestDispatchReportClickFailure(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages)
	host := &fakeHost{err: errHostDown}
	agent := newTestAgent(t, doc, host, nil, 0)

	ev := &Event{Type: EventReportClick, Target: "img#one"}
	task, err := agent.Dispatcher.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, ev.DefaultPrevented())
	assert.ErrorIs(t, task.Wait(), errHostDown)

	assert.False(t, hasClass(doc, "img#one", dom.ClassSelected))
	assert.Equal(t, []string{"Failed to report image"}, agent.Notifier.Visible())
}

func TestDispatchReportClickMissingTarget(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages)
	host := &fakeHost{}
	agent := newTestAgent(t, doc, host, nil, 0)

	task, err := agent.Dispatcher.Dispatch(context.Background(), &Event{Type: EventReportClick, Target: "img#missing"})
	assert.ErrorIs(t, err, ErrTargetNotFound)
	assert.Nil(t, task)
	assert.Empty(t, host.Requests())
	assert.Equal(t, []string{"Failed to report image"}, agent.Notifier.Visible())
}

func TestDispatchInvalidEvent(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", threeImages)
	agent := newTestAgent(t, doc, nil, nil, 0)

	_, err := agent.Dispatcher.Dispatch(context.Background(), &Event{Type: "scroll"})
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = agent.Dispatcher.Dispatch(context.Background(), &Event{Type: EventHover, Target: "###"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
