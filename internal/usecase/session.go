package usecase

import (
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/dom"
)

// Session is the mutable state shared by every handler attached to one page:
// the single-flight scan flag and the set of elements marked "selected".
type Session struct {
	doc      *dom.Document
	scanning atomic.Bool

	// guarded by the document's write lock
	highlighted []*html.Node
}

func NewSession(doc *dom.Document) *Session {
	return &Session{doc: doc}
}

func (s *Session) Document() *dom.Document {
	return s.doc
}

// TryBeginScan sets the scan flag. It returns false, changing nothing, if a
// scan is already running.
func (s *Session) TryBeginScan() bool {
	return s.scanning.CompareAndSwap(false, true)
}

// EndScan clears the scan flag.
func (s *Session) EndScan() {
	s.scanning.Store(false)
}

// Scanning reports whether a scan holds the flag.
func (s *Session) Scanning() bool {
	return s.scanning.Load()
}

// Highlight replaces the highlight set with the nodes returned by resolve.
// The previous set is cleared first; sets are never merged. resolve runs
// under the document's write lock and must not take it again.
func (s *Session) Highlight(resolve func(doc *goquery.Document) []*html.Node) int {
	var count int
	s.doc.Mutate(func(doc *goquery.Document) {
		for _, n := range s.highlighted {
			dom.RemoveClass(n, dom.ClassSelected)
		}
		next := dedupe(resolve(doc))
		for _, n := range next {
			dom.AddClass(n, dom.ClassSelected)
		}
		s.highlighted = next
		count = len(next)
	})
	return count
}

// Highlighted returns a copy of the current highlight set.
func (s *Session) Highlighted() []*html.Node {
	var out []*html.Node
	s.doc.Read(func(*goquery.Document) {
		out = append(out, s.highlighted...)
	})
	return out
}

func dedupe(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]struct{}, len(nodes))
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || n.Type != html.ElementNode {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
