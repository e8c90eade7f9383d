// Package dom holds the in-memory model of the page the agent is attached to.
//
// All access goes through Read or Mutate. A single lock hold stands in for one
// synchronous turn of the page's event loop: code inside the callback never
// interleaves with another handler, but anything held across two callbacks
// may have been changed by someone else in between.
package dom

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/entity"
)

// Document is a concurrency-safe wrapper around a parsed page.
type Document struct {
	mu      sync.RWMutex
	doc     *goquery.Document
	rawURL  string
	baseURL *url.URL
}

// Parse reads HTML from r and attaches it to pageURL.
func Parse(pageURL string, r io.Reader) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page html: %w", err)
	}
	doc.Url = base
	return &Document{doc: doc, rawURL: pageURL, baseURL: base}, nil
}

// FromRawPage builds a Document from a loader result.
func FromRawPage(page *entity.RawPage) (*Document, error) {
	return Parse(page.URL, strings.NewReader(page.HTML))
}

// URL returns the page URL as given at attach time.
func (d *Document) URL() string {
	return d.rawURL
}

// Hostname returns the host part of the page URL without the port.
func (d *Document) Hostname() string {
	return d.baseURL.Hostname()
}

// Resolve turns a possibly relative reference into an absolute URL.
func (d *Document) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return d.baseURL.ResolveReference(u).String(), nil
}

// Read runs fn with shared access to the DOM. fn must not mutate it.
func (d *Document) Read(fn func(doc *goquery.Document)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.doc)
}

// Mutate runs fn with exclusive access to the DOM.
func (d *Document) Mutate(fn func(doc *goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// HTML renders the current DOM.
func (d *Document) HTML() (string, error) {
	var out string
	var err error
	d.Read(func(doc *goquery.Document) {
		out, err = goquery.OuterHtml(doc.Selection)
	})
	return out, err
}

// Compile parses a CSS selector. Unlike goquery.Find it reports syntax errors
// instead of silently matching nothing.
func Compile(selector string) (goquery.Matcher, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// Attr returns the named attribute of n, or "" if absent.
func Attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// NaturalSize reports the intrinsic size of an image element. The browser
// loader stamps data-natural-width/height from naturalWidth/naturalHeight;
// saved pages fall back to the width and height attributes.
func NaturalSize(n *html.Node) (width, height int) {
	width = dimension(n, "data-natural-width", "width")
	height = dimension(n, "data-natural-height", "height")
	return width, height
}

func dimension(n *html.Node, keys ...string) int {
	for _, key := range keys {
		raw := strings.TrimSuffix(strings.TrimSpace(Attr(n, key)), "px")
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return int(v)
		}
	}
	return 0
}
