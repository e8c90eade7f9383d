package usecase

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/classifier"
	"github.com/user/page-sentinel/internal/dom"
	"github.com/user/page-sentinel/internal/entity"
	"github.com/user/page-sentinel/pkg/utils"
)

const (
	// CollectMinSize is the minimum natural width and height for collection.
	CollectMinSize = 100
	// PassiveMinSize is the minimum for passive report affordances.
	PassiveMinSize = 200

	parentTextLimit = 200
	linkTextLimit   = 50
)

// nonContent is stripped before reading body text for classification.
const nonContent = "script, style, noscript, ." + dom.ClassNotification + ", ." + dom.ClassReportButton

// qualifies reports whether img has an absolute http(s) source and a natural
// size of at least min×min.
func qualifies(img *html.Node, min int) (src string, width, height int, ok bool) {
	src = strings.TrimSpace(dom.Attr(img, "src"))
	if !utils.IsAbsoluteHTTP(src) {
		return "", 0, 0, false
	}
	width, height = dom.NaturalSize(img)
	if width < min || height < min {
		return "", 0, 0, false
	}
	return src, width, height, true
}

// ExtractContext gathers the local context of an image element.
func ExtractContext(d *dom.Document, img *html.Node) *entity.ImageContext {
	var ctx *entity.ImageContext
	d.Read(func(doc *goquery.Document) {
		ctx = extractContext(d, doc.FindNodes(img))
	})
	return ctx
}

// extractContext looks only at the image's parent subtree. Callers hold the document lock.
func extractContext(d *dom.Document, img *goquery.Selection) *entity.ImageContext {
	ctx := &entity.ImageContext{
		AltText:          img.AttrOr("alt", ""),
		TitleText:        img.AttrOr("title", ""),
		SurroundingLinks: []entity.Link{},
	}

	parent := img.Parent()
	if parent.Length() == 0 {
		return ctx
	}
	ctx.ParentText = utils.TruncateUTF16(strings.TrimSpace(parent.Text()), parentTextLimit)

	parent.Find("a").Each(func(_ int, a *goquery.Selection) {
		rawHref, exists := a.Attr("href")
		if !exists || strings.TrimSpace(rawHref) == "" {
			return
		}
		href, err := d.Resolve(rawHref)
		if err != nil {
			return
		}
		text := strings.TrimSpace(a.Text())
		if text == "" {
			return
		}
		ctx.SurroundingLinks = append(ctx.SurroundingLinks, entity.Link{
			Href: href,
			Text: utils.TruncateUTF16(text, linkTextLimit),
		})
	})
	return ctx
}

// CollectImages runs a collection pass over the current DOM.
func CollectImages(d *dom.Document) []entity.ImageRecord {
	var records []entity.ImageRecord
	d.Read(func(doc *goquery.Document) {
		records = collectImages(d, doc)
	})
	return records
}

func collectImages(d *dom.Document, doc *goquery.Document) []entity.ImageRecord {
	records := []entity.ImageRecord{}
	doc.Find("img").Each(func(i int, img *goquery.Selection) {
		n := img.Get(0)
		src, width, height, ok := qualifies(n, CollectMinSize)
		if !ok {
			return
		}
		ctx := extractContext(d, img)
		records = append(records, entity.ImageRecord{
			URL:       src,
			AltText:   ctx.AltText,
			TitleText: ctx.TitleText,
			Width:     width,
			Height:    height,
			DOMIndex:  i,
			Selector:  dom.Selector(n),
			Context:   ctx,
		})
	})
	return records
}

// GatherPageInfo snapshots the page.
func GatherPageInfo(d *dom.Document, now time.Time) *entity.PageInfo {
	var info *entity.PageInfo
	d.Read(func(doc *goquery.Document) {
		info = pageInfo(d, doc, now)
	})
	return info
}

func pageInfo(d *dom.Document, doc *goquery.Document, now time.Time) *entity.PageInfo {
	title := pageTitle(doc)
	return &entity.PageInfo{
		URL:         d.URL(),
		Title:       title,
		Domain:      d.Hostname(),
		ImageCount:  doc.Find("img").Length(),
		VideoCount:  doc.Find("video").Length(),
		LinkCount:   doc.Find("a[href], area[href]").Length(),
		ContentType: classifier.DetectContentType(classifier.Page{URL: d.URL(), Title: title, BodyText: bodyText(doc)}),
		Platform:    classifier.DetectPlatform(d.Hostname()),
		CapturedAt:  now,
	}
}

// DetectContentType classifies the page. Safe to call mid-scan.
func DetectContentType(d *dom.Document) string {
	var label string
	d.Read(func(doc *goquery.Document) {
		label = classifier.DetectContentType(classifier.Page{URL: d.URL(), Title: pageTitle(doc), BodyText: bodyText(doc)})
	})
	return label
}

func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// bodyText works on a detached copy so the live DOM is untouched.
func bodyText(doc *goquery.Document) string {
	body := doc.Find("body").First().Clone()
	body.Find(nonContent).Remove()
	return body.Text()
}
