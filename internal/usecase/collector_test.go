package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/user/page-sentinel/internal/classifier"
)

func TestCollectImagesSkipsRelativeSources(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "Feed", threeImages)

	records := CollectImages(doc)
	require.Len(t, records, 2)

	assert.Equal(t, "https://cdn.example.com/1.jpg", records[0].URL)
	assert.Equal(t, "img#one", records[0].Selector)
	assert.Equal(t, 0, records[0].DOMIndex)
	assert.Equal(t, 120, records[0].Width)
	assert.Equal(t, 150, records[0].Height)
	assert.Equal(t, "one", records[0].AltText)

	assert.Equal(t, "http://cdn.example.com/2.jpg", records[1].URL)
	assert.Equal(t, "html > body > div > p:nth-child(2) > img", records[1].Selector)
	assert.Equal(t, 1, records[1].DOMIndex)
	assert.Equal(t, 800, records[1].Width)
}

func TestCollectImagesSizeThreshold(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", `
		<img src="https://cdn.example.com/a.jpg" width="99" height="500">
		<img src="https://cdn.example.com/b.jpg" width="100" height="100">
		<img src="https://cdn.example.com/c.jpg">
		<img src="data:image/png;base64,AAAA" width="300" height="300">`)

	records := CollectImages(doc)
	require.Len(t, records, 1)
	assert.Equal(t, "https://cdn.example.com/b.jpg", records[0].URL)
	assert.Equal(t, 1, records[0].DOMIndex)
}

func TestCollectImagesEmptyPage(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", `<p>nothing here</p>`)
	records := CollectImages(doc)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestExtractContext(t *testing.T) {
	longText := strings.Repeat("x", 300)
	longLink := strings.Repeat("y", 80)
	doc := newTestDoc(t, testPageURL, "", `
		<a href="https://elsewhere.example.com/">outside the parent</a>
		<div class="post">
			`+longText+`
			<img src="https://cdn.example.com/a.jpg" alt="alt text" title="title text" width="300" height="300">
			<a href="/creators/jane">`+longLink+`</a>
			<a href="https://example.com/empty">   </a>
			<a name="anchor-only">no href</a>
			<span><a href="?page=2">Next</a></span>
		</div>`)

	var img *html.Node
	doc.Read(func(d *goquery.Document) {
		img = d.Find("img").Get(0)
	})
	ctx := ExtractContext(doc, img)

	assert.Equal(t, "alt text", ctx.AltText)
	assert.Equal(t, "title text", ctx.TitleText)
	assert.Len(t, ctx.ParentText, 200)
	assert.Equal(t, strings.Repeat("x", 200), ctx.ParentText)

	require.Len(t, ctx.SurroundingLinks, 2)
	assert.Equal(t, "https://gallery.example.com/creators/jane", ctx.SurroundingLinks[0].Href)
	assert.Equal(t, strings.Repeat("y", 50), ctx.SurroundingLinks[0].Text)
	assert.Equal(t, "https://gallery.example.com/posts/42?page=2", ctx.SurroundingLinks[1].Href)
	assert.Equal(t, "Next", ctx.SurroundingLinks[1].Text)
}

func TestExtractContextMissingAttributes(t *testing.T) {
	doc := newTestDoc(t, testPageURL, "", `<figure><img src="https://cdn.example.com/a.jpg"></figure>`)

	var img *html.Node
	doc.Read(func(d *goquery.Document) {
		img = d.Find("img").Get(0)
	})
	ctx := ExtractContext(doc, img)

	assert.Equal(t, "", ctx.AltText)
	assert.Equal(t, "", ctx.TitleText)
	assert.Equal(t, "", ctx.ParentText)
	assert.NotNil(t, ctx.SurroundingLinks)
	assert.Empty(t, ctx.SurroundingLinks)
}

func TestGatherPageInfo(t *testing.T) {
	doc := newTestDoc(t, "https://www.reddit.com/r/pics/comments/1", "Cute cats", `
		<img src="https://i.redd.it/1.jpg"><img src="https://i.redd.it/2.jpg">
		<video src="https://v.redd.it/1.mp4"></video>
		<a href="/r/pics">pics</a><a>no href</a>
		<script>var nude = true;</script>`)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	info := GatherPageInfo(doc, now)

	assert.Equal(t, "https://www.reddit.com/r/pics/comments/1", info.URL)
	assert.Equal(t, "Cute cats", info.Title)
	assert.Equal(t, "www.reddit.com", info.Domain)
	assert.Equal(t, 2, info.ImageCount)
	assert.Equal(t, 1, info.VideoCount)
	assert.Equal(t, 1, info.LinkCount)
	assert.Equal(t, "reddit", info.ContentType)
	assert.Equal(t, "reddit", info.Platform)
	assert.Equal(t, now, info.CapturedAt)
}

func TestDetectContentTypeScenarios(t *testing.T) {
	t.Run("platform url wins over body", func(t *testing.T) {
		doc := newTestDoc(t, "https://instagram.com/p/xyz", "", `<p>nsfw nude leaked</p>`)
		assert.Equal(t, "instagram", DetectContentType(doc))
	})

	t.Run("leak keyword", func(t *testing.T) {
		doc := newTestDoc(t, "https://files.example.net/d/1", "Download", `<p>Full set leaked today</p>`)
		assert.Equal(t, classifier.PotentialLeak, DetectContentType(doc))
	})

	t.Run("script text is ignored", func(t *testing.T) {
		doc := newTestDoc(t, "https://files.example.net/d/1", "Download", `<p>Hello</p><script>const porn = 1</script>`)
		assert.Equal(t, classifier.General, DetectContentType(doc))
	})

	t.Run("classification leaves the dom untouched", func(t *testing.T) {
		doc := newTestDoc(t, "https://files.example.net/d/1", "", `<p>Hello</p><script>x()</script>`)
		DetectContentType(doc)
		doc.Read(func(d *goquery.Document) {
			assert.Equal(t, 1, d.Find("script").Length())
		})
	})
}
