package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// maxAncestorLevels bounds how far a positional path climbs above the element.
const maxAncestorLevels = 5

// Selector computes a short locator for n. It prefers the element id, then
// its authored classes, and finally a positional path. The result depends
// only on n's ancestry and siblings, never on call order.
func Selector(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	if id := Attr(n, "id"); id != "" {
		return n.Data + "#" + id
	}
	if classes := authoredClasses(n); len(classes) > 0 {
		return n.Data + "." + strings.Join(classes, ".")
	}

	var path []string
	for cur, level := n, 0; cur != nil && cur.Type == html.ElementNode && level <= maxAncestorLevels; cur, level = cur.Parent, level+1 {
		if id := Attr(cur, "id"); id != "" {
			// an id anchors the path
			path = append(path, cur.Data+"#"+id)
			break
		}
		path = append(path, cur.Data+nthQualifier(cur))
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return strings.Join(path, " > ")
}

func authoredClasses(n *html.Node) []string {
	var out []string
	for _, c := range strings.Fields(Attr(n, "class")) {
		if !IsMarkerClass(c) {
			out = append(out, c)
		}
	}
	return out
}

// nthQualifier returns ":nth-child(k)" with k the 1-indexed position of n among
// siblings sharing its tag, or "" when n has no such siblings.
func nthQualifier(n *html.Node) string {
	if n.Parent == nil {
		return ""
	}
	count, position := 0, 0
	for sib := n.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode || sib.Data != n.Data {
			continue
		}
		count++
		if sib == n {
			position = count
		}
	}
	if count < 2 {
		return ""
	}
	return ":nth-child(" + strconv.Itoa(position) + ")"
}
