package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Marker classes the agent adds to page elements.
const (
	ClassScanning  = "scanning"
	ClassHighlight = "highlight"
	ClassSelected  = "selected"

	// Every class the agent injects for its own nodes carries this prefix.
	ClassPrefix       = "ps-"
	ClassWrapper      = ClassPrefix + "image-wrapper"
	ClassReportButton = ClassPrefix + "report-btn"
	ClassNotification = ClassPrefix + "notification"
)

// IsMarkerClass reports whether class was injected by the agent rather than
// authored by the page.
func IsMarkerClass(class string) bool {
	switch class {
	case ClassScanning, ClassHighlight, ClassSelected:
		return true
	}
	return strings.HasPrefix(class, ClassPrefix)
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n. Adding a class twice is a no-op.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	classes := append(strings.Fields(Attr(n, "class")), class)
	setAttr(n, "class", strings.Join(classes, " "))
}

// RemoveClass removes class from n if present.
func RemoveClass(n *html.Node, class string) {
	if !HasClass(n, class) {
		return
	}
	var kept []string
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c != class {
			kept = append(kept, c)
		}
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
