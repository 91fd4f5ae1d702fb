package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements never contribute visible text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
}

// visibleText flattens the page's text nodes into one whitespace-
// collapsed string, skipping non-content elements.
func visibleText(doc *html.Node) string {
	var b strings.Builder
	collectText(doc, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// truncate bounds text to max characters. The structured-extraction call
// has a context-size contract; oversized input is truncated, not
// rejected.
func truncate(text string, max int) string {
	if max > 0 && len(text) > max {
		return text[:max]
	}
	return text
}
