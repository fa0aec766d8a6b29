package source

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes HTML markup from a feed description, keeping only the
// text content. Entities are decoded by the parser. Whitespace runs are
// collapsed to single spaces.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpaces(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}

	var sb strings.Builder
	collectText(doc, &sb)
	return collapseSpaces(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate caps a description at max runes. A zero or negative max leaves
// the text untouched.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
