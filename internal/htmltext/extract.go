// Package htmltext turns scraped HTML descriptions into plain text.
package htmltext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Extract returns the text nodes of raw in document order, without separators.
// Whitespace is kept as written; script, style and template contents are dropped.
func Extract(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("html.Parse > %w", err)
	}

	var text strings.Builder
	getTextContent(doc, &text)
	return text.String(), nil
}

func getTextContent(n *html.Node, text *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		text.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if isInvisible(n.Data) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContent(c, text)
	}
}

func isInvisible(tag string) bool {
	switch tag {
	case "script", "style", "template", "noscript":
		return true
	}
	return false
}
