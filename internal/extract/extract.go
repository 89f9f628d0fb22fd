// Package extract converts fetched HTML into the plain-text form consumed
// by the scoring and extraction oracles, and exposes the DOM inspection
// used for platform-specific page classification.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is the simplified representation of one page.
type Document struct {
	Title string
	Text  string
}

// FromHTML flattens an HTML document into readable text. Unlike a
// readability extractor it keeps the whole body: disclosure policies
// regularly live in sidebars, footers or legal boilerplate sections
// that content-area heuristics would drop.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}

	var b strings.Builder
	collectText(&b, node)
	return Document{
		Title: strings.TrimSpace(findTitle(node)),
		Text:  strings.Join(strings.Fields(b.String()), " "),
	}
}

// HasMetaClass reports whether the document contains a <meta> element
// with the given name attribute and the given token in its class list.
// Bug-bounty platforms mark page variants this way, which makes the DOM
// authoritative where text heuristics are not.
func HasMetaClass(input []byte, name, class string) bool {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return false
	}
	found := false
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "meta") {
			var metaName, metaClass string
			for _, attr := range n.Attr {
				switch strings.ToLower(attr.Key) {
				case "name":
					metaName = attr.Val
				case "class":
					metaClass = attr.Val
				}
			}
			if strings.EqualFold(metaName, name) && hasClassToken(metaClass, class) {
				found = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(node)
	return found
}

func hasClassToken(classAttr, token string) bool {
	for _, t := range strings.Fields(classAttr) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

func findTitle(n *html.Node) string {
	var title string
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if title != "" {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, "title") && cur.FirstChild != nil {
			title = cur.FirstChild.Data
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return title
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "iframe":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
