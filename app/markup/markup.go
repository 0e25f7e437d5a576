// Package markup exposes the small set of HTML queries the extractors need
// (find first, find all, text, attributes) on top of goquery.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Node is a single element of a parsed HTML fragment.
type Node struct {
	sel *goquery.Selection
}

// Parse parses an HTML fragment and returns its document root.
func Parse(fragment string) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, &ParseError{Context: "html", Reason: err.Error()}
	}
	return &Node{sel: doc.Selection}, nil
}

func (n *Node) FindAll(selector string) []*Node {
	found := n.sel.Find(selector)
	nodes := make([]*Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

func (n *Node) FindFirst(selector string) (*Node, bool) {
	found := n.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return &Node{sel: found}, true
}

// Children returns the direct element children of n.
func (n *Node) Children() []*Node {
	nodes := make([]*Node, 0)
	n.sel.Children().Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

// Is reports whether n matches selector.
func (n *Node) Is(selector string) bool {
	return n.sel.Is(selector)
}

// HasAncestor reports whether any ancestor of n matches selector.
func (n *Node) HasAncestor(selector string) bool {
	return n.sel.ParentsFiltered(selector).Length() > 0
}

// Text returns the trimmed, NFC-normalized text content of n and its descendants.
func (n *Node) Text() string {
	return strings.TrimSpace(norm.NFC.String(n.sel.Text()))
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.sel.Attr(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// JoinText joins the non-empty texts of nodes with sep.
func JoinText(nodes []*Node, sep string) string {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if text := node.Text(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, sep)
}

// Truncate shortens s to at most limit runes, replacing the tail with "...".
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= len(Ellipsis) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(Ellipsis)]) + Ellipsis
}

const Ellipsis = "..."

// ParseError reports that an HTML document lacks the structure an extractor expects.
type ParseError struct {
	Context string // what was being parsed, e.g. "film summary"
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Context, e.Reason)
}
