// Package htmlutils provides helpers for editing parsed HTML trees.
//
// The package handles:
//   - class attribute edits (has, add, remove, toggle with force)
//   - attribute get/set
//   - rendered text extraction that treats <br> as a line break
//   - replacing an element's text content
package htmlutils

import (
	"strings"

	"golang.org/x/net/html"
)

const attrClass = "class"

// GetAttr returns the value of the named attribute and whether it was present.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}

	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns the element's class list.
func Classes(n *html.Node) []string {
	val, _ := GetAttr(n, attrClass)
	return strings.Fields(val)
}

// HasClass reports whether the element carries the class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}

	return false
}

// AddClass appends the class unless the element already has it.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}

	classes := append(Classes(n), class)
	SetAttr(n, attrClass, strings.Join(classes, " "))
}

// RemoveClass drops every occurrence of the class.
// The class attribute is kept, possibly empty, when it existed before.
func RemoveClass(n *html.Node, class string) {
	if !HasClass(n, class) {
		return
	}

	current := Classes(n)
	kept := current[:0]

	for _, c := range current {
		if c != class {
			kept = append(kept, c)
		}
	}

	SetAttr(n, attrClass, strings.Join(kept, " "))
}

// SetClass adds the class when on is true and removes it otherwise.
func SetClass(n *html.Node, class string, on bool) {
	if on {
		AddClass(n, class)
		return
	}

	RemoveClass(n, class)
}

// InnerText returns the text a reader sees inside n: text nodes in order,
// <br> as a newline, script and style content skipped.
func InnerText(n *html.Node) string {
	if n == nil {
		return ""
	}

	var sb strings.Builder

	writeText(&sb, n)

	return sb.String()
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			sb.WriteByte('\n')
			return
		case "script", "style", "template":
			return
		}
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}

// SetText replaces every child of n with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}

	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
