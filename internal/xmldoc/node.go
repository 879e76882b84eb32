// Package xmldoc wraps an XML element tree with the small surface the item
// extractor needs: attribute presence and lookup, ordered element children
// and typed attribute readers.
package xmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// Node is a read-only view of a single XML element.
type Node struct {
	el *etree.Element
}

// Wrap returns a Node for el. A nil element yields the zero Node.
func Wrap(el *etree.Element) Node { return Node{el: el} }

// Parse reads a whole document from r and returns its root element.
func Parse(r io.Reader) (Node, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return Node{}, err
	}
	root := doc.Root()
	if root == nil {
		return Node{}, fmt.Errorf("document has no root element")
	}
	return Node{el: root}, nil
}

// ParseString is Parse for in-memory documents.
func ParseString(s string) (Node, error) {
	return Parse(strings.NewReader(s))
}

// Valid reports whether the node wraps an element.
func (n Node) Valid() bool { return n.el != nil }

// Name returns the element's local name.
func (n Node) Name() string {
	if n.el == nil {
		return ""
	}
	return n.el.Tag
}

// Path returns the absolute element path, used in diagnostics.
func (n Node) Path() string {
	if n.el == nil {
		return ""
	}
	return n.el.GetPath()
}

// Attr returns the value of the named attribute and whether it is present.
func (n Node) Attr(name string) (string, bool) {
	if n.el == nil {
		return "", false
	}
	for _, a := range n.el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		if a.Key == name && a.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present, even if empty.
func (n Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// AttrCount returns the number of attributes, not counting namespace
// declarations.
func (n Node) AttrCount() int {
	if n.el == nil {
		return 0
	}
	count := 0
	for _, a := range n.el.Attr {
		if !isNamespaceDecl(a) {
			count++
		}
	}
	return count
}

// Children returns the element children in document order. Text, comment
// and processing-instruction children are skipped.
func (n Node) Children() []Node {
	if n.el == nil {
		return nil
	}
	kids := n.el.ChildElements()
	out := make([]Node, 0, len(kids))
	for _, k := range kids {
		out = append(out, Node{el: k})
	}
	return out
}

// ChildrenNamed returns the direct element children with the given name.
func (n Node) ChildrenNamed(name string) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// InnerXML serializes the node's children (text and markup) without the
// enclosing element. Text escapes only &, < and >; quotes and apostrophes
// stay literal.
func (n Node) InnerXML() (string, error) {
	if n.el == nil {
		return "", nil
	}
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	for _, tok := range n.el.Copy().Child {
		doc.AddChild(tok)
	}
	return doc.WriteToString()
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}
