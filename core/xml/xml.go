// Package xml extracts name lists from XML records with XPath.
//
// Parsing goes through xmlquery, which uses encoding/xml and does not fetch
// external entities.
package xml

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// DefaultNameXPath selects name elements anywhere in a document.
const DefaultNameXPath = "//name"

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML element or attribute selected by a query.
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses XML from r.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes := xmlquery.QuerySelectorAll(d.root, compiled)
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst returns the first node matching expr, or nil.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}
	n := xmlquery.QuerySelector(d.root, compiled)
	if n == nil {
		return nil, nil
	}
	return &Node{node: n}, nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// ExtractText parses data and returns the trimmed, non-empty text of every
// node selected by expr, in document order. An empty expr uses
// DefaultNameXPath.
func ExtractText(data []byte, expr string) ([]string, error) {
	if expr == "" {
		expr = DefaultNameXPath
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	nodes, err := doc.XPath(expr)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range nodes {
		if s := strings.TrimSpace(n.Text()); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
