// Package xml provides XPath queries over small OSIS markup fragments.
//
// Security Notes:
//   - Well-formedness is checked with Go's xml.Decoder with entity expansion
//     disabled before a fragment reaches xmlquery, so no external or internal
//     entity is ever resolved.
//   - The xmlquery library uses Go's encoding/xml internally and inherits its
//     security properties.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// fragmentRoot wraps fragments so that text and multiple sibling elements form
// a single document.
const fragmentRoot = "fragment"

// Document represents a parsed XML document or fragment.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node (element, text, attribute, etc.).
type Node struct {
	node *xmlquery.Node
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	if err := WellFormed(data); err != nil {
		return nil, err
	}
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment parses a markup fragment such as a single <note> element cut
// out of verse text. The fragment is wrapped in a synthetic root element, so
// queries should be relative ("//note").
func ParseFragment(s string) (*Document, error) {
	return Parse([]byte("<" + fragmentRoot + ">" + s + "</" + fragmentRoot + ">"))
}

// WellFormed reports whether data is well-formed XML. Entities other than the
// five predefined ones are rejected.
func WellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parsing XML: %w", err)
		}
	}
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node, or
// nil when nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Name returns the element name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// InnerText returns all text content of the node and its descendants.
func (n *Node) InnerText() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// Attrs returns the value of attribute name on every node that carries it, in
// document order.
func Attrs(nodes []*Node, name string) []string {
	var out []string
	for _, n := range nodes {
		if v := n.Attr(name); v != "" {
			out = append(out, v)
		}
	}
	return out
}
