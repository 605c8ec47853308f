package passthrough

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/cleared-dev/stmtconv/internal/errs"
)

// XML is a parsed XML document of any vocabulary.
type XML struct {
	root *xmlquery.Node
	// declared is set when the source began with an XML declaration. The
	// parser synthesizes one otherwise, and Format must not print it.
	declared bool
}

// Element is a plain tree view of an XML element, suitable for YAML dumps.
type Element struct {
	Name     string            `yaml:"name"`
	Attrs    map[string]string `yaml:"attrs,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Children []Element         `yaml:"children,omitempty"`
}

// ParseXML parses data and requires a root element.
func ParseXML(data []byte) (*XML, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	x := &XML{root: root, declared: hasDeclaration(data)}
	if x.rootElement() == nil {
		return nil, errors.New("parsing XML: no root element")
	}
	return x, nil
}

func hasDeclaration(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("<?xml"))
}

// ReadXML reads r to the end and parses it.
func ReadXML(r io.Reader) (*XML, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.IOError{Op: "reading XML", Err: err}
	}
	return ParseXML(data)
}

func (x *XML) rootElement() *xmlquery.Node {
	for n := x.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// RootName returns the local name of the root element.
func (x *XML) RootName() string {
	return x.rootElement().Data
}

// Exists reports whether expr selects at least one node.
func (x *XML) Exists(expr *xpath.Expr) bool {
	return xmlquery.QuerySelector(x.root, expr) != nil
}

// Count returns how many nodes expr selects.
func (x *XML) Count(expr *xpath.Expr) int {
	return len(xmlquery.QuerySelectorAll(x.root, expr))
}

// Outline returns the element tree under the root. Whitespace-only text is
// dropped.
func (x *XML) Outline() Element {
	return outline(x.rootElement())
}

func outline(n *xmlquery.Node) Element {
	el := Element{Name: qualifiedName(n.Prefix, n.Data)}
	for _, a := range n.Attr {
		if el.Attrs == nil {
			el.Attrs = make(map[string]string)
		}
		el.Attrs[qualifiedName(a.Name.Space, a.Name.Local)] = a.Value
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			el.Children = append(el.Children, outline(c))
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(c.Data)
		}
	}
	el.Text = strings.TrimSpace(text.String())
	return el
}

// Format renders the document with one element per line, indented by
// indent per level. An element holding only text stays on one line.
func (x *XML) Format(indent string) []byte {
	var buf bytes.Buffer
	for n := x.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.DeclarationNode && !x.declared {
			continue
		}
		formatNode(&buf, n, 0, indent)
	}
	return buf.Bytes()
}

// FormatXML parses data and renders it with Format.
func FormatXML(data []byte, indent string) ([]byte, error) {
	x, err := ParseXML(data)
	if err != nil {
		return nil, err
	}
	return x.Format(indent), nil
}

func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) {
	switch n.Type {
	case xmlquery.DeclarationNode:
		w.WriteString("<?" + n.Data)
		for _, a := range n.Attr {
			fmt.Fprintf(w, " %s=%q", a.Name.Local, a.Value)
		}
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		name := qualifiedName(n.Prefix, n.Data)
		w.WriteString(strings.Repeat(indent, depth))
		w.WriteString("<" + name)
		for _, a := range n.Attr {
			w.WriteString(" " + qualifiedName(a.Name.Space, a.Name.Local) + `="`)
			escape(w, a.Value)
			w.WriteString(`"`)
		}

		nested := false
		empty := true
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.ElementNode || c.Type == xmlquery.CommentNode {
				nested = true
			}
			if c.Type != xmlquery.TextNode || strings.TrimSpace(c.Data) != "" {
				empty = false
			}
		}
		if empty {
			w.WriteString("/>\n")
			return
		}
		w.WriteString(">")

		if !nested {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeText(w, c)
			}
			w.WriteString("</" + name + ">\n")
			return
		}

		w.WriteString("\n")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
				if strings.TrimSpace(c.Data) == "" {
					continue
				}
				w.WriteString(strings.Repeat(indent, depth+1))
				writeText(w, c)
				w.WriteString("\n")
				continue
			}
			formatNode(w, c, depth+1, indent)
		}
		w.WriteString(strings.Repeat(indent, depth))
		w.WriteString("</" + name + ">\n")

	case xmlquery.CommentNode:
		w.WriteString(strings.Repeat(indent, depth))
		w.WriteString("<!--" + n.Data + "-->\n")
	}
}

func writeText(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[" + n.Data + "]]>")
	case xmlquery.TextNode:
		escape(w, n.Data)
	}
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(w *bytes.Buffer, s string) {
	w.WriteString(escaper.Replace(s))
}

func qualifiedName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
