package crosswalk

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/go-xmlfmt/xmlfmt"
	"golang.org/x/text/language"
)

// Namespace binds a prefix to a namespace URI.
type Namespace struct {
	Prefix string `json:"prefix"`
	URI    string `json:"uri"`
}

// Namespaces shared by several crosswalks.
var (
	XSI     = Namespace{Prefix: "xsi", URI: "http://www.w3.org/2001/XMLSchema-instance"}
	XLink   = Namespace{Prefix: "xlink", URI: "http://www.w3.org/1999/xlink"}
	DC      = Namespace{Prefix: "dc", URI: "http://purl.org/dc/elements/1.1/"}
	DCTerms = Namespace{Prefix: "dcterms", URI: "http://purl.org/dc/terms/"}
	RDF     = Namespace{Prefix: "rdf", URI: "http://www.w3.org/1999/02/22-rdf-syntax-ns#"}
	XML     = Namespace{Prefix: "xml", URI: "http://www.w3.org/XML/1998/namespace"}
)

// NewElement creates a detached element local in namespace ns.
func NewElement(ns Namespace, local string) *etree.Element {
	e := etree.NewElement(local)
	e.Space = ns.Prefix
	return e
}

// AddElement creates local in namespace ns as the last child of parent.
func AddElement(parent *etree.Element, ns Namespace, local string) *etree.Element {
	e := NewElement(ns, local)
	parent.AddChild(e)
	return e
}

// AddText is AddElement with text content.
func AddText(parent *etree.Element, ns Namespace, local, text string) *etree.Element {
	e := AddElement(parent, ns, local)
	e.SetText(text)
	return e
}

// Declare adds xmlns declarations for nss to e, skipping ones already
// present and the implicit xml prefix.
func Declare(e *etree.Element, nss ...Namespace) {
	for _, ns := range nss {
		if ns.Prefix == XML.Prefix {
			continue
		}
		if ns.Prefix == "" {
			if e.SelectAttr("xmlns") == nil {
				e.CreateAttr("xmlns", ns.URI)
			}
			continue
		}
		if e.SelectAttr("xmlns:"+ns.Prefix) == nil {
			e.CreateAttr("xmlns:"+ns.Prefix, ns.URI)
		}
	}
}

// SetLang sets xml:lang when lang is not empty.
func SetLang(e *etree.Element, lang string) {
	if lang != "" {
		e.CreateAttr("xml:lang", lang)
	}
}

// Lang returns the xml:lang of e, if any.
func Lang(e *etree.Element) string {
	for _, a := range e.Attr {
		if a.Space == "xml" && a.Key == "lang" {
			return a.Value
		}
	}
	return ""
}

// Is reports whether e is local in namespace ns. Elements detached from the
// document that declared their prefix are matched on the prefix alone.
func Is(e *etree.Element, ns Namespace, local string) bool {
	if e == nil || e.Tag != local {
		return false
	}
	uri := e.NamespaceURI()
	if uri == ns.URI {
		return true
	}
	return uri == "" && e.Space == ns.Prefix
}

// Child returns the first child of e that is local in ns.
func Child(e *etree.Element, ns Namespace, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if Is(c, ns, local) {
			return c
		}
	}
	return nil
}

// Children returns the children of e that are local in ns.
func Children(e *etree.Element, ns Namespace, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if Is(c, ns, local) {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the trimmed text of the first matching child, or "".
func ChildText(e *etree.Element, ns Namespace, local string) string {
	if c := Child(e, ns, local); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// Path follows a chain of local names in ns from e.
func Path(e *etree.Element, ns Namespace, locals ...string) *etree.Element {
	for _, local := range locals {
		e = Child(e, ns, local)
		if e == nil {
			return nil
		}
	}
	return e
}

// Attr returns the value of an unprefixed attribute, or "".
func Attr(e *etree.Element, name string) string {
	return e.SelectAttrValue(name, "")
}

// NSAttr returns the value of attribute local in namespace ns, or "".
func NSAttr(e *etree.Element, ns Namespace, local string) string {
	for _, a := range e.Attr {
		if a.Key != local {
			continue
		}
		if a.NamespaceURI() == ns.URI || a.Space == ns.Prefix {
			return a.Value
		}
	}
	return ""
}

// Text returns the trimmed text content of e and all its descendants.
func Text(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(e)
	return strings.TrimSpace(b.String())
}

// Parse reads an XML document and returns its root element.
func Parse(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, Invalid("parsing XML: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, Invalid("parsing XML: no root element")
	}
	return root, nil
}

// ParseString parses XML held in a string.
func ParseString(s string) (*etree.Element, error) {
	return Parse(strings.NewReader(s))
}

// NormalizeLang canonicalises a language tag ("EN_us" becomes "en-US").
// Values that are not BCP 47 tags are returned trimmed but otherwise as
// given.
func NormalizeLang(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || tag == "*" {
		return tag
	}
	t, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return tag
	}
	return t.String()
}

// Serialize writes each element as a standalone XML fragment. With pretty
// set the output is indented.
func Serialize(w io.Writer, elems []*etree.Element, pretty bool) error {
	for _, e := range elems {
		doc := etree.NewDocument()
		doc.SetRoot(e.Copy())
		var buf bytes.Buffer
		if _, err := doc.WriteTo(&buf); err != nil {
			return fmt.Errorf("serializing %s: %w", e.FullTag(), err)
		}
		out := buf.String()
		if pretty {
			out = Pretty(out)
		}
		if _, err := io.WriteString(w, out+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// SerializeDocument writes e as a complete document with an XML
// declaration.
func SerializeDocument(w io.Writer, e *etree.Element, pretty bool) error {
	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"); err != nil {
		return err
	}
	return Serialize(w, []*etree.Element{e}, pretty)
}

// SerializeString returns the serialized form of elems.
func SerializeString(elems []*etree.Element, pretty bool) (string, error) {
	var b strings.Builder
	if err := Serialize(&b, elems, pretty); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Pretty indents an XML string.
func Pretty(xml string) string {
	out := xmlfmt.FormatXML(xml, "", "  ")
	out = strings.ReplaceAll(out, "\r\n", "\n")
	return strings.TrimLeft(out, "\n")
}

// Detach returns e with the namespace declarations it inherits copied onto
// it, so it can be handed to another document.
func Detach(e *etree.Element, nss ...Namespace) *etree.Element {
	c := e.Copy()
	Declare(c, nss...)
	return c
}
