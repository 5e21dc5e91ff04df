package xmltree

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Equal returns true if two xmltree.Elements are equal, ignoring
// differences in white space, comments, and namespace prefixes.
// Names are compared after resolving prefixes, and namespace
// declarations are not compared.
func Equal(a, b *Element) bool {
	return equal(a, b, 0)
}

func equal(a, b *Element, depth int) bool {
	const maxDepth = 1000
	if depth > maxDepth {
		return false
	}
	if !equalElement(a, b) {
		return false
	}
	ac, bc := a.ChildElements(), b.ChildElements()
	if len(ac) != len(bc) {
		return false
	}
	if strings.TrimSpace(a.Text()) != strings.TrimSpace(b.Text()) {
		return false
	}
	for i := range ac {
		if !equal(ac[i], bc[i], depth+1) {
			return false
		}
	}
	return true
}

func equalElement(a, b *Element) bool {
	if a.Name() != b.Name() {
		return false
	}
	attrs := make(map[xml.Name]string)
	for _, a := range a.Attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		attrs[a.Name()] = a.Value
	}

	n := 0
	for _, a := range b.Attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		n++
		if v, ok := attrs[a.Name()]; !ok || v != a.Value {
			return false
		}
	}
	return n == len(attrs)
}

// Unmarshal parses the XML encoding of the Element and stores the result
// in the value pointed to by v. Unmarshal follows the same rules as
// xml.Unmarshal, but only parses the portion of the XML document
// contained by the Element. Namespace declarations made by ancestors
// of el are copied onto it first, so prefixes still resolve.
func Unmarshal(el *Element, v interface{}) error {
	cp := *el
	cp.Attrs = append([]*Attr(nil), el.Attrs...)
	declared := make(map[string]bool)
	for _, a := range cp.Attrs {
		if a.IsNamespaceDecl() {
			declared[a.DeclaredPrefix()] = true
		}
	}
	for e := el.parent; e != nil; e = e.parent {
		for _, a := range e.Attrs {
			if !a.IsNamespaceDecl() || declared[a.DeclaredPrefix()] {
				continue
			}
			declared[a.DeclaredPrefix()] = true
			cp.Attrs = append(cp.Attrs, &Attr{Prefix: a.Prefix, Local: a.Local, Value: a.Value})
		}
	}
	var buf bytes.Buffer
	enc := encoder{w: &buf}
	if err := enc.encode(&cp, 0); err != nil {
		return err
	}
	return xml.Unmarshal(buf.Bytes(), v)
}
