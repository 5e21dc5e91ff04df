package xmltree

import (
	"bytes"
	"io"
	"regexp"
	"strings"
)

// NOTE(droyo) The encoding/xml encoder resolves prefixes and invents its
// own, so it cannot write a tree whose prefixes were edited. The encoder
// below writes names exactly as they are stored.

// Marshal produces the XML encoding of a Document. Character data is
// written as it was parsed, so an unmodified document survives a round
// trip modulo attribute quoting and entity use.
func Marshal(doc *Document) []byte {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		// bytes.Buffer.Write should never return an error
		panic(err)
	}
	return buf.Bytes()
}

// MarshalIndent is like Marshal, but discards whitespace-only character
// data and starts each element on a new line, indented with one copy of
// indent per nesting level after prefix. Elements holding text are
// written on one line.
func MarshalIndent(doc *Document, prefix, indent string) []byte {
	var buf bytes.Buffer
	if err := EncodeIndent(&buf, doc, prefix, indent); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Encode writes the XML encoding of the Document to w.
// Encode returns any errors encountered writing to w.
func Encode(w io.Writer, doc *Document) error {
	enc := encoder{w: w}
	return enc.encodeDocument(doc)
}

// EncodeIndent is like Encode, but indents its output as MarshalIndent
// does.
func EncodeIndent(w io.Writer, doc *Document, prefix, indent string) error {
	enc := encoder{w: w, prefix: prefix, indent: indent, pretty: true}
	return enc.encodeDocument(doc)
}

// String returns the XML encoding of an Element and its children.
func (el *Element) String() string {
	var buf bytes.Buffer
	enc := encoder{w: &buf}
	if err := enc.encode(el, 0); err != nil {
		return "nil (" + err.Error() + ")"
	}
	return buf.String()
}

type encoder struct {
	w              io.Writer
	prefix, indent string
	pretty         bool
	err            error
}

var encodingDecl = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

func (e *encoder) encodeDocument(doc *Document) error {
	for _, n := range doc.Prolog {
		if pi, ok := n.(*ProcInst); ok && pi.Target == "xml" {
			// Output is always UTF-8, whatever the input was.
			inst := encodingDecl.ReplaceAllString(pi.Inst, `encoding="UTF-8"`)
			e.writeString("<?xml " + inst + "?>")
		} else if err := e.encodeMisc(n); err != nil {
			return err
		}
		e.writeString("\n")
	}
	if doc.Root != nil {
		if err := e.encode(doc.Root, 0); err != nil {
			return err
		}
	}
	for _, n := range doc.Epilog {
		e.writeString("\n")
		if err := e.encodeMisc(n); err != nil {
			return err
		}
	}
	if e.pretty || len(doc.Epilog) > 0 {
		e.writeString("\n")
	}
	return e.err
}

func (e *encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *encoder) newline(depth int) {
	if !e.pretty {
		return
	}
	e.writeString("\n" + e.prefix + strings.Repeat(e.indent, depth))
}

func (e *encoder) encode(el *Element, depth int) error {
	if depth > recursionLimit {
		// We only return I/O errors
		return nil
	}
	e.encodeOpenTag(el)
	children := el.Children
	if e.pretty {
		children = significant(children)
	}
	if len(children) == 0 {
		e.writeString("/>")
		return e.err
	}
	e.writeString(">")

	block := e.pretty && !hasText(children)
	for _, c := range children {
		if block {
			e.newline(depth + 1)
		}
		if child, ok := c.(*Element); ok {
			if err := e.encode(child, depth+1); err != nil {
				return err
			}
			continue
		}
		if err := e.encodeMisc(c); err != nil {
			return err
		}
	}
	if block {
		e.newline(depth)
	}
	e.encodeCloseTag(el)
	return e.err
}

// significant drops whitespace-only character data.
func significant(children []Node) []Node {
	var result []Node
	for _, c := range children {
		if cd, ok := c.(*CharData); ok && !cd.CDATA && strings.TrimSpace(cd.Data) == "" {
			continue
		}
		result = append(result, c)
	}
	return result
}

func hasText(children []Node) bool {
	for _, c := range children {
		if _, ok := c.(*CharData); ok {
			return true
		}
	}
	return false
}

func (e *encoder) encodeMisc(n Node) error {
	switch n := n.(type) {
	case *CharData:
		if n.CDATA {
			e.writeCDATA(n.Data)
		} else {
			e.writeString(textEscaper.Replace(n.Data))
		}
	case *Comment:
		e.writeString("<!--" + n.Data + "-->")
	case *ProcInst:
		if n.Inst == "" {
			e.writeString("<?" + n.Target + "?>")
		} else {
			e.writeString("<?" + n.Target + " " + n.Inst + "?>")
		}
	case *Directive:
		e.writeString("<!" + n.Data + ">")
	}
	return e.err
}

// A CDATA section cannot contain "]]>", so the terminator is split
// across two sections.
func (e *encoder) writeCDATA(data string) {
	e.writeString("<![CDATA[")
	e.writeString(strings.ReplaceAll(data, "]]>", "]]]]><![CDATA[>"))
	e.writeString("]]>")
}

func (e *encoder) encodeOpenTag(el *Element) {
	e.writeString("<" + el.QName())
	for _, a := range el.Attrs {
		e.writeString(" " + a.QName() + `="` + attrEscaper.Replace(a.Value) + `"`)
	}
}

func (e *encoder) encodeCloseTag(el *Element) {
	e.writeString("</" + el.QName() + ">")
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)
