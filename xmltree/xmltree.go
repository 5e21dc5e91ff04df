// Package xmltree holds XML documents as a mutable tree of Go structs.
//
// Unlike encoding/xml, the xmltree package keeps namespace prefixes
// exactly as they were written, so a document can be parsed, edited
// and written back without its declarations being renamed or moved.
// Prefixes can be resolved to their canonical namespace at any point
// in the tree.
package xmltree // import "github.com/CognitoIQ/xsdpost/xmltree"

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

const recursionLimit = 3000

const (
	// XMLNamespace is bound to the reserved "xml" prefix.
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"
	// XMLNSNamespace is the namespace of all namespace declarations.
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

var errDeepXML = errors.New("xmltree: xml document too deeply nested")

// A Node is one of *Element, *Attr, *CharData, *Comment, *ProcInst
// or *Directive. Callers dispatch on the concrete type.
type Node interface {
	// Parent returns the element containing the node. For an
	// *Attr, it is the element carrying the attribute.
	Parent() *Element
	isNode()
}

// An Element represents a single element in an XML document. Elements
// may have zero or more children, which may be other elements, character
// data, comments or processing instructions.
type Element struct {
	// Prefix is the namespace prefix as written in the document,
	// or the empty string for unprefixed names.
	Prefix string
	Local  string
	// Attributes in document order, including namespace declarations.
	Attrs    []*Attr
	Children []Node

	parent *Element
}

// An Attr is a single attribute of an Element. Namespace declarations
// are attributes with the prefix "xmlns", or the unprefixed name
// "xmlns" for the default namespace.
type Attr struct {
	Prefix string
	Local  string
	Value  string

	owner *Element
}

// CharData holds text content. If CDATA is true, the text is written
// as one or more CDATA sections.
type CharData struct {
	Data  string
	CDATA bool

	parent *Element
}

// A Comment is an XML comment, without the <!-- and --> markers.
type Comment struct {
	Data string

	parent *Element
}

// A ProcInst is a processing instruction such as <?xml version="1.0"?>.
type ProcInst struct {
	Target string
	Inst   string

	parent *Element
}

// A Directive is an XML directive such as <!DOCTYPE ...>.
type Directive struct {
	Data string

	parent *Element
}

func (el *Element) Parent() *Element { return el.parent }
func (a *Attr) Parent() *Element { return a.owner }
func (c *CharData) Parent() *Element { return c.parent }
func (c *Comment) Parent() *Element { return c.parent }
func (p *ProcInst) Parent() *Element { return p.parent }
func (d *Directive) Parent() *Element { return d.parent }
func (*Element) isNode() {}
func (*Attr) isNode() {}
func (*CharData) isNode() {}
func (*Comment) isNode() {}
func (*ProcInst) isNode() {}
func (*Directive) isNode() {}

// A Document is a parsed XML document. Nodes before and after the root
// element, such as the XML declaration, are kept so that they survive
// a round trip.
type Document struct {
	Prolog []Node
	Root   *Element
	Epilog []Node
}

// NewElement creates a detached element.
func NewElement(prefix, local string) *Element {
	return &Element{Prefix: prefix, Local: local}
}

// NewCDATA creates a detached CDATA section.
func NewCDATA(data string) *CharData {
	return &CharData{Data: data, CDATA: true}
}

// NewText creates detached character data.
func NewText(data string) *CharData {
	return &CharData{Data: data}
}

// QName returns the name of the element as written, prefix:local.
func (el *Element) QName() string {
	return qname(el.Prefix, el.Local)
}

// QName returns the name of the attribute as written, prefix:local.
func (a *Attr) QName() string {
	return qname(a.Prefix, a.Local)
}

func qname(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// Name returns the canonical name of the element, with the Space field
// set to the namespace its prefix is bound to.
func (el *Element) Name() xml.Name {
	space, _ := el.LookupNamespace(el.Prefix)
	return xml.Name{Space: space, Local: el.Local}
}

// IsNamespaceDecl returns true if the attribute declares a namespace.
func (a *Attr) IsNamespaceDecl() bool {
	return a.Prefix == "xmlns" || (a.Prefix == "" && a.Local == "xmlns")
}

// DeclaredPrefix returns the prefix declared by a namespace declaration.
// It is the empty string for the default namespace and for attributes
// that are not declarations.
func (a *Attr) DeclaredPrefix() string {
	if a.Prefix == "xmlns" {
		return a.Local
	}
	return ""
}

// NamespaceURI returns the namespace of the attribute. Unprefixed
// attributes are in no namespace; namespace declarations are in
// XMLNSNamespace.
func (a *Attr) NamespaceURI() string {
	switch {
	case a.IsNamespaceDecl():
		return XMLNSNamespace
	case a.Prefix == "":
		return ""
	case a.owner == nil:
		return a.Prefix
	}
	space, _ := a.owner.LookupNamespace(a.Prefix)
	return space
}

// Name returns the canonical name of the attribute.
func (a *Attr) Name() xml.Name {
	return xml.Name{Space: a.NamespaceURI(), Local: a.Local}
}

// LookupNamespace returns the namespace bound to prefix at el, searching
// el and its ancestors. The empty prefix finds the default namespace.
func (el *Element) LookupNamespace(prefix string) (string, bool) {
	switch prefix {
	case "xml":
		return XMLNamespace, true
	case "xmlns":
		return XMLNSNamespace, true
	}
	for e := el; e != nil; e = e.parent {
		for _, a := range e.Attrs {
			if !a.IsNamespaceDecl() {
				continue
			}
			if a.DeclaredPrefix() == prefix {
				return a.Value, true
			}
		}
	}
	return "", false
}

// LookupPrefix is the inverse of LookupNamespace. It returns the closest
// prefix bound to space that is not shadowed by a nearer declaration.
func (el *Element) LookupPrefix(space string) (string, bool) {
	seen := make(map[string]bool)
	for e := el; e != nil; e = e.parent {
		for _, a := range e.Attrs {
			if !a.IsNamespaceDecl() {
				continue
			}
			p := a.DeclaredPrefix()
			if seen[p] {
				continue
			}
			seen[p] = true
			if a.Value == space {
				return p, true
			}
		}
	}
	return "", false
}

// Attr gets the value of the first attribute whose name matches the
// space and local arguments. If space is the empty string, only
// attributes' local names are considered when looking for a match.
// If an attribute could not be found, the empty string is returned.
func (el *Element) Attr(space, local string) string {
	if a := el.AttrNode(space, local); a != nil {
		return a.Value
	}
	return ""
}

// AttrNode is like Attr, but returns the attribute itself, or nil.
func (el *Element) AttrNode(space, local string) *Attr {
	for _, a := range el.Attrs {
		if a.Local != local || a.IsNamespaceDecl() {
			continue
		}
		if space == "" || space == a.NamespaceURI() {
			return a
		}
	}
	return nil
}

// SetAttr adds an attribute to an Element's existing attributes. If an
// attribute with the same prefix and local name exists, its value is
// replaced.
func (el *Element) SetAttr(prefix, local, value string) *Attr {
	for _, a := range el.Attrs {
		if a.Prefix == prefix && a.Local == local {
			a.Value = value
			return a
		}
	}
	a := &Attr{Prefix: prefix, Local: local, Value: value, owner: el}
	el.Attrs = append(el.Attrs, a)
	return a
}

// RemoveAttr removes an attribute from the element. It returns the
// position the attribute held, or -1 if it was not found.
func (el *Element) RemoveAttr(attr *Attr) int {
	for i, a := range el.Attrs {
		if a == attr {
			el.Attrs = append(el.Attrs[:i:i], el.Attrs[i+1:]...)
			a.owner = nil
			return i
		}
	}
	return -1
}

// ReplaceAttr puts repl in the position held by old. If old is not an
// attribute of el, repl is appended.
func (el *Element) ReplaceAttr(old, repl *Attr) {
	repl.owner = el
	for i, a := range el.Attrs {
		if a == old {
			el.Attrs[i] = repl
			old.owner = nil
			return
		}
	}
	el.Attrs = append(el.Attrs, repl)
}

// Resolve translates an XML QName (namespace-prefixed string) to an
// xml.Name with a canonicalized namespace in its Space field.  This can
// be used when working with XSD documents, which put QNames in attribute
// values. If qname does not have a prefix, the default namespace is used.If
// a namespace prefix cannot be resolved, the returned value's Space field
// will be the unresolved prefix. Use the ResolveNS function to detect when
// a namespace prefix cannot be resolved.
func (el *Element) Resolve(qname string) xml.Name {
	name, _ := el.ResolveNS(qname)
	return name
}

// The ResolveNS method is like Resolve, but returns false for its second
// return value if a namespace prefix cannot be resolved.
func (el *Element) ResolveNS(qname string) (xml.Name, bool) {
	prefix, local := SplitQName(qname)
	if space, ok := el.LookupNamespace(prefix); ok {
		return xml.Name{Space: space, Local: local}, true
	}
	return xml.Name{Space: prefix, Local: local}, prefix == ""
}

// SplitQName splits prefix:local at the first colon. Strings without
// a colon have an empty prefix.
func SplitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// ChildElements returns the element children of el, in order.
func (el *Element) ChildElements() []*Element {
	var result []*Element
	for _, c := range el.Children {
		if child, ok := c.(*Element); ok {
			result = append(result, child)
		}
	}
	return result
}

// InsertChild inserts n at position i of el's children. Positions past
// the end append.
func (el *Element) InsertChild(i int, n Node) {
	setParent(n, el)
	if i >= len(el.Children) {
		el.Children = append(el.Children, n)
		return
	}
	if i < 0 {
		i = 0
	}
	el.Children = append(el.Children, nil)
	copy(el.Children[i+1:], el.Children[i:])
	el.Children[i] = n
}

// PrependChild makes n the first child of el.
func (el *Element) PrependChild(n Node) {
	el.InsertChild(0, n)
}

// AppendChild makes n the last child of el.
func (el *Element) AppendChild(n Node) {
	el.InsertChild(len(el.Children), n)
}

// RemoveChild detaches n from el. It returns false if n is not
// a child of el.
func (el *Element) RemoveChild(n Node) bool {
	for i, c := range el.Children {
		if c == n {
			el.Children = append(el.Children[:i:i], el.Children[i+1:]...)
			setParent(n, nil)
			return true
		}
	}
	return false
}

// Text returns the concatenated character data directly inside el.
func (el *Element) Text() string {
	var buf strings.Builder
	for _, c := range el.Children {
		if cd, ok := c.(*CharData); ok {
			buf.WriteString(cd.Data)
		}
	}
	return buf.String()
}

func setParent(n Node, parent *Element) {
	switch n := n.(type) {
	case *Element:
		n.parent = parent
	case *Attr:
		n.owner = parent
	case *CharData:
		n.parent = parent
	case *Comment:
		n.parent = parent
	case *ProcInst:
		n.parent = parent
	case *Directive:
		n.parent = parent
	}
}

// Save some typing when scanning xml
type scanner struct {
	*xml.Decoder
	tok xml.Token
	err error
}

func (s *scanner) scan() bool {
	if s.err != nil {
		return false
	}
	s.tok, s.err = s.RawToken()
	return s.err == nil
}

// Parse builds a Document by reading an XML document. The byte slice
// passed to Parse is expected to be a valid XML document with a single
// root element. Documents declaring an encoding other than UTF-8 are
// decoded with golang.org/x/net/html/charset.
func Parse(doc []byte) (*Document, error) {
	return Decode(bytes.NewReader(doc))
}

// Decode is like Parse, but reads the document from r.
func Decode(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	scanner := scanner{Decoder: d}
	result := new(Document)

	for scanner.scan() {
		if start, ok := scanner.tok.(xml.StartElement); ok {
			result.Root = newElement(start.Copy(), nil)
			break
		}
		if n := miscNode(scanner.tok, nil); n != nil {
			result.Prolog = append(result.Prolog, n)
		}
	}
	if scanner.err == io.EOF {
		return nil, errors.New("xmltree: document has no root element")
	}
	if scanner.err != nil {
		return nil, scanner.err
	}
	if err := result.Root.parse(&scanner, 0); err != nil {
		return nil, err
	}
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			return nil, fmt.Errorf("xmltree: second root element <%s>", qname(tok.Name.Space, tok.Name.Local))
		case xml.CharData:
			if len(bytes.TrimSpace(tok)) > 0 {
				return nil, errors.New("xmltree: character data after root element")
			}
		default:
			if n := miscNode(tok, nil); n != nil {
				result.Epilog = append(result.Epilog, n)
			}
		}
	}
	if scanner.err != io.EOF {
		return nil, scanner.err
	}
	return result, nil
}

// ParseFile reads and parses the named file.
func ParseFile(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

// RawToken does not translate prefixes, so Name.Space holds the prefix.
func newElement(start xml.StartElement, parent *Element) *Element {
	el := &Element{
		Prefix: start.Name.Space,
		Local:  start.Name.Local,
		parent: parent,
		Attrs:  make([]*Attr, 0, len(start.Attr)),
	}
	for _, a := range start.Attr {
		el.Attrs = append(el.Attrs, &Attr{
			Prefix: a.Name.Space,
			Local:  a.Name.Local,
			Value:  a.Value,
			owner:  el,
		})
	}
	return el
}

// miscNode converts tokens that are not elements. Whitespace outside
// the root element is dropped.
func miscNode(tok xml.Token, parent *Element) Node {
	switch tok := tok.(type) {
	case xml.Comment:
		return &Comment{Data: string(tok), parent: parent}
	case xml.ProcInst:
		return &ProcInst{Target: tok.Target, Inst: string(tok.Inst), parent: parent}
	case xml.Directive:
		return &Directive{Data: string(tok), parent: parent}
	case xml.CharData:
		if parent == nil {
			return nil
		}
		return &CharData{Data: string(tok), parent: parent}
	}
	return nil
}

func (el *Element) parse(scanner *scanner, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			child := newElement(tok.Copy(), el)
			if err := child.parse(scanner, depth+1); err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			if tok.Name.Space != el.Prefix || tok.Name.Local != el.Local {
				return fmt.Errorf("Expecting </%s>, got </%s>", el.QName(), qname(tok.Name.Space, tok.Name.Local))
			}
			return nil
		default:
			if n := miscNode(tok, el); n != nil {
				el.Children = append(el.Children, n)
			}
		}
	}
	if scanner.err == io.EOF {
		return fmt.Errorf("unexpected end of document inside <%s>", el.QName())
	}
	return scanner.err
}

// The walk method calls the walkFunc for each of the Element's child
// elements.
func (el *Element) walk(fn walkFunc) {
	for _, c := range el.Children {
		if child, ok := c.(*Element); ok {
			fn(child)
		}
	}
}

// walkFunc is the type of the function called for each of an Element's
// children.
type walkFunc func(*Element)

// SearchFunc traverses the Element tree in depth-first order and returns
// a slice of Elements for which the function fn returns true. Note that
// SearchFunc does not search the children of Elements that match the search;
// there is no parent-child relationship between the Elements returned in
// the result.
func (root *Element) SearchFunc(fn func(*Element) bool) []*Element {
	var results []*Element
	var search func(el *Element)

	search = func(el *Element) {
		if fn(el) {
			results = append(results, el)
			return
		}
		el.walk(search)
	}
	root.walk(search)
	return results
}

// Search searches the Element tree for Elements with an xml tag
// matching the name and xml namespace. If space is the empty string,
// any namespace is matched.
func (root *Element) Search(space, local string) []*Element {
	return root.SearchFunc(func(el *Element) bool {
		if local != el.Local {
			return false
		}
		return space == "" || space == el.Name().Space
	})
}

// Ancestor returns the nearest ancestor of el for which fn returns
// true, or nil.
func (el *Element) Ancestor(fn func(*Element) bool) *Element {
	for e := el.parent; e != nil; e = e.parent {
		if fn(e) {
			return e
		}
	}
	return nil
}
