package postprocess

import (
	"regexp"
	"strings"

	"github.com/CognitoIQ/xsdpost/xmltree"
	"github.com/CognitoIQ/xsdpost/xsd"
)

// Attributes of schema elements whose values are QNames, or lists of
// QNames, keyed by the attribute name. A nil element list means the
// attribute is a QName wherever it appears.
var qnameAttrs = map[string][]string{
	"ref":               nil,
	"type":              nil,
	"substitutionGroup": nil,
	"base":              {"extension", "restriction"},
	"itemType":          {"list"},
	"memberTypes":       {"union"},
}

// A PrefixRewriter renames a namespace prefix throughout one schema
// document, in a single call to xmltree.Visit. It renames the
// declaration of the prefix on the root <schema> element, in place,
// the prefix of every element and attribute using it, and the prefix
// of QName values that refer to schema components by it.
//
// A PrefixRewriter does not check that the new prefix is free; the
// caller does that with CheckPrefixAvailable. If the root already
// binds the new prefix to the same namespace, the old declaration is
// removed.
type PrefixRewriter struct {
	Old, New string
	root     *xmltree.Element
	isSchema bool
	// uri is the namespace Old is bound to on the root element.
	uri string

	// Rewritten counts the nodes changed.
	Rewritten int
}

// NewPrefixRewriter returns a PrefixRewriter replacing old with new in
// doc.
func NewPrefixRewriter(doc *xmltree.Document, old, new string) *PrefixRewriter {
	uri, _ := doc.Root.LookupNamespace(old)
	return &PrefixRewriter{
		Old:      old,
		New:      new,
		root:     doc.Root,
		isSchema: xsd.IsSchema(doc.Root),
		uri:      uri,
	}
}

func (p *PrefixRewriter) Accept(n xmltree.Node) bool {
	switch n := n.(type) {
	case *xmltree.Element:
		return n.Prefix == p.Old
	case *xmltree.Attr:
		switch {
		case n.Prefix == p.Old:
			return true
		case n.IsNamespaceDecl():
			return n.DeclaredPrefix() == p.Old && n.Parent() == p.root && p.isSchema
		case n.Prefix == "":
			return p.isQNameAttr(n) && p.hasOldPrefix(n.Value)
		}
	}
	return false
}

func (p *PrefixRewriter) isQNameAttr(a *xmltree.Attr) bool {
	parents, ok := qnameAttrs[a.Local]
	if !ok {
		return false
	}
	if parents == nil {
		return true
	}
	el := a.Parent()
	if el == nil {
		return false
	}
	for _, local := range parents {
		if el.Local == local && p.namespace(el) == xsd.SchemaNS {
			return true
		}
	}
	return false
}

// namespace returns the namespace of el as it was before the rewrite.
// Elements already given the new prefix may precede the renamed
// declaration.
func (p *PrefixRewriter) namespace(el *xmltree.Element) string {
	if el.Prefix == p.New && p.uri != "" {
		return p.uri
	}
	return el.Name().Space
}

func (p *PrefixRewriter) hasOldPrefix(value string) bool {
	for _, qname := range strings.Fields(value) {
		if prefix, _ := xmltree.SplitQName(qname); prefix == p.Old {
			return true
		}
	}
	return false
}

func (p *PrefixRewriter) Process(n xmltree.Node) error {
	switch n := n.(type) {
	case *xmltree.Element:
		n.Prefix = p.New
	case *xmltree.Attr:
		switch {
		case n.Prefix == p.Old:
			n.Prefix = p.New
		case n.IsNamespaceDecl():
			root := n.Parent()
			if declares(root, p.New, n.Value) {
				root.RemoveAttr(n)
				break
			}
			decl := &xmltree.Attr{Prefix: "xmlns", Local: p.New, Value: n.Value}
			root.ReplaceAttr(n, decl)
		default:
			n.Value = p.rewriteQNames(n.Value)
		}
	}
	p.Rewritten++
	return nil
}

// declares reports whether el declares prefix for uri.
func declares(el *xmltree.Element, prefix, uri string) bool {
	for _, a := range el.Attrs {
		if a.IsNamespaceDecl() && a.DeclaredPrefix() == prefix && a.Value == uri {
			return true
		}
	}
	return false
}

var qnameToken = regexp.MustCompile(`\S+`)

// rewriteQNames replaces the prefix of each QName in a whitespace
// separated list, keeping the whitespace.
func (p *PrefixRewriter) rewriteQNames(value string) string {
	return qnameToken.ReplaceAllStringFunc(value, func(qname string) string {
		if prefix, local := xmltree.SplitQName(qname); prefix == p.Old {
			return p.New + ":" + local
		}
		return qname
	})
}

// CheckPrefixAvailable returns a *PrefixInUseError if the file r was
// built from binds prefix to a namespace other than uri. Giving a
// namespace a prefix that is already bound to it, as when tns shares
// the target namespace with another prefix, is allowed.
func CheckPrefixAvailable(r *xsd.NamespaceResolver, uri, prefix string) error {
	if bound, ok := r.Namespace(prefix); ok && bound != uri {
		return &PrefixInUseError{File: r.Path, Prefix: prefix, Bound: bound, URI: uri}
	}
	return nil
}
