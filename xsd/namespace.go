package xsd

import (
	"fmt"
	"path/filepath"

	"github.com/CognitoIQ/xsdpost/internal/ordered"
	"github.com/CognitoIQ/xsdpost/xmltree"
)

const (
	// DefaultNamespacePrefix is the key under which a bare xmlns="..."
	// declaration is recorded. It cannot collide with a real prefix.
	DefaultNamespacePrefix = "##default"

	// TNSPrefix is the conventional prefix for a schema's own target
	// namespace. It may share its URI with another prefix.
	TNSPrefix = "tns"
)

// A NamespaceConflictError is returned when a schema document binds a
// prefix to two namespaces, or a namespace to two prefixes.
type NamespaceConflictError struct {
	File string
	// Prefix and URI are the binding that could not be recorded.
	Prefix, URI string
	// Existing is the value already bound to Prefix (when Reverse is
	// false) or to URI (when Reverse is true).
	Existing string
	Reverse  bool
}

func (e *NamespaceConflictError) Error() string {
	if e.Reverse {
		return fmt.Sprintf("%s: namespace %q is bound to prefix %q and to prefix %q",
			e.File, e.URI, e.Existing, e.Prefix)
	}
	return fmt.Sprintf("%s: prefix %q is bound to namespace %q and to namespace %q",
		e.File, e.Prefix, e.Existing, e.URI)
}

// A NamespaceResolver holds the namespace declarations of one schema
// file, in both directions, along with the file's target namespace.
type NamespaceResolver struct {
	// Path is the file the resolver was built from.
	Path string
	// LocalNamespace is the targetNamespace of the root <schema>.
	LocalNamespace string

	prefixToURI map[string]string
	uriToPrefix map[string]string
}

// Filename returns the base name of the resolver's file.
func (r *NamespaceResolver) Filename() string {
	return filepath.Base(r.Path)
}

// NewNamespaceResolver parses the schema file at path and collects its
// namespace declarations.
func NewNamespaceResolver(path string) (*NamespaceResolver, error) {
	doc, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ResolveNamespaces(path, doc)
}

// ResolveNamespaces collects the namespace declarations of every element
// in doc, and the targetNamespace of its root <schema> element. The name
// is used in error messages.
func ResolveNamespaces(name string, doc *xmltree.Document) (*NamespaceResolver, error) {
	r := &NamespaceResolver{
		Path:        name,
		prefixToURI: make(map[string]string),
		uriToPrefix: make(map[string]string),
	}
	collector := xmltree.VisitorFuncs{
		AcceptFunc: func(n xmltree.Node) bool {
			a, ok := n.(*xmltree.Attr)
			if !ok {
				return false
			}
			if a.IsNamespaceDecl() {
				return true
			}
			return a.Prefix == "" && a.Local == "targetNamespace" && a.Parent() == doc.Root && IsSchema(doc.Root)
		},
		ProcessFunc: func(n xmltree.Node) error {
			a := n.(*xmltree.Attr)
			if !a.IsNamespaceDecl() {
				r.LocalNamespace = a.Value
				return nil
			}
			prefix := a.DeclaredPrefix()
			if prefix == "" {
				prefix = DefaultNamespacePrefix
			}
			return r.add(prefix, a.Value)
		},
	}
	if err := xmltree.Visit(doc.Root, true, collector); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *NamespaceResolver) add(prefix, uri string) error {
	if existing, ok := r.prefixToURI[prefix]; ok && existing != uri {
		return &NamespaceConflictError{File: r.Path, Prefix: prefix, URI: uri, Existing: existing}
	}
	r.prefixToURI[prefix] = uri

	existing, ok := r.uriToPrefix[uri]
	switch {
	case !ok || existing == prefix:
		r.uriToPrefix[uri] = prefix
	case prefix == TNSPrefix:
		r.uriToPrefix[uri] = TNSPrefix
	case existing == TNSPrefix:
		// keep tns
	default:
		return &NamespaceConflictError{File: r.Path, Prefix: prefix, URI: uri, Existing: existing, Reverse: true}
	}
	return nil
}

// Namespace returns the URI bound to prefix. Use DefaultNamespacePrefix
// for the default namespace.
func (r *NamespaceResolver) Namespace(prefix string) (string, bool) {
	uri, ok := r.prefixToURI[prefix]
	return uri, ok
}

// Prefix returns the prefix bound to uri. When tns shares its URI with
// another prefix, tns is returned.
func (r *NamespaceResolver) Prefix(uri string) (string, bool) {
	prefix, ok := r.uriToPrefix[uri]
	return prefix, ok
}

// Prefixes returns every declared prefix, sorted.
func (r *NamespaceResolver) Prefixes() []string {
	return ordered.Keys(r.prefixToURI)
}

// Namespaces returns every declared namespace URI, sorted.
func (r *NamespaceResolver) Namespaces() []string {
	return ordered.Keys(r.uriToPrefix)
}

// LocalPrefix returns the prefix bound to the file's target namespace.
func (r *NamespaceResolver) LocalPrefix() (string, bool) {
	return r.Prefix(r.LocalNamespace)
}

func (r *NamespaceResolver) String() string {
	return fmt.Sprintf("%s [%s] %v", r.Filename(), r.LocalNamespace, r.prefixToURI)
}
