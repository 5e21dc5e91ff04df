package postprocess

import (
	"strings"

	"github.com/CognitoIQ/xsdpost/javadoc"
	"github.com/CognitoIQ/xsdpost/xmltree"
	"github.com/CognitoIQ/xsdpost/xsd"
)

var (
	isElementDecl   = xsd.IsElem(xsd.SchemaNS, "element")
	isAttributeDecl = xsd.IsElem(xsd.SchemaNS, "attribute")
	isEnumeration   = xsd.IsElem(xsd.SchemaNS, "enumeration")
	isAnnotation    = xsd.IsElem(xsd.SchemaNS, "annotation")
)

type memberKey struct {
	class javadoc.Location
	name  string
}

// injector holds the index partitions shared by both annotation
// injectors.
type injector struct {
	index    *javadoc.Index
	renderer javadoc.Renderer
	classes  map[string][]javadoc.Location
	fields   map[memberKey]javadoc.Location
	getters  map[memberKey]javadoc.Location

	// Injected counts the annotations inserted.
	Injected int
}

func newInjector(ix *javadoc.Index, r javadoc.Renderer) injector {
	in := injector{
		index:    ix,
		renderer: r,
		classes:  make(map[string][]javadoc.Location),
		fields:   make(map[memberKey]javadoc.Location),
		getters:  make(map[memberKey]javadoc.Location),
	}
	for _, e := range ix.Classes() {
		name := strings.ToLower(e.Location.ClassName)
		in.classes[name] = append(in.classes[name], e.Location)
	}
	// Entries are sorted, so the first of several candidates wins.
	for _, e := range ix.Fields() {
		k := memberKey{e.Location.ClassLocation(), e.Location.MemberName}
		if _, ok := in.fields[k]; !ok {
			in.fields[k] = e.Location
		}
	}
	for _, e := range ix.Methods() {
		if !e.Location.IsGetter() {
			continue
		}
		k := memberKey{e.Location.ClassLocation(), e.Location.PropertyName()}
		if _, ok := in.getters[k]; !ok {
			in.getters[k] = e.Location
		}
	}
	return in
}

func (in *injector) class(name string) (javadoc.Location, bool) {
	if name == "" {
		return javadoc.Location{}, false
	}
	locs := in.classes[strings.ToLower(name)]
	if len(locs) == 0 {
		return javadoc.Location{}, false
	}
	if len(locs) > 1 {
		log.Debugf("schema type %q matches %d classes, using %s", name, len(locs), locs[0].Path())
	}
	return locs[0], true
}

func (in *injector) field(class javadoc.Location, name string) (javadoc.Location, bool) {
	loc, ok := in.fields[memberKey{class, name}]
	return loc, ok
}

func (in *injector) getter(class javadoc.Location, name string) (javadoc.Location, bool) {
	loc, ok := in.getters[memberKey{class, name}]
	return loc, ok
}

// inject looks up and renders the documentation of loc, and inserts
// it as the first child of el.
func (in *injector) inject(el *xmltree.Element, loc javadoc.Location) error {
	rec, ok := in.index.Lookup(loc)
	if !ok {
		return &MissingDocumentationError{Node: xsd.Path(el), Location: &loc}
	}
	text := in.renderer.Render(rec, loc)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	prefix, ok := el.LookupPrefix(xsd.SchemaNS)
	if !ok {
		prefix = el.Prefix
	}
	doc := xmltree.NewElement(prefix, "documentation")
	doc.AppendChild(xmltree.NewCDATA(text))

	// A schema component has at most one annotation, and it comes
	// first.
	if children := el.ChildElements(); len(children) > 0 && isAnnotation(children[0]) {
		children[0].PrependChild(doc)
	} else {
		ann := xmltree.NewElement(prefix, "annotation")
		ann.AppendChild(doc)
		el.PrependChild(ann)
	}
	in.Injected++
	log.Debugf("documented %s from %s", xsd.Path(el), loc.Path())
	return nil
}

// enclosingTypeName returns the name of the complex type an element
// or attribute declaration belongs to. For an anonymous type, it is
// the name of the element declaring it.
func enclosingTypeName(el *xmltree.Element) string {
	return ownerName(el.Ancestor(xsd.IsComplexType))
}

func ownerName(t *xmltree.Element) string {
	if t == nil {
		return ""
	}
	if name := t.Attr("", "name"); name != "" {
		return name
	}
	if decl := t.Parent(); decl != nil && (isElementDecl(decl) || isAttributeDecl(decl)) {
		return decl.Attr("", "name")
	}
	return ""
}

// An AnnotationInjector documents complex types, simple types that are
// not enumerations, and the element and attribute declarations inside
// complex types, with the documentation of the Java classes and
// members they were generated from.
//
// Type names are matched against class names without regard to case.
// A member is matched against a field first, then against a getter
// without parameters, by the getter's XML name or its bean property
// name.
type AnnotationInjector struct {
	injector
}

// NewAnnotationInjector returns an AnnotationInjector rendering the
// records of ix with r.
func NewAnnotationInjector(ix *javadoc.Index, r javadoc.Renderer) *AnnotationInjector {
	return &AnnotationInjector{newInjector(ix, r)}
}

func (a *AnnotationInjector) resolve(el *xmltree.Element) (javadoc.Location, bool) {
	switch {
	case xsd.IsComplexType(el), xsd.IsSimpleType(el) && !xsd.IsEnumeratedType(el):
		return a.class(el.Attr("", "name"))
	case isElementDecl(el), isAttributeDecl(el):
		name := el.Attr("", "name")
		if name == "" {
			return javadoc.Location{}, false
		}
		class, ok := a.class(enclosingTypeName(el))
		if !ok {
			return javadoc.Location{}, false
		}
		if loc, ok := a.field(class, name); ok {
			return loc, true
		}
		return a.getter(class, name)
	}
	return javadoc.Location{}, false
}

func (a *AnnotationInjector) Accept(n xmltree.Node) bool {
	el, ok := n.(*xmltree.Element)
	if !ok {
		return false
	}
	_, ok = a.resolve(el)
	return ok
}

// Process inserts the documentation of the declaration matched by n.
// It returns a *MissingDocumentationError if there is none.
func (a *AnnotationInjector) Process(n xmltree.Node) error {
	el, _ := n.(*xmltree.Element)
	if el == nil {
		return &MissingDocumentationError{Node: "non-element node"}
	}
	loc, ok := a.resolve(el)
	if !ok {
		return &MissingDocumentationError{Node: xsd.Path(el)}
	}
	return a.inject(el, loc)
}

// An EnumAnnotationInjector documents simple types restricted to a set
// of enumerations with the documentation of Java enums, and each
// enumeration facet with the documentation of its enum constant.
type EnumAnnotationInjector struct {
	injector
}

// NewEnumAnnotationInjector returns an EnumAnnotationInjector
// rendering the records of ix with r.
func NewEnumAnnotationInjector(ix *javadoc.Index, r javadoc.Renderer) *EnumAnnotationInjector {
	return &EnumAnnotationInjector{newInjector(ix, r)}
}

func (e *EnumAnnotationInjector) resolve(el *xmltree.Element) (javadoc.Location, bool) {
	switch {
	case xsd.IsEnumeratedType(el):
		return e.class(el.Attr("", "name"))
	case isEnumeration(el):
		class, ok := e.class(ownerName(el.Ancestor(xsd.IsSimpleType)))
		if !ok {
			return javadoc.Location{}, false
		}
		return e.field(class, el.Attr("", "value"))
	}
	return javadoc.Location{}, false
}

func (e *EnumAnnotationInjector) Accept(n xmltree.Node) bool {
	el, ok := n.(*xmltree.Element)
	if !ok {
		return false
	}
	_, ok = e.resolve(el)
	return ok
}

// Process inserts the documentation of the enum or enum constant
// matched by n. It returns a *MissingDocumentationError if there is
// none.
func (e *EnumAnnotationInjector) Process(n xmltree.Node) error {
	el, _ := n.(*xmltree.Element)
	if el == nil {
		return &MissingDocumentationError{Node: "non-element node"}
	}
	loc, ok := e.resolve(el)
	if !ok {
		return &MissingDocumentationError{Node: xsd.Path(el)}
	}
	return e.inject(el, loc)
}
