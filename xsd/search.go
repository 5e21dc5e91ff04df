package xsd

import "github.com/CognitoIQ/xsdpost/xmltree"

// A Predicate selects elements, for use with the Search and Ancestor
// methods of xmltree.Element.
type Predicate func(el *xmltree.Element) bool

// And matches elements matched by all of fns.
func And(fns ...Predicate) Predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if !f(el) {
				return false
			}
		}
		return true
	}
}

// Or matches elements matched by any of fns.
func Or(fns ...Predicate) Predicate {
	return func(el *xmltree.Element) bool {
		for _, f := range fns {
			if f(el) {
				return true
			}
		}
		return false
	}
}

// HasChild matches elements with at least one child element matched
// by fn.
func HasChild(fn Predicate) Predicate {
	return func(el *xmltree.Element) bool {
		for _, c := range el.ChildElements() {
			if fn(c) {
				return true
			}
		}
		return false
	}
}

// IsElem matches elements by name. If space is empty, any namespace
// matches.
func IsElem(space, local string) Predicate {
	return func(el *xmltree.Element) bool {
		if el.Local != local {
			return false
		}
		return space == "" || el.Name().Space == space
	}
}

// HasAttr matches elements with a non-empty attribute.
func HasAttr(space, local string) Predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) != ""
	}
}

// HasAttrValue matches elements whose attribute has the given value.
func HasAttrValue(space, local, value string) Predicate {
	return func(el *xmltree.Element) bool {
		return el.Attr(space, local) == value
	}
}

var (
	IsComplexType   = IsElem(SchemaNS, "complexType")
	IsSimpleType    = IsElem(SchemaNS, "simpleType")
	IsType          = Or(IsComplexType, IsSimpleType)
	IsNamedType     = And(IsType, HasAttr("", "name"))
	IsAnonymousType = And(IsType, HasAttrValue("", "name", ""))
	// A simple type restricted to a set of <enumeration> values.
	IsEnumeratedType = And(IsSimpleType, HasChild(And(
		IsElem(SchemaNS, "restriction"),
		HasChild(IsElem(SchemaNS, "enumeration")),
	)))
	IsImport = IsElem(SchemaNS, "import")
)
