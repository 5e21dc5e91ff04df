package javadoc

import (
	"cmp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind distinguishes the variants of a Location.
type Kind int

const (
	PackageKind Kind = iota
	ClassKind
	FieldKind
	MethodKind
)

func (k Kind) String() string {
	switch k {
	case PackageKind:
		return "package"
	case ClassKind:
		return "class"
	case FieldKind:
		return "field"
	case MethodKind:
		return "method"
	}
	return "unknown"
}

// A Location identifies a documented declaration: a package, a type,
// a field (or enum constant), or a method.
//
// Locations are compared by the names a generated schema knows them
// by: a type or member renamed with an XML binding annotation is
// identified by its XML name, not its source name.
type Location struct {
	Kind    Kind
	Package string
	// Enclosing holds the simple names of the types enclosing a nested
	// type, outermost first, joined with dots.
	Enclosing string
	// Class is the simple name of the type, and ClassName its XML name.
	Class     string
	ClassName string
	// Member is the source name of a field or method, and MemberName
	// its XML name.
	Member     string
	MemberName string
	// Params holds the normalized parameter types of a method, joined
	// with commas. It is empty for methods without parameters.
	Params string
}

// PackageLocation returns the location of a package.
func PackageLocation(pkg string) Location {
	return Location{Kind: PackageKind, Package: pkg}
}

// ClassLocation returns the location of a type. The rename is the
// XML name given to the type by an annotation; if empty, the simple
// name is used.
func ClassLocation(pkg string, chain []string, rename string) Location {
	loc := Location{Kind: ClassKind, Package: pkg}
	if n := len(chain); n > 0 {
		loc.Class = chain[n-1]
		loc.Enclosing = strings.Join(chain[:n-1], ".")
	}
	loc.ClassName = cmp.Or(rename, loc.Class)
	return loc
}

// FieldLocation returns the location of a field of the class at loc.
func FieldLocation(class Location, name, rename string) Location {
	loc := class.classPart()
	loc.Kind = FieldKind
	loc.Member = name
	loc.MemberName = cmp.Or(rename, name)
	return loc
}

// MethodLocation returns the location of a method of the class at loc.
// The parameter types are normalized with NormalizeType.
func MethodLocation(class Location, name, rename string, params []string) Location {
	loc := class.classPart()
	loc.Kind = MethodKind
	loc.Member = name
	loc.MemberName = cmp.Or(rename, name)
	normalized := make([]string, len(params))
	for i, p := range params {
		normalized[i] = NormalizeType(p)
	}
	loc.Params = strings.Join(normalized, ",")
	return loc
}

func (loc Location) classPart() Location {
	return Location{
		Package:   loc.Package,
		Enclosing: loc.Enclosing,
		Class:     loc.Class,
		ClassName: loc.ClassName,
	}
}

// ClassLocation returns the location of the type a member belongs
// to.
func (loc Location) ClassLocation() Location {
	c := loc.classPart()
	c.Kind = ClassKind
	return c
}

// IsGetter reports whether loc is a method without parameters.
func (loc Location) IsGetter() bool {
	return loc.Kind == MethodKind && loc.Params == ""
}

// PropertyName returns the name of the bean property a getter
// accessor reads: getLastName and isActive give lastName and active.
// For other locations it returns the member's XML name. A renamed
// getter's XML name is returned as-is.
func (loc Location) PropertyName() string {
	if loc.Kind != MethodKind || loc.MemberName != loc.Member {
		return loc.MemberName
	}
	for _, prefix := range []string{"get", "is"} {
		rest, ok := strings.CutPrefix(loc.Member, prefix)
		if !ok || rest == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return decapitalize(rest)
		}
	}
	return loc.Member
}

// decapitalize follows the JavaBeans rule: the first letter is lowered
// unless the first two letters are both upper case, as in "URL".
func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func (loc Location) classPath() string {
	var parts []string
	if loc.Package != "" {
		parts = append(parts, loc.Package)
	}
	if loc.Enclosing != "" {
		parts = append(parts, loc.Enclosing)
	}
	parts = append(parts, loc.ClassName)
	return strings.Join(parts, ".")
}

// Path returns the canonical display form of the location, using XML
// names:
//
//	org.example
//	org.example.Person
//	org.example.Person#lastName
//	org.example.Person#getLastName()
//	org.example.Person#setAge(int)
func (loc Location) Path() string {
	switch loc.Kind {
	case PackageKind:
		return loc.Package
	case ClassKind:
		return loc.classPath()
	case FieldKind:
		return loc.classPath() + "#" + loc.MemberName
	}
	return loc.classPath() + "#" + loc.MemberName + "(" + loc.Params + ")"
}

func (loc Location) String() string {
	return loc.Path()
}

// key is the identity of a Location.
type key struct {
	pkg, enclosing, class string
	kind                  Kind
	member, params        string
}

func (loc Location) key() key {
	k := key{pkg: loc.Package, kind: loc.Kind}
	if loc.Kind == PackageKind {
		return k
	}
	k.enclosing, k.class = loc.Enclosing, loc.ClassName
	if loc.Kind == ClassKind {
		return k
	}
	k.member = loc.MemberName
	k.params = loc.Params
	return k
}

// Same reports whether a and b identify the same declaration.
func Same(a, b Location) bool {
	return a.key() == b.key()
}

// Compare orders locations by package, then type, then kind, then
// member. A package sorts before its types, and a type before its
// members.
func Compare(a, b Location) int {
	ka, kb := a.key(), b.key()
	return cmp.Or(
		cmp.Compare(ka.pkg, kb.pkg),
		cmp.Compare(ka.enclosing, kb.enclosing),
		cmp.Compare(ka.class, kb.class),
		cmp.Compare(ka.kind, kb.kind),
		cmp.Compare(ka.member, kb.member),
		cmp.Compare(ka.params, kb.params),
	)
}

// NormalizeType reduces a Java type as written in a parameter list to
// the form used in method locations: annotations, the final modifier,
// type arguments and package qualifiers are dropped, and varargs are
// written as arrays.
//
//	final java.util.List<@NonNull String> -> List
//	@Size(max = 3) String[]               -> String[]
//	Map.Entry<K, V>...                    -> Entry[]
func NormalizeType(t string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(t); i++ {
		switch c := t[i]; {
		case c == '<' || c == '(':
			depth++
		case c == '>' || c == ')':
			depth--
		case depth > 0:
		default:
			b.WriteByte(c)
		}
	}
	s := b.String()
	dims := 0
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutSuffix(s, "..."); ok {
		s = rest
		dims++
	}
	for {
		rest, ok := strings.CutSuffix(strings.TrimSpace(s), "[]")
		if !ok {
			break
		}
		s = rest
		dims++
	}
	var words []string
	for _, w := range strings.Fields(s) {
		if i := strings.IndexByte(w, '@'); i >= 0 {
			w = w[:i]
		}
		if w != "" && w != "final" {
			words = append(words, w)
		}
	}
	s = strings.Join(words, "")
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s + strings.Repeat("[]", dims)
}
