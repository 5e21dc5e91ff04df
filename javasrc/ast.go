package javasrc

import (
	"path/filepath"
	"strings"
)

// A CompilationUnit is the declarations of one source file.
type CompilationUnit struct {
	File string
	// Package is the qualified package name, empty for the unnamed
	// package.
	Package string
	// PackageDoc is the doc comment on the package declaration. Only
	// package-info.java files carry one.
	PackageDoc string
	// PackageAnnotations are the annotations of the package
	// declaration.
	PackageAnnotations []Annotation
	Imports            []string
	Types              []*TypeDecl
}

// IsPackageInfo reports whether the unit is a package-info.java file.
func (u *CompilationUnit) IsPackageInfo() bool {
	return filepath.Base(u.File) == "package-info.java"
}

// AllTypes returns the top-level and nested types of the unit,
// each enclosing type before the types it encloses.
func (u *CompilationUnit) AllTypes() []*TypeDecl {
	var result []*TypeDecl
	var walk func([]*TypeDecl)
	walk = func(types []*TypeDecl) {
		for _, t := range types {
			result = append(result, t)
			walk(t.Types)
		}
	}
	walk(u.Types)
	return result
}

type TypeKind string

const (
	KindClass      TypeKind = "class"
	KindInterface  TypeKind = "interface"
	KindEnum       TypeKind = "enum"
	KindRecord     TypeKind = "record"
	KindAnnotation TypeKind = "@interface"
)

// A TypeDecl is a class, interface, enum, record or annotation type.
type TypeDecl struct {
	Kind        TypeKind
	Name        string
	Doc         string
	Modifiers   []string
	Annotations []Annotation
	Pos         Position

	Fields        []*Field
	Methods       []*Method
	EnumConstants []*EnumConstant
	Types         []*TypeDecl

	// Enclosing is the declaring type of a nested type.
	Enclosing *TypeDecl
}

// Chain returns the simple names of the enclosing types and the type
// itself, outermost first.
func (t *TypeDecl) Chain() []string {
	var names []string
	for e := t; e != nil; e = e.Enclosing {
		names = append(names, e.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// QualifiedName returns the dotted name of the type within its
// package, such as Outer.Inner.
func (t *TypeDecl) QualifiedName() string {
	return strings.Join(t.Chain(), ".")
}

type Field struct {
	Name        string
	Type        string
	Doc         string
	Modifiers   []string
	Annotations []Annotation
	Pos         Position
}

type Method struct {
	Name        string
	ReturnType  string
	Params      []Param
	Constructor bool
	Doc         string
	Modifiers   []string
	Annotations []Annotation
	Pos         Position
}

type Param struct {
	Name        string
	Type        string
	Varargs     bool
	Annotations []Annotation
}

type EnumConstant struct {
	Name        string
	Doc         string
	Annotations []Annotation
	Pos         Position
}

// An Annotation is a use of an annotation type. Element values are
// kept as source text, except that string literals are unquoted and
// concatenated.
type Annotation struct {
	Name string
	Args map[string]string
}

// SimpleName returns the annotation name without its package.
func (a Annotation) SimpleName() string {
	if i := strings.LastIndexByte(a.Name, '.'); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

// Value returns the value of the named element, and whether it was
// given.
func (a Annotation) Value(key string) (string, bool) {
	v, ok := a.Args[key]
	return v, ok
}

// FindAnnotation returns the first annotation with the given simple
// name.
func FindAnnotation(list []Annotation, simpleName string) (Annotation, bool) {
	for _, a := range list {
		if a.SimpleName() == simpleName {
			return a, true
		}
	}
	return Annotation{}, false
}

func hasModifier(mods []string, mod string) bool {
	for _, m := range mods {
		if m == mod {
			return true
		}
	}
	return false
}

// IsStatic reports whether the field is declared static.
func (f *Field) IsStatic() bool { return hasModifier(f.Modifiers, "static") }

// IsStatic reports whether the method is declared static.
func (m *Method) IsStatic() bool { return hasModifier(m.Modifiers, "static") }
