package javadoc

import (
	"github.com/CognitoIQ/xsdpost/javasrc"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("xsdpost.javadoc")

// Binding annotations that give a member its XML name, in order of
// precedence, with the element holding the name.
var memberRenames = []struct{ annotation, element string }{
	{"XmlElement", "name"},
	{"XmlAttribute", "name"},
	{"XmlElementWrapper", "name"},
	{"XmlEnumValue", "value"},
}

// The value binding annotations use for "derive the name".
const defaultName = "##default"

// ExtractFiles parses the named Java source files and indexes their
// documentation.
func ExtractFiles(paths []string) (*Index, error) {
	units := make([]*javasrc.CompilationUnit, 0, len(paths))
	for _, path := range paths {
		unit, err := javasrc.ParseFile(path)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return Extract(units)
}

// Extract indexes the documentation of the packages, types, fields,
// enum constants and methods declared in units. Constructors are
// skipped. It returns a *DuplicateLocationError if two declarations
// share a location.
func Extract(units []*javasrc.CompilationUnit) (*Index, error) {
	b := newBuilder(log)
	for _, unit := range units {
		if err := extractUnit(b, unit); err != nil {
			return nil, err
		}
	}
	ix := b.index()
	log.Infof("indexed %d documented declarations from %d source files", ix.Len(), len(units))
	return ix, nil
}

func extractUnit(b *builder, unit *javasrc.CompilationUnit) error {
	var pkgDoc Record
	if unit.IsPackageInfo() {
		pkgDoc = record(unit.PackageDoc)
	}
	if err := b.add(PackageLocation(unit.Package), pkgDoc, unit.File); err != nil {
		return err
	}

	for _, td := range unit.AllTypes() {
		class := ClassLocation(unit.Package, td.Chain(), xmlName(td.Annotations, "XmlType", "name"))
		if err := b.add(class, record(td.Doc), unit.File); err != nil {
			return err
		}
		for _, c := range td.EnumConstants {
			loc := FieldLocation(class, c.Name, memberRename(c.Annotations))
			if err := b.add(loc, record(c.Doc), unit.File); err != nil {
				return err
			}
		}
		for _, f := range td.Fields {
			loc := FieldLocation(class, f.Name, memberRename(f.Annotations))
			if err := b.add(loc, record(f.Doc), unit.File); err != nil {
				return err
			}
		}
		for _, m := range td.Methods {
			if m.Constructor {
				continue
			}
			params := make([]string, len(m.Params))
			for i, p := range m.Params {
				params[i] = p.Type
				if p.Varargs {
					params[i] += "..."
				}
			}
			loc := MethodLocation(class, m.Name, memberRename(m.Annotations), params)
			if err := b.add(loc, record(m.Doc), unit.File); err != nil {
				return err
			}
		}
		log.Debugf("%s: %s %s", unit.File, td.Kind, class.Path())
	}
	return nil
}

func record(doc string) Record {
	if doc == "" {
		return Record{}
	}
	return ParseComment(doc)
}

func memberRename(annotations []javasrc.Annotation) string {
	for _, r := range memberRenames {
		if name := xmlName(annotations, r.annotation, r.element); name != "" {
			return name
		}
	}
	return ""
}

func xmlName(annotations []javasrc.Annotation, annotation, element string) string {
	a, ok := javasrc.FindAnnotation(annotations, annotation)
	if !ok {
		return ""
	}
	name, _ := a.Value(element)
	if name == defaultName {
		return ""
	}
	return name
}
