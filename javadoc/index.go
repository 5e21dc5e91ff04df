package javadoc

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"
)

// An Entry is one documented declaration.
type Entry struct {
	Location Location
	Record   Record
	// Source is the file the declaration was read from.
	Source string
}

// An Index holds the documentation of a set of source files, sorted
// by location. An Index is not modified after it is built.
type Index struct {
	entries []Entry
	byKey   map[key]int
}

// Lookup returns the record stored for loc.
func (ix *Index) Lookup(loc Location) (Record, bool) {
	i, ok := ix.byKey[loc.key()]
	if !ok {
		return Record{}, false
	}
	return ix.entries[i].Record, true
}

// Len returns the number of entries.
func (ix *Index) Len() int { return len(ix.entries) }

// Entries returns all entries, sorted.
func (ix *Index) Entries() []Entry { return slices.Clone(ix.entries) }

func (ix *Index) Packages() []Entry { return ix.ofKind(PackageKind) }
func (ix *Index) Classes() []Entry  { return ix.ofKind(ClassKind) }
func (ix *Index) Fields() []Entry   { return ix.ofKind(FieldKind) }
func (ix *Index) Methods() []Entry  { return ix.ofKind(MethodKind) }

func (ix *Index) ofKind(k Kind) []Entry {
	var result []Entry
	for _, e := range ix.entries {
		if e.Location.Kind == k {
			result = append(result, e)
		}
	}
	return result
}

// A DuplicateLocationError is returned when two declarations are
// documented under the same location.
type DuplicateLocationError struct {
	Location Location
	// First and Second are the files holding the two declarations.
	First, Second string
}

func (e *DuplicateLocationError) Error() string {
	return fmt.Sprintf("duplicate documentation for %s %s in %s and %s",
		e.Location.Kind, e.Location.Path(), e.First, e.Second)
}

type builder struct {
	entries map[key]Entry
	log     commonlog.Logger
}

func newBuilder(log commonlog.Logger) *builder {
	return &builder{entries: make(map[key]Entry), log: log}
}

// add records the documentation of one declaration. Package
// documentation may be given more than once: an empty record is
// replaced by a later non-empty one, and a later empty one is
// ignored. Two declarations that an XML rename gives the same
// location are tolerated when their documentation is identical; any
// other duplicate is an error.
func (b *builder) add(loc Location, rec Record, source string) error {
	k := loc.key()
	prev, ok := b.entries[k]
	if !ok {
		b.entries[k] = Entry{Location: loc, Record: rec, Source: source}
		return nil
	}
	if loc.Kind == PackageKind {
		switch {
		case rec.IsEmpty():
			return nil
		case prev.Record.IsEmpty():
			b.entries[k] = Entry{Location: loc, Record: rec, Source: source}
			return nil
		}
	} else if (renamed(loc) || renamed(prev.Location)) && prev.Record.Equal(rec) {
		b.log.Warningf("%s and %s are both documented as %s; keeping the first",
			describeSource(prev), describeSource(Entry{Location: loc, Source: source}), loc.Path())
		return nil
	}
	return &DuplicateLocationError{Location: loc, First: prev.Source, Second: source}
}

// renamed reports whether an XML binding annotation gave loc, or the
// type it belongs to, a name other than its source name.
func renamed(loc Location) bool {
	return loc.ClassName != loc.Class || loc.MemberName != loc.Member
}

func describeSource(e Entry) string {
	name := e.Location.Class
	if e.Location.Member != "" {
		name += "#" + e.Location.Member
	}
	return fmt.Sprintf("%s (%s)", name, e.Source)
}

func (b *builder) index() *Index {
	ix := &Index{byKey: make(map[key]int, len(b.entries))}
	for _, e := range b.entries {
		ix.entries = append(ix.entries, e)
	}
	slices.SortFunc(ix.entries, func(a, b Entry) int { return Compare(a.Location, b.Location) })
	for i, e := range ix.entries {
		ix.byKey[e.Location.key()] = i
	}
	return ix
}
