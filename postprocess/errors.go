package postprocess

import (
	"errors"
	"fmt"

	"github.com/CognitoIQ/xsdpost/javadoc"
)

// Every error returned by this package matches one of these with
// errors.Is, apart from I/O errors, which are returned as they are.
var (
	// ErrConfiguration marks an invalid transform list. It is
	// detected before any file is read.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrConsistency marks inputs that contradict each other, such
	// as a schema binding one prefix to two namespaces, or two
	// Java declarations documented under the same name.
	ErrConsistency = errors.New("inconsistent input")
	// ErrPrecondition marks a rewrite that cannot be applied to the
	// files as they are. It is detected before the file is changed.
	ErrPrecondition = errors.New("precondition failed")
)

// A ConfigError describes a problem with one entry of a transform
// list, or a value shared by two entries.
type ConfigError struct {
	// Index is the position of the offending entry.
	Index int
	// OtherIndex is the position of the earlier entry holding the
	// same value, or -1.
	OtherIndex int
	// Field is the name of the offending field: uri, toPrefix or
	// toFile.
	Field string
	Value string
	// Reason describes the problem when OtherIndex is -1.
	Reason string
}

func (e *ConfigError) Error() string {
	if e.OtherIndex >= 0 {
		return fmt.Sprintf("transform %d: %s %q is already used by transform %d",
			e.Index, e.Field, e.Value, e.OtherIndex)
	}
	if e.Value == "" {
		return fmt.Sprintf("transform %d: %s %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("transform %d: %s %q %s", e.Index, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// A MissingDocumentationError is returned when an annotation injector
// is asked to process a schema node it cannot find documentation for.
type MissingDocumentationError struct {
	// Node is the position of the schema node, as given by xsd.Path.
	Node string
	// Location is the declaration the node was matched to, if any.
	Location *javadoc.Location
}

func (e *MissingDocumentationError) Error() string {
	if e.Location == nil {
		return fmt.Sprintf("no documented declaration matches %s", e.Node)
	}
	return fmt.Sprintf("no documentation recorded for %s %s (matched by %s)",
		e.Location.Kind, e.Location.Path(), e.Node)
}

func (e *MissingDocumentationError) Unwrap() error { return ErrConsistency }

// A PrefixInUseError is returned when a namespace cannot be given a
// new prefix because the file already binds that prefix to another
// namespace.
type PrefixInUseError struct {
	File   string
	Prefix string
	// Bound is the namespace the prefix is bound to, and URI the one
	// that was to be given the prefix.
	Bound, URI string
}

func (e *PrefixInUseError) Error() string {
	return fmt.Sprintf("%s: cannot bind prefix %q to %q: already bound to %q",
		e.File, e.Prefix, e.URI, e.Bound)
}

func (e *PrefixInUseError) Unwrap() error { return ErrPrecondition }

// A RenameError is returned when schema files cannot be renamed as
// configured.
type RenameError struct {
	From, To string
	// Other is the second file mapped to To, if that is the problem.
	Other string
}

func (e *RenameError) Error() string {
	if e.Other != "" {
		return fmt.Sprintf("cannot rename both %s and %s to %s", e.Other, e.From, e.To)
	}
	return fmt.Sprintf("cannot rename %s to %s: file exists", e.From, e.To)
}

func (e *RenameError) Unwrap() error { return ErrPrecondition }

func consistency(err error) error {
	return fmt.Errorf("%w: %w", ErrConsistency, err)
}
