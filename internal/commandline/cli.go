// Package commandline contains helper types for collecting
// command-line arguments.
package commandline // import "github.com/CognitoIQ/xsdpost/internal/commandline"

import (
	"fmt"
	"strings"

	"github.com/CognitoIQ/xsdpost/postprocess"
	"github.com/spf13/pflag"
)

var (
	_ pflag.Value = (*TransformList)(nil)
	_ pflag.Value = (*Strings)(nil)
)

// A TransformList is used to collect namespace transforms from the
// command line. On the command line, a transform is a comma-separated
// list of key=value pairs, with the keys uri, prefix and file:
//
//	uri=http://example.org/people,prefix=people,file=people.xsd
type TransformList []postprocess.TransformSchema

func (r *TransformList) String() string {
	items := make([]string, len(*r))
	for i, item := range *r {
		items[i] = item.String()
	}
	return strings.Join(items, " ")
}

// Set adds a transform to the TransformList, in the order provided on
// the command line. Only the syntax is checked here; see
// postprocess.ValidateTransforms.
func (r *TransformList) Set(s string) error {
	t, err := ParseTransform(s)
	if err != nil {
		return err
	}
	*r = append(*r, t)
	return nil
}

func (r *TransformList) Type() string { return "transform" }

// ParseTransform parses one transform in the syntax accepted by
// TransformList.
func ParseTransform(s string) (postprocess.TransformSchema, error) {
	var t postprocess.TransformSchema
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(part, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || value == "" {
			return t, fmt.Errorf("invalid transform %q. must be \"uri=URI,prefix=PREFIX,file=FILE\"", s)
		}
		if seen[key] {
			return t, fmt.Errorf("invalid transform %q: %s given twice", s, key)
		}
		seen[key] = true
		switch key {
		case "uri":
			t.URI = value
		case "prefix":
			t.ToPrefix = value
		case "file":
			t.ToFile = value
		default:
			return t, fmt.Errorf("invalid transform %q: unknown key %q", s, key)
		}
	}
	if t.URI == "" {
		return t, fmt.Errorf("invalid transform %q: missing uri", s)
	}
	return t, nil
}

// The Strings type can be used to collect multiple command-line options,
// in the order provided.
type Strings []string

func (s *Strings) String() string {
	return strings.Join(*s, ",")
}

func (s *Strings) Set(val string) error {
	*s = append(*s, val)
	return nil
}

func (s *Strings) Type() string { return "strings" }
