package javadoc

import (
	"fmt"
	"runtime"
	"strings"
)

// A Renderer turns a documentation record into the text of an
// <xs:documentation> element. A blank result means there is nothing to
// document.
type Renderer interface {
	Render(rec Record, loc Location) string
}

// PlatformNewline is the line terminator of the host platform.
var PlatformNewline = platformNewline()

func platformNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// DefaultRenderer writes the comment text, then, if there are tags, a
// blank line followed by one "(name): value" line per tag, sorted by
// tag name.
type DefaultRenderer struct {
	// Newline separates lines. If empty, PlatformNewline is used.
	Newline string
}

func (r DefaultRenderer) Render(rec Record, loc Location) string {
	return render(rec, r.Newline, nil)
}

// NoAuthorRenderer is like DefaultRenderer, but leaves out @author
// tags.
type NoAuthorRenderer struct {
	Newline string
}

func (r NoAuthorRenderer) Render(rec Record, loc Location) string {
	return render(rec, r.Newline, func(tag string) bool {
		return !strings.EqualFold(tag, "author")
	})
}

func render(rec Record, newline string, keep func(tag string) bool) string {
	if newline == "" {
		newline = PlatformNewline
	}
	var lines []string
	if c := rec.Comment(); c != NoComment {
		lines = append(lines, strings.Split(c, "\n")...)
	}
	var tags []string
	for _, t := range rec.Tags() {
		if keep == nil || keep(t.Name) {
			tags = append(tags, fmt.Sprintf("(%s): %s", t.Name, t.Value))
		}
	}
	if len(tags) > 0 && len(lines) > 0 {
		lines = append(lines, "")
	}
	return strings.Join(append(lines, tags...), newline)
}

var renderers = map[string]func() Renderer{
	"default":  func() Renderer { return DefaultRenderer{} },
	"noauthor": func() Renderer { return NoAuthorRenderer{} },
}

// RendererNames lists the names accepted by LookupRenderer.
func RendererNames() []string {
	return []string{"default", "noauthor"}
}

// LookupRenderer returns the renderer with the given name, matched
// case-insensitively.
func LookupRenderer(name string) (Renderer, error) {
	if fn, ok := renderers[strings.ToLower(name)]; ok {
		return fn(), nil
	}
	return nil, fmt.Errorf("unknown renderer %q (choose from %s)", name, strings.Join(RendererNames(), ", "))
}
