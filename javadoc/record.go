package javadoc

import (
	"slices"
	"strings"
	"unicode"
)

// NoComment is the comment of a declaration without a doc comment, or
// whose doc comment has only tags.
const NoComment = ""

// A Tag is a block tag of a doc comment, such as @since 1.2.
type Tag struct {
	Name  string
	Value string
}

// A Record is the documentation of one declaration: its comment text
// and its block tags. Records are immutable.
type Record struct {
	comment string
	tags    []Tag // sorted by name, names unique
}

// NewRecord builds a record from a comment and a tag name to value
// mapping.
func NewRecord(comment string, tags map[string]string) Record {
	r := Record{comment: comment}
	for name, value := range tags {
		r.tags = append(r.tags, Tag{Name: name, Value: value})
	}
	slices.SortFunc(r.tags, func(a, b Tag) int { return strings.Compare(a.Name, b.Name) })
	return r
}

// Comment returns the comment text, or NoComment.
func (r Record) Comment() string { return r.comment }

// Tags returns the record's tags sorted by name.
func (r Record) Tags() []Tag { return slices.Clone(r.tags) }

// Tag returns the value of the named tag.
func (r Record) Tag(name string) (string, bool) {
	i, found := slices.BinarySearchFunc(r.tags, name, func(t Tag, name string) int {
		return strings.Compare(t.Name, name)
	})
	if !found {
		return "", false
	}
	return r.tags[i].Value, true
}

// IsEmpty reports whether the record has neither comment nor tags.
func (r Record) IsEmpty() bool {
	return r.comment == NoComment && len(r.tags) == 0
}

// Equal reports whether two records hold the same documentation.
func (r Record) Equal(other Record) bool {
	return r.comment == other.comment && slices.Equal(r.tags, other.tags)
}

// ParseComment builds a Record from the source text of a doc comment,
// delimiters included. Leading asterisks are stripped from each line.
// The comment text runs up to the first line starting with a block
// tag; every such line starts a tag, whose value continues over the
// following lines until the next tag. Values of a repeated tag are
// joined with ", " in the order they appear.
func ParseComment(doc string) Record {
	lines := commentLines(doc)

	var body []string
	i := 0
	for ; i < len(lines) && !isTagLine(lines[i]); i++ {
		body = append(body, lines[i])
	}

	tags := make(map[string]string)
	var name string
	var value []string
	flush := func() {
		if name == "" {
			return
		}
		v := strings.Join(strings.Fields(strings.Join(value, " ")), " ")
		if prev, ok := tags[name]; ok {
			v = prev + ", " + v
		}
		tags[name] = v
	}
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if isTagLine(line) {
			flush()
			tag, rest, _ := strings.Cut(line[1:], " ")
			if j := strings.IndexFunc(tag, unicode.IsSpace); j >= 0 {
				tag, rest = tag[:j], tag[j:]+" "+rest
			}
			name, value = tag, []string{rest}
			continue
		}
		value = append(value, line)
	}
	flush()

	return NewRecord(trimBlankLines(body), tags)
}

func isTagLine(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) > 1 && line[0] == '@' && unicode.IsLetter(rune(line[1]))
}

// commentLines strips the comment delimiters and the leading
// whitespace and asterisk of each line.
func commentLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	doc = strings.TrimPrefix(doc, "/**")
	doc = strings.TrimSuffix(doc, "*/")
	doc = strings.ReplaceAll(doc, "\r\n", "\n")

	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if rest, ok := strings.CutPrefix(trimmed, "*"); ok {
			trimmed = strings.TrimPrefix(rest, " ")
		}
		lines[i] = strings.TrimRight(trimmed, " \t")
	}
	return lines
}

func trimBlankLines(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
