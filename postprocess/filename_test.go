package postprocess

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CognitoIQ/xsdpost/xmltree"
	"github.com/CognitoIQ/xsdpost/xsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameRewriter(t *testing.T) {
	doc := parseDoc(t, `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://a">`+
		`<xs:import namespace="http://b" schemaLocation="schema2.xsd"/>`+
		`<xs:import namespace="http://c" schemaLocation="schema3.xsd"/>`+
		`<xs:import namespace="http://d"/>`+
		`<xs:include schemaLocation="schema4.xsd"/>`+
		`<other namespace="http://b" schemaLocation="schema2.xsd"/>`+
		`</xs:schema>`)
	rw := &FilenameRewriter{Files: map[string]string{
		"http://b": "b.xsd",
		"http://d": "d.xsd",
		"http://a": "a.xsd",
	}}
	require.NoError(t, xmltree.Visit(doc.Root, true, rw))
	assert.Equal(t, 1, rw.Rewritten)
	assert.Equal(t, `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://a">`+
		`<xs:import namespace="http://b" schemaLocation="b.xsd"/>`+
		`<xs:import namespace="http://c" schemaLocation="schema3.xsd"/>`+
		`<xs:import namespace="http://d"/>`+
		`<xs:include schemaLocation="schema4.xsd"/>`+
		`<other namespace="http://b" schemaLocation="schema2.xsd"/>`+
		`</xs:schema>`, doc.Root.String())
}

func resolverFor(t *testing.T, dir, name, tns string) *xsd.NamespaceResolver {
	t.Helper()
	path := filepath.Join(dir, name)
	src := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="` + tns + `"/>`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	r, err := xsd.NewNamespaceResolver(path)
	require.NoError(t, err)
	return r
}

func TestPlanRenames(t *testing.T) {
	dir := t.TempDir()
	s1 := resolverFor(t, dir, "schema1.xsd", "http://a")
	s2 := resolverFor(t, dir, "schema2.xsd", "http://b")
	s3 := resolverFor(t, dir, "schema3.xsd", "http://c")
	resolvers := []*xsd.NamespaceResolver{s1, s2, s3}

	plan, err := planRenames(resolvers, map[string]string{
		"http://a": "a.xsd",
		"http://b": "schema2.xsd",
		"http://x": "x.xsd",
	})
	require.NoError(t, err)
	assert.Equal(t, []rename{{from: s1.Path, to: filepath.Join(dir, "a.xsd"), index: 0}}, plan)

	t.Run("same target", func(t *testing.T) {
		other := resolverFor(t, t.TempDir(), "schema1.xsd", "http://a")
		_, err := planRenames([]*xsd.NamespaceResolver{s1, s2}, map[string]string{
			"http://a": "a.xsd",
			"http://b": "a.xsd",
		})
		var re *RenameError
		require.True(t, errors.As(err, &re), "got %v", err)
		assert.Equal(t, s1.Path, re.Other)
		assert.Equal(t, s2.Path, re.From)
		assert.ErrorIs(t, err, ErrPrecondition)

		// Files in different directories may share a name.
		_, err = planRenames([]*xsd.NamespaceResolver{s2, other}, map[string]string{
			"http://a": "a.xsd",
			"http://b": "a.xsd",
		})
		assert.NoError(t, err)
	})

	t.Run("onto another schema", func(t *testing.T) {
		_, err := planRenames(resolvers, map[string]string{"http://c": "schema1.xsd"})
		var re *RenameError
		require.True(t, errors.As(err, &re), "got %v", err)
		assert.Equal(t, s3.Path, re.From)
		assert.Equal(t, s1.Path, re.To)
	})

	t.Run("onto an existing file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "c.xsd"), nil, 0o644))
		_, err := planRenames(resolvers, map[string]string{"http://c": "c.xsd"})
		assert.ErrorIs(t, err, ErrPrecondition)
		assert.ErrorContains(t, err, "file exists")
	})
}
