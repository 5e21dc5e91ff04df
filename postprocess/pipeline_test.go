package postprocess

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/CognitoIQ/xsdpost/internal/testutil"
	"github.com/CognitoIQ/xsdpost/xsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relinkFixture(t *testing.T) string {
	t.Helper()
	return testutil.ExtractFile(t, filepath.Join("testdata", "relink.txtar"))
}

var relinkTransforms = []TransformSchema{
	{URI: "http://a", ToPrefix: "a", ToFile: "a.xsd"},
	{URI: "http://b", ToPrefix: "b", ToFile: "b.xsd"},
}

func TestPipelineStages(t *testing.T) {
	dir := relinkFixture(t)
	p := NewConfig(Transforms(relinkTransforms...)).NewPipeline(dir)
	assert.Equal(t, Idle, p.State())

	require.NoError(t, p.Resolve())
	assert.Equal(t, ResolversBuilt, p.State())
	var names []string
	for _, r := range p.Resolvers() {
		names = append(names, r.Filename())
	}
	// schema1.xsd imports schema2.xsd.
	assert.Equal(t, []string{"schema2.xsd", "schema1.xsd"}, names)

	require.NoError(t, p.RewritePrefixes())
	assert.Equal(t, PrefixesRewritten, p.State())
	s1 := testutil.ReadFile(t, dir, "schema1.xsd")
	assert.Contains(t, s1, `xmlns:b="http://b"`)
	assert.Contains(t, s1, `xmlns:a="http://a"`)
	assert.Contains(t, s1, `type="a:root"`)
	assert.Contains(t, s1, `ref="b:item"`)
	assert.NotContains(t, s1, "ns1")
	assert.NotContains(t, s1, "tns")
	assert.Contains(t, testutil.ReadFile(t, dir, "schema2.xsd"), `type="b:item"`)

	require.NoError(t, p.RewriteLocations())
	assert.Equal(t, FilenamesRewritten, p.State())
	// References are updated before the files move.
	assert.Contains(t, testutil.ReadFile(t, dir, "schema1.xsd"), `schemaLocation="b.xsd"`)
	assert.True(t, testutil.Exists(t, dir, "schema1.xsd"))
	assert.True(t, testutil.Exists(t, dir, "schema2.xsd"))
	assert.False(t, testutil.Exists(t, dir, "b.xsd"))

	require.NoError(t, p.RenameFiles())
	assert.Equal(t, FilesRenamed, p.State())
	assert.True(t, testutil.Exists(t, dir, "a.xsd"))
	assert.True(t, testutil.Exists(t, dir, "b.xsd"))
	assert.False(t, testutil.Exists(t, dir, "schema1.xsd"))
	assert.False(t, testutil.Exists(t, dir, "schema2.xsd"))

	result := p.Result()
	assert.Equal(t, []string{filepath.Join(dir, "b.xsd"), filepath.Join(dir, "a.xsd")}, result.Files)
	assert.Equal(t, 1, result.References)
	assert.Equal(t, 2, result.Renamed)
	assert.NotEmpty(t, result.RunID)
}

func TestPipelineStateErrors(t *testing.T) {
	dir := relinkFixture(t)
	p := NewConfig().NewPipeline(dir)
	assert.Error(t, p.RewritePrefixes())
	assert.Error(t, p.RenameFiles())

	require.NoError(t, p.Resolve())
	assert.Error(t, p.Resolve())
	require.NoError(t, p.RewriteLocations())
	assert.Error(t, p.RewritePrefixes(), "stages run in order")
	require.NoError(t, p.RenameFiles())
	assert.Error(t, p.RenameFiles())
}

func TestRun(t *testing.T) {
	dir := relinkFixture(t)
	result, err := Run(dir, Transforms(relinkTransforms...))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Renamed)
	assert.Equal(t, 1, result.References)
	assert.Greater(t, result.PrefixRewrites, 0)
	assert.Zero(t, result.Annotations)

	a := testutil.ReadFile(t, dir, "a.xsd")
	assert.Contains(t, a, `<xs:import namespace="http://b" schemaLocation="b.xsd"/>`)
	assert.Contains(t, a, "\n    <xs:element")
}

func TestRunDocumentation(t *testing.T) {
	dir, _ := personFixture(t)
	result, err := Run(filepath.Join(dir, "schemas"),
		Sources(filepath.Join(dir, "src")),
		Renderer(unixRenderer),
		Transforms(TransformSchema{URI: "http://example.org/people", ToPrefix: "people"}),
	)
	require.NoError(t, err)
	assert.Equal(t, 7, result.Annotations)
	assert.Zero(t, result.Renamed)

	got := testutil.ReadFile(t, dir, "schemas/schema1.xsd")
	assert.Contains(t, got, "<![CDATA[Surname.]]>")
	assert.Contains(t, got, "<![CDATA[Pure red.]]>")
	assert.Contains(t, got, `type="people:person"`)

	// Disabled injection leaves the schema alone.
	dir, _ = personFixture(t)
	result, err = Run(filepath.Join(dir, "schemas"),
		Sources(filepath.Join(dir, "src")),
		InjectDocumentation(false),
	)
	require.NoError(t, err)
	assert.Zero(t, result.Annotations)
	assert.NotContains(t, testutil.ReadFile(t, dir, "schemas/schema1.xsd"), "CDATA")
}

func TestRunConfigurationError(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "missing"), Transforms(
		TransformSchema{URI: "http://a", ToPrefix: "p"},
		TransformSchema{URI: "http://b", ToPrefix: "p"},
	))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRunPrefixInUse(t *testing.T) {
	dir := relinkFixture(t)
	before1 := testutil.ReadFile(t, dir, "schema1.xsd")
	before2 := testutil.ReadFile(t, dir, "schema2.xsd")

	// schema1.xsd binds tns to http://a.
	_, err := Run(dir, Transforms(TransformSchema{URI: "http://b", ToPrefix: "tns", ToFile: "b.xsd"}))
	var inUse *PrefixInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, "http://a", inUse.Bound)
	assert.Equal(t, filepath.Join(dir, "schema1.xsd"), inUse.File)

	assert.Equal(t, before1, testutil.ReadFile(t, dir, "schema1.xsd"))
	assert.Equal(t, before2, testutil.ReadFile(t, dir, "schema2.xsd"))
	assert.False(t, testutil.Exists(t, dir, "b.xsd"))
}

func TestRunSharedNamespace(t *testing.T) {
	dir := testutil.ExtractString(t, `
-- schema1.xsd --
<xs:schema targetNamespace="http://a" xmlns:tns="http://a" xmlns:ns1="http://a" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="root" type="tns:root"/>
  <xs:complexType name="root">
    <xs:sequence>
      <xs:element ref="ns1:root"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>
`)
	_, err := Run(dir, Transforms(TransformSchema{URI: "http://a", ToPrefix: "ns1"}))
	require.NoError(t, err)

	got := testutil.ReadFile(t, dir, "schema1.xsd")
	assert.Equal(t, 1, strings.Count(got, `xmlns:ns1=`), got)
	assert.NotContains(t, got, "tns")
	assert.Contains(t, got, `type="ns1:root"`)
	assert.Contains(t, got, `ref="ns1:root"`)

	r, err := xsd.NewNamespaceResolver(filepath.Join(dir, "schema1.xsd"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ns1", "xs"}, r.Prefixes())
}

func TestRunNoFiles(t *testing.T) {
	dir := relinkFixture(t)
	_, err := Run(dir, SchemaPattern(regexp.MustCompile(`^types[0-9]+\.xsd$`)))
	assert.ErrorContains(t, err, "no files match")
}

func TestCompareNumbered(t *testing.T) {
	names := []string{"schema10.xsd", "schema2.xsd", "schema1.xsd", "schema.xsd", "schema02.xsd"}
	slices.SortFunc(names, compareNumbered)
	assert.Equal(t, []string{"schema.xsd", "schema1.xsd", "schema02.xsd", "schema2.xsd", "schema10.xsd"}, names)
}

func TestConfigOptionRevert(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "    ", cfg.indent)
	prev := cfg.Option(Indent("\t"))
	assert.Equal(t, "\t", cfg.indent)
	cfg.Option(prev)
	assert.Equal(t, "    ", cfg.indent)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "file names rewritten", FilenamesRewritten.String())
	assert.Equal(t, "State(42)", State(42).String())
}
