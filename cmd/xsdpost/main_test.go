package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/CognitoIQ/xsdpost/internal/config"
	"github.com/CognitoIQ/xsdpost/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const project = `
-- src/shop/Item.java --
package shop;

/** Something for sale. */
public class Item {
    /** Price in cents. */
    private int price;
}
-- xsd/schema1.xsd --
<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<xs:schema version="1.0" targetNamespace="urn:shop" xmlns:tns="urn:shop" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:complexType name="item">
    <xs:sequence>
      <xs:element name="price" type="xs:int"/>
    </xs:sequence>
  </xs:complexType>
</xs:schema>
-- transforms.yaml --
transforms:
  - uri: urn:shop
    toPrefix: shop
    toFile: shop.xsd
`

func execute(t *testing.T, environ map[string]string, args ...string) (string, error) {
	t.Helper()
	cfg, err := config.LoadFrom(environ)
	require.NoError(t, err)
	cmd := newRootCmd(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestRunCmd(t *testing.T) {
	dir := testutil.ExtractString(t, project)
	out, err := execute(t, map[string]string{},
		"run",
		"--source", filepath.Join(dir, "src"),
		"--transform-file", filepath.Join(dir, "transforms.yaml"),
		filepath.Join(dir, "xsd"),
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, filepath.Join(dir, "xsd", "shop.xsd"))
	assert.Contains(t, out, "2 annotations")
	assert.Contains(t, out, "1 files renamed")

	got := testutil.ReadFile(t, dir, "xsd/shop.xsd")
	assert.Contains(t, got, "<![CDATA[Price in cents.]]>")
	assert.Contains(t, got, `xmlns:shop="urn:shop"`)
}

func TestRunCmdEnvironment(t *testing.T) {
	dir := testutil.ExtractString(t, project)
	out, err := execute(t, map[string]string{
		"XSDPOST_NO_DOCS":        "true",
		"XSDPOST_TRANSFORM_FILE": filepath.Join(dir, "transforms.yaml"),
	}, "run", "-s", filepath.Join(dir, "src"), filepath.Join(dir, "xsd"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 annotations")
	assert.True(t, testutil.Exists(t, dir, "xsd/shop.xsd"))
}

func TestRunCmdErrors(t *testing.T) {
	dir := testutil.ExtractString(t, project)
	xsdDir := filepath.Join(dir, "xsd")
	for _, args := range [][]string{
		{"run", "--renderer", "fancy", xsdDir},
		{"run", "--pattern", "(", xsdDir},
		{"run", "-t", "prefix=x", xsdDir},
		// The transform file already names urn:shop.
		{"run", "--transform-file", filepath.Join(dir, "transforms.yaml"), "-t", "uri=urn:shop,prefix=s", xsdDir},
		{"run", "-t", "uri=urn:shop,prefix=1x", xsdDir},
		{"run"},
	} {
		_, err := execute(t, map[string]string{}, args...)
		assert.Error(t, err, args)
	}
	assert.True(t, testutil.Exists(t, dir, "xsd/schema1.xsd"))
}

func TestNamespacesCmd(t *testing.T) {
	dir := testutil.ExtractString(t, project)
	out, err := execute(t, map[string]string{}, "namespaces", filepath.Join(dir, "xsd"))
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^schema1\.xsd +urn:shop$`, out)
	assert.Regexp(t, `(?m)^  tns +urn:shop$`, out)
	assert.Regexp(t, `(?m)^  xs +http://www\.w3\.org/2001/XMLSchema$`, out)
}

func TestDocsCmd(t *testing.T) {
	dir := testutil.ExtractString(t, project)
	out, err := execute(t, map[string]string{}, "docs", filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Contains(t, out, "class shop.Item\n\tSomething for sale.\n")
	assert.Contains(t, out, "field shop.Item#price\n\tPrice in cents.\n")
}
