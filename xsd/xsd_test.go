package xsd

import (
	"reflect"
	"testing"

	"github.com/CognitoIQ/xsdpost/xmltree"
)

const sampleSchema = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<xs:schema version="1.0" targetNamespace="http://a" xmlns:tns="http://a"
  xmlns:ns1="http://b" xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:import namespace="http://b" schemaLocation="schema2.xsd"/>
  <xs:include schemaLocation="common.xsd"/>
  <xs:element name="person" type="tns:person"/>
  <xs:complexType name="person">
    <xs:sequence>
      <xs:element name="lastName" type="xs:string" minOccurs="0"/>
      <xs:element name="address">
        <xs:complexType>
          <xs:attribute name="zip" type="xs:string"/>
        </xs:complexType>
      </xs:element>
    </xs:sequence>
  </xs:complexType>
  <xs:simpleType name="color">
    <xs:restriction base="xs:string">
      <xs:enumeration value="RED"/>
      <xs:enumeration value="GREEN"/>
    </xs:restriction>
  </xs:simpleType>
  <xs:simpleType name="names">
    <xs:list itemType="xs:string"/>
  </xs:simpleType>
</xs:schema>`

func parseSample(t *testing.T) *xmltree.Document {
	t.Helper()
	doc, err := xmltree.Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestImports(t *testing.T) {
	doc := parseSample(t)
	refs, err := Imports(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := []Ref{
		{Namespace: "http://b", Location: "schema2.xsd"},
		{Namespace: "http://a", Location: "common.xsd"},
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("got %+v, wanted %+v", refs, want)
	}

	notSchema, err := xmltree.Parse([]byte(`<root/>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Imports(notSchema); err == nil {
		t.Error("expected an error for a non-schema document")
	}
}

func TestPath(t *testing.T) {
	doc := parseSample(t)
	zip := doc.Root.SearchFunc(And(IsElem(SchemaNS, "attribute"), HasAttrValue("", "name", "zip")))
	if len(zip) != 1 {
		t.Fatalf("found %d zip attributes", len(zip))
	}
	const want = "schema>complexType(person)>sequence>element(address)>complexType>attribute(zip)"
	if got := Path(zip[0]); got != want {
		t.Errorf("got %s, wanted %s", got, want)
	}
}

func TestPredicates(t *testing.T) {
	doc := parseSample(t)
	names := func(els []*xmltree.Element) []string {
		var result []string
		for _, el := range els {
			result = append(result, el.Attr("", "name"))
		}
		return result
	}
	tests := []struct {
		name string
		fn   Predicate
		want []string
	}{
		{"named types", IsNamedType, []string{"person", "color", "names"}},
		{"anonymous types", IsAnonymousType, []string{""}},
		{"enumerations", IsEnumeratedType, []string{"color"}},
		{"imports", IsImport, []string{""}},
		{"elements", IsElem(SchemaNS, "element"), []string{"person", "lastName", "address"}},
	}
	for _, tt := range tests {
		// Search does not descend into matches, so walk manually.
		var found []*xmltree.Element
		xmltree.Visit(doc.Root, true, xmltree.VisitorFuncs{
			ProcessFunc: func(n xmltree.Node) error {
				if el, ok := n.(*xmltree.Element); ok && tt.fn(el) {
					found = append(found, el)
				}
				return nil
			},
		})
		if got := names(found); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %q, wanted %q", tt.name, got, tt.want)
		}
	}
	if !IsSchema(doc.Root) {
		t.Error("IsSchema(root) = false")
	}
}
