// Package xsd reads the structure of XML Schema documents held as
// xmltree Documents.
//
// The xsd package does not model schema components. It answers the
// questions a schema rewriter needs: which namespaces a file declares
// and under which prefixes, which other documents it imports, and where
// in the document an element sits.
package xsd // import "github.com/CognitoIQ/xsdpost/xsd"

import (
	"fmt"
	"strings"

	"github.com/CognitoIQ/xsdpost/xmltree"
)

// SchemaNS is the namespace of XML Schema documents.
const SchemaNS = "http://www.w3.org/2001/XMLSchema"

// A Ref contains the canonical namespace of a schema document, and
// possibly a URI to retrieve the document from. It is not required
// for XML Schema documents to provide the location of schema that
// they import.
type Ref struct {
	Namespace string `xml:"namespace,attr"`
	Location  string `xml:"schemaLocation,attr"`
}

// IsSchema returns true if el is an <xs:schema> element.
func IsSchema(el *xmltree.Element) bool {
	return el != nil && el.Local == "schema" && el.Name().Space == SchemaNS
}

// Imports returns the namespaces imported by the top-level <import>
// elements of a schema document, along with their schemaLocation, in
// document order. <include> elements are returned with the document's
// own target namespace.
func Imports(doc *xmltree.Document) ([]Ref, error) {
	if !IsSchema(doc.Root) {
		return nil, fmt.Errorf("root element <%s> is not an XML Schema", doc.Root.QName())
	}
	var v struct {
		Imports  []Ref `xml:"http://www.w3.org/2001/XMLSchema import"`
		Includes []Ref `xml:"http://www.w3.org/2001/XMLSchema include"`
	}
	if err := xmltree.Unmarshal(doc.Root, &v); err != nil {
		return nil, err
	}
	tns := doc.Root.Attr("", "targetNamespace")
	for _, inc := range v.Includes {
		v.Imports = append(v.Imports, Ref{Namespace: tns, Location: inc.Location})
	}
	return v.Imports, nil
}

// Path describes the position of el in its document as a trail of
// element names, naming each step that has a name attribute:
//
//	schema>complexType(person)>sequence>element(lastName)
func Path(el *xmltree.Element) string {
	var breadcrumbs []string
	for e := el; e != nil; e = e.Parent() {
		piece := e.Local
		if name := e.Attr("", "name"); name != "" {
			piece = fmt.Sprintf("%s(%s)", piece, name)
		}
		breadcrumbs = append(breadcrumbs, piece)
	}
	for i, j := 0, len(breadcrumbs)-1; i < j; i, j = i+1, j-1 {
		breadcrumbs[i], breadcrumbs[j] = breadcrumbs[j], breadcrumbs[i]
	}
	return strings.Join(breadcrumbs, ">")
}
