package xmltree_test

import (
	"fmt"
	"log"
	"os"

	"github.com/CognitoIQ/xsdpost/xmltree"
)

func ExampleElement_Search() {
	data := `
	  <Staff>
        <Person>
            <FullName>Ira Glass</FullName>
        </Person>
        <Person>
            <FullName>Tom Magliozzi</FullName>
        </Person>
        <Person>
            <FullName>Terry Gross</FullName>
        </Person>
    </Staff>
	`
	doc, err := xmltree.Parse([]byte(data))
	if err != nil {
		log.Fatal(err)
	}
	for _, el := range doc.Root.Search("", "FullName") {
		fmt.Printf("%s\n", el.Text())
	}

	// Output:
	// Ira Glass
	// Tom Magliozzi
	// Terry Gross
}

func ExampleElement_Resolve() {
	data := `
    <collection xmlns:ns="http://ns1.net/">
      <record xmlns:ns="http://ns2.net/">
        <name>Old Town</name>
        <artist xmlns:ns="http://ns3.net/">
          <name>Mustafa Grits</name>
        </artist>
      </record>
      <record xmlns:ns="http://ns4.net/">
        <name>New Town</name>
      </record>
    </collection>
	`
	doc, err := xmltree.Parse([]byte(data))
	if err != nil {
		log.Fatal(err)
	}
	root := doc.Root

	fmt.Printf("%s <%s>\n", root.Resolve("ns:foo").Space, root.Local)
	xmltree.Visit(root, true, xmltree.VisitorFuncs{
		AcceptFunc: func(n xmltree.Node) bool {
			el, ok := n.(*xmltree.Element)
			return ok && el != root
		},
		ProcessFunc: func(n xmltree.Node) error {
			el := n.(*xmltree.Element)
			fmt.Printf("%s <%s>\n", el.Resolve("ns:foo").Space, el.Local)
			return nil
		},
	})

	// Output:
	// http://ns1.net/ <collection>
	// http://ns2.net/ <record>
	// http://ns2.net/ <name>
	// http://ns3.net/ <artist>
	// http://ns3.net/ <name>
	// http://ns4.net/ <record>
	// http://ns4.net/ <name>
}

func ExampleElement_SearchFunc() {
	data := `
	  <People>
        <Person>
            <FullName>Grace R. Emlin</FullName>
            <Email where="home">
                <Addr>gre@example.com</Addr>
            </Email>
            <Email where='work'>
                <Addr>gre@work.com</Addr>
            </Email>
        </Person>
        <Person>
            <FullName>Michael P. Thompson</FullName>
            <Email where="home">
                <Addr>michaelp@example.com</Addr>
            </Email>
            <Email where='work'>
                <Addr>michaelp@work.com</Addr>
                <Addr>michael.thompson@work.com</Addr>
            </Email>
        </Person>
    </People>
	`

	doc, err := xmltree.Parse([]byte(data))
	if err != nil {
		log.Fatal(err)
	}

	workEmails := doc.Root.SearchFunc(func(el *xmltree.Element) bool {
		return el.Local == "Email" && el.Attr("", "where") == "work"
	})

	for _, el := range workEmails {
		for _, addr := range el.ChildElements() {
			fmt.Printf("%s\n", addr.Text())
		}
	}

	// Output:
	// gre@work.com
	// michaelp@work.com
	// michael.thompson@work.com
}

func ExampleVisit() {
	data := `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="a" type="xs:string"/></xs:schema>`
	doc, err := xmltree.Parse([]byte(data))
	if err != nil {
		log.Fatal(err)
	}

	// Rename the "xs" prefix to "xsd" everywhere it is used.
	xmltree.Visit(doc.Root, true, xmltree.VisitorFuncs{
		ProcessFunc: func(n xmltree.Node) error {
			switch n := n.(type) {
			case *xmltree.Element:
				if n.Prefix == "xs" {
					n.Prefix = "xsd"
				}
			case *xmltree.Attr:
				if n.Prefix == "xmlns" && n.Local == "xs" {
					n.Local = "xsd"
				}
			}
			return nil
		},
	})
	os.Stdout.Write(xmltree.Marshal(doc))

	// Output:
	// <xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema"><xsd:element name="a" type="xs:string"/></xsd:schema>
}
