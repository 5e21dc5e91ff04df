package dependency

import (
	"reflect"
	"testing"
)

type edge struct {
	target  string
	imports []string
}

var flattenTests = []struct {
	name    string
	edges   []edge
	ordered []string
}{
	{
		name: "imports first",
		edges: []edge{
			{"schema1.xsd", []string{"schema2.xsd", "schema3.xsd"}},
			{"schema2.xsd", []string{"schema3.xsd"}},
			{"schema3.xsd", nil},
			{"schema4.xsd", nil},
		},
		ordered: []string{"schema3.xsd", "schema2.xsd", "schema1.xsd", "schema4.xsd"},
	},
	{
		name: "discovery order",
		edges: []edge{
			{"schema2.xsd", nil},
			{"schema10.xsd", nil},
			{"schema1.xsd", nil},
		},
		ordered: []string{"schema2.xsd", "schema10.xsd", "schema1.xsd"},
	},
	{
		name: "cycle",
		edges: []edge{
			{"a.xsd", []string{"b.xsd"}},
			{"b.xsd", []string{"a.xsd"}},
			{"c.xsd", nil},
		},
		ordered: []string{"b.xsd", "a.xsd", "c.xsd"},
	},
	{
		name: "import not a target",
		edges: []edge{
			{"schema1.xsd", []string{"common.xsd"}},
		},
		ordered: []string{"common.xsd", "schema1.xsd"},
	},
	{
		name: "repeated imports",
		edges: []edge{
			{"schema1.xsd", []string{"schema1.xsd"}},
			{"schema2.xsd", nil},
			{"schema1.xsd", []string{"schema2.xsd", "schema2.xsd"}},
		},
		ordered: []string{"schema2.xsd", "schema1.xsd"},
	},
}

func TestFlatten(t *testing.T) {
	for _, tt := range flattenTests {
		t.Run(tt.name, func(t *testing.T) {
			var graph Graph
			for _, e := range tt.edges {
				graph.Add(e.target, e.imports...)
			}
			var got []string
			graph.Flatten(func(path string) { got = append(got, path) })
			if !reflect.DeepEqual(got, tt.ordered) {
				t.Errorf("got %q, wanted %q", got, tt.ordered)
			}
		})
	}
}

func TestLen(t *testing.T) {
	var graph Graph
	if graph.Len() != 0 {
		t.Errorf("empty graph has Len() = %d", graph.Len())
	}
	graph.Add("schema1.xsd", "schema2.xsd", "common.xsd")
	graph.Add("schema2.xsd")
	graph.Add("schema1.xsd", "schema1.xsd")
	if graph.Len() != 2 {
		t.Errorf("Len() = %d, wanted 2", graph.Len())
	}
}

func TestFlattenEmpty(t *testing.T) {
	var graph Graph
	graph.Flatten(func(path string) {
		t.Errorf("visited %s in an empty graph", path)
	})
}
