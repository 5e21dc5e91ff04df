package xmltree

import (
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	seen []string
}

func (r *recorder) Accept(n Node) bool { return true }

func (r *recorder) Process(n Node) error {
	switch n := n.(type) {
	case *Element:
		r.seen = append(r.seen, "<"+n.QName()+">")
	case *Attr:
		r.seen = append(r.seen, "@"+n.QName())
	default:
		r.seen = append(r.seen, "?")
	}
	return nil
}

func TestVisitOrder(t *testing.T) {
	root := parseDoc(t, []byte(`<a x="1" y="2">text<b z="3"><c/></b><!-- c --><d/></a>`))

	var r recorder
	if err := Visit(root, true, &r); err != nil {
		t.Fatal(err)
	}
	want := []string{"<a>", "@x", "@y", "<b>", "@z", "<c>", "<d>"}
	if !reflect.DeepEqual(r.seen, want) {
		t.Errorf("visited %v, wanted %v", r.seen, want)
	}

	r.seen = nil
	if err := Visit(root, false, &r); err != nil {
		t.Fatal(err)
	}
	want = []string{"<a>", "@x", "@y"}
	if !reflect.DeepEqual(r.seen, want) {
		t.Errorf("non-recursive visit saw %v, wanted %v", r.seen, want)
	}
}

func TestVisitSkipsInsertedNodes(t *testing.T) {
	root := parseDoc(t, []byte(`<a><b/></a>`))
	var visited []string
	err := Visit(root, true, VisitorFuncs{
		AcceptFunc: func(n Node) bool {
			_, ok := n.(*Element)
			return ok
		},
		ProcessFunc: func(n Node) error {
			el := n.(*Element)
			visited = append(visited, el.Local)
			el.PrependChild(NewElement("", "inserted"))
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(visited, []string{"a", "b"}) {
		t.Errorf("visited %v", visited)
	}
	if s := root.String(); s != `<a><inserted/><b><inserted/></b></a>` {
		t.Errorf("got %s", s)
	}
}

func TestVisitStopsOnError(t *testing.T) {
	root := parseDoc(t, []byte(`<a><b/><c/></a>`))
	stop := errors.New("stop")
	var visited []string
	err := Visit(root, true, VisitorFuncs{
		ProcessFunc: func(n Node) error {
			if el, ok := n.(*Element); ok {
				visited = append(visited, el.Local)
				if el.Local == "b" {
					return stop
				}
			}
			return nil
		},
	})
	if err != stop {
		t.Errorf("Visit returned %v, wanted %v", err, stop)
	}
	if !reflect.DeepEqual(visited, []string{"a", "b"}) {
		t.Errorf("visited %v after error", visited)
	}
}
