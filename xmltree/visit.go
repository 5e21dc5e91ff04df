package xmltree

// A Visitor selects and modifies nodes during a call to Visit. Process
// is only called for nodes for which Accept returns true. Process may
// modify the tree; see Visit for what it sees of those changes.
type Visitor interface {
	Accept(n Node) bool
	Process(n Node) error
}

// Visit applies v to el, then to each of el's attributes in document
// order, and, if recurse is true, to each child element in order, depth
// first. Character data, comments and processing instructions are not
// visited.
//
// Attributes and children of an element are read before the element
// is processed, so nodes that Process inserts into it are not visited
// during the same call. Visit does not guard against Process removing siblings
// that have not been visited yet; they are still visited, detached.
//
// Visit stops at the first error returned by Process and returns it.
func Visit(el *Element, recurse bool, v Visitor) error {
	return visit(el, recurse, v, 0)
}

func visit(el *Element, recurse bool, v Visitor, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	attrs := append([]*Attr(nil), el.Attrs...)
	children := el.ChildElements()
	if v.Accept(el) {
		if err := v.Process(el); err != nil {
			return err
		}
	}
	for _, a := range attrs {
		if v.Accept(a) {
			if err := v.Process(a); err != nil {
				return err
			}
		}
	}
	if !recurse {
		return nil
	}
	for _, child := range children {
		if err := visit(child, recurse, v, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// VisitorFuncs adapts a pair of functions to the Visitor interface.
type VisitorFuncs struct {
	AcceptFunc  func(Node) bool
	ProcessFunc func(Node) error
}

func (f VisitorFuncs) Accept(n Node) bool {
	if f.AcceptFunc == nil {
		return true
	}
	return f.AcceptFunc(n)
}

func (f VisitorFuncs) Process(n Node) error {
	if f.ProcessFunc == nil {
		return nil
	}
	return f.ProcessFunc(n)
}
