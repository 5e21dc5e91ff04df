// Package dependency orders schema files so that each file comes after
// the files it imports.
package dependency // import "github.com/CognitoIQ/xsdpost/internal/dependency"

import "slices"

// A Graph is a collection of schema files, identified by path, and the
// files each of them imports. The zero value is an empty graph.
//
// Files and their imports are kept in the order they were added, so
// that files in no import relation keep their discovery order.
type Graph struct {
	targets []string
	imports map[string][]string
}

// Len returns the number of files added as targets.
func (g *Graph) Len() int {
	return len(g.targets)
}

// Add adds the file target to the graph, with the files it imports.
// Adding a file again appends imports not already recorded. A file
// importing itself is ignored.
func (g *Graph) Add(target string, imports ...string) {
	if g.imports == nil {
		g.imports = make(map[string][]string)
	}
	deps, ok := g.imports[target]
	if !ok {
		g.targets = append(g.targets, target)
	}
	for _, dep := range imports {
		if dep != target && !slices.Contains(deps, dep) {
			deps = append(deps, dep)
		}
	}
	g.imports[target] = deps
}

// Flatten calls walk on each file in the graph, imported files before
// the files importing them. Among unrelated files, the order of Add is
// kept.
//
// Every file is visited once; import cycles are broken at the first
// file of the cycle that was reached.
func (g *Graph) Flatten(walk func(path string)) {
	visited := make(map[string]bool, len(g.imports))
	var visit func(string)
	visit = func(path string) {
		if visited[path] {
			return
		}
		visited[path] = true
		for _, dep := range g.imports[path] {
			visit(dep)
		}
		walk(path)
	}
	for _, path := range g.targets {
		visit(path)
	}
}
