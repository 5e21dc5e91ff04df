package postprocess

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/CognitoIQ/xsdpost/xmltree"
	"github.com/CognitoIQ/xsdpost/xsd"
)

// A FilenameRewriter points the schemaLocation of each <import> of a
// renamed namespace at the namespace's new file.
type FilenameRewriter struct {
	// Files maps namespace URIs to file names.
	Files map[string]string

	// Rewritten counts the schemaLocation attributes changed.
	Rewritten int
}

func (f *FilenameRewriter) Accept(n xmltree.Node) bool {
	a, ok := n.(*xmltree.Attr)
	if !ok || a.Prefix != "" || a.Local != "schemaLocation" {
		return false
	}
	imp := a.Parent()
	if imp == nil || !xsd.IsImport(imp) {
		return false
	}
	_, ok = f.Files[imp.Attr("", "namespace")]
	return ok
}

func (f *FilenameRewriter) Process(n xmltree.Node) error {
	a := n.(*xmltree.Attr)
	a.Value = f.Files[a.Parent().Attr("", "namespace")]
	f.Rewritten++
	return nil
}

// A rename moves one schema file.
type rename struct {
	from, to string
	index    int
}

// planRenames decides which of the files, with their resolvers, move
// where. It fails before anything is renamed if two files would get
// the same name, or a file would replace one that is not being
// renamed.
func planRenames(resolvers []*xsd.NamespaceResolver, files map[string]string) ([]rename, error) {
	var plan []rename
	targets := make(map[string]string)
	sources := make(map[string]bool)
	for _, r := range resolvers {
		sources[filepath.Clean(r.Path)] = true
	}
	for i, r := range resolvers {
		name, ok := files[r.LocalNamespace]
		if !ok {
			continue
		}
		from := filepath.Clean(r.Path)
		to := filepath.Join(filepath.Dir(from), name)
		if other, ok := targets[to]; ok {
			return nil, &RenameError{From: from, To: to, Other: other}
		}
		targets[to] = from
		if to == from {
			continue
		}
		if sources[to] {
			return nil, &RenameError{From: from, To: to}
		}
		if _, err := os.Stat(to); err == nil {
			return nil, &RenameError{From: from, To: to}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		plan = append(plan, rename{from: from, to: to, index: i})
	}
	return plan, nil
}
