package javasrc

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// FindSources returns the .java files under roots, sorted and without
// duplicates. A root may name a single file. Files whose base name or
// slash-separated path relative to their root matches one of the
// exclude patterns (in filepath.Match syntax) are left out.
func FindSources(roots, exclude []string) ([]string, error) {
	var result []string
	excluded := func(root, path string) bool {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		for _, pattern := range exclude {
			if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
				return true
			}
			if ok, _ := filepath.Match(pattern, filepath.ToSlash(rel)); ok {
				return true
			}
		}
		return false
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !excluded(filepath.Dir(root), root) {
				result = append(result, root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || filepath.Ext(path) != ".java" || excluded(root, path) {
				return nil
			}
			result = append(result, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(result)
	return slices.Compact(result), nil
}
