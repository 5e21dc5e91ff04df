// Package testutil contains common utility functions for unit tests.
package testutil // import "github.com/CognitoIQ/xsdpost/internal/testutil"

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// Extract writes the files of a txtar archive into a new temporary
// directory, which is returned. The directory is removed when the
// test ends.
func Extract(t testing.TB, ar *txtar.Archive) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range ar.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// ExtractFile is like Extract, reading the archive from a file.
func ExtractFile(t testing.TB, archive string) string {
	t.Helper()
	ar, err := txtar.ParseFile(archive)
	if err != nil {
		t.Fatal(err)
	}
	return Extract(t, ar)
}

// ExtractString is like Extract, reading the archive from a string.
func ExtractString(t testing.TB, archive string) string {
	t.Helper()
	return Extract(t, txtar.Parse([]byte(archive)))
}

// ReadFile returns the contents of a file below dir.
func ReadFile(t testing.TB, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Exists reports whether a file exists below dir.
func Exists(t testing.TB, dir, name string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return err == nil
}
