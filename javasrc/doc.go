// Package javasrc scans Java source files for the declarations that
// carry documentation: the package, types (nested ones included),
// fields, enum constants and methods, together with their doc comments
// and annotations.
//
// It is not a Java parser. Method bodies, initializers and most
// expressions are skipped by matching brackets, so javasrc accepts
// some programs javac would reject. It should not reject programs
// javac accepts.
package javasrc // import "github.com/CognitoIQ/xsdpost/javasrc"
