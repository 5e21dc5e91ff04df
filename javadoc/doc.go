// Package javadoc indexes the documentation comments of Java source
// files by the XML names the declarations are bound to, and renders
// them for inclusion in XML Schema annotations.
//
// An Index is built once from a set of source files with Extract or
// ExtractFiles, and is read-only afterwards. Each entry pairs a
// Location, identifying a package, type, field or method, with a
// Record holding the comment text and block tags of its doc comment.
package javadoc // import "github.com/CognitoIQ/xsdpost/javadoc"
