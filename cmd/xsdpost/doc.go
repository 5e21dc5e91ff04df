/*
xsdpost rewrites the XML Schema files a schema generator writes for a
set of Java classes, so that they can be published.

Usage:

	xsdpost run [-s path] [-t transform] [--transform-file file] dir
	xsdpost namespaces dir
	xsdpost docs path ...

The run command processes the files of dir whose name matches
--pattern (by default schema1.xsd, schema2.xsd and so on), in three
steps. First, the documentation comments of the Java sources given
with -s are injected into the declarations generated from the
documented classes, fields, getters and enum constants, as
<xs:annotation><xs:documentation> blocks. Then each namespace named by
a transform gets a new prefix. Finally, files are renamed, and the
imports referring to them updated.

A transform is given on the command line as

	uri=http://example.org/people,prefix=people,file=people.xsd

where either prefix or file may be left out. Transforms can also be
read from a JSON or YAML file:

	transforms:
	  - uri: http://example.org/people
	    toPrefix: people
	    toFile: people.xsd

Defaults for the flags are read from the environment variables
XSDPOST_RENDERER, XSDPOST_VERBOSITY, XSDPOST_INDENT,
XSDPOST_SCHEMA_PATTERN, XSDPOST_TRANSFORM_FILE, XSDPOST_LOG_FILE and
XSDPOST_NO_DOCS.

The namespaces command prints the namespace declarations of each file,
and the docs command the documentation found in Java sources, without
modifying anything.
*/
package main
