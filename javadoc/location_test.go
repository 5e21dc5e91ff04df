package javadoc

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationPath(t *testing.T) {
	person := ClassLocation("org.example", []string{"Person"}, "")
	human := ClassLocation("org.example", []string{"Person"}, "human")
	address := ClassLocation("org.example", []string{"Person", "Address"}, "")

	tests := []struct {
		loc  Location
		path string
	}{
		{PackageLocation("org.example"), "org.example"},
		{person, "org.example.Person"},
		{human, "org.example.human"},
		{address, "org.example.Person.Address"},
		{ClassLocation("", []string{"Top"}, ""), "Top"},
		{FieldLocation(person, "lastName", ""), "org.example.Person#lastName"},
		{FieldLocation(human, "lastName", "surname"), "org.example.human#surname"},
		{MethodLocation(person, "getLastName", "", nil), "org.example.Person#getLastName()"},
		{MethodLocation(person, "put", "", []string{"java.util.Map<String, Integer>", "int..."}), "org.example.Person#put(Map,int[])"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.path, tt.loc.Path())
	}
}

func TestLocationIdentity(t *testing.T) {
	person := ClassLocation("p", []string{"Person"}, "")

	// A field literally named "get" and a method get() differ.
	field := FieldLocation(person, "get", "")
	method := MethodLocation(person, "get", "", nil)
	assert.False(t, Same(field, method))
	assert.NotEqual(t, 0, Compare(field, method))

	// Renamed members are identified by their XML name.
	assert.True(t, Same(FieldLocation(person, "name", "lastName"), FieldLocation(person, "lastName", "")))
	assert.True(t, Same(ClassLocation("p", []string{"PersonImpl"}, "Person"), person))

	// Overloads differ by parameters.
	assert.False(t, Same(
		MethodLocation(person, "set", "", []string{"int"}),
		MethodLocation(person, "set", "", []string{"String"})))
}

func TestLocationOrder(t *testing.T) {
	person := ClassLocation("p", []string{"Person"}, "")
	locs := []Location{
		MethodLocation(person, "getAge", "", nil),
		FieldLocation(person, "age", ""),
		ClassLocation("p", []string{"Address"}, ""),
		person,
		PackageLocation("p"),
		PackageLocation("a"),
	}
	slices.SortFunc(locs, Compare)
	var paths []string
	for _, l := range locs {
		paths = append(paths, l.Kind.String()+" "+l.Path())
	}
	assert.Equal(t, []string{
		"package a",
		"package p",
		"class p.Address",
		"class p.Person",
		"field p.Person#age",
		"method p.Person#getAge()",
	}, paths)
}

func TestPropertyName(t *testing.T) {
	class := ClassLocation("p", []string{"C"}, "")
	tests := []struct {
		method, rename, want string
	}{
		{"getLastName", "", "lastName"},
		{"isActive", "", "active"},
		{"getURL", "", "URL"},
		{"get", "", "get"},
		{"getter", "", "getter"},
		{"island", "", "island"},
		{"size", "", "size"},
		{"getName", "fullName", "fullName"},
	}
	for _, tt := range tests {
		loc := MethodLocation(class, tt.method, tt.rename, nil)
		assert.Equal(t, tt.want, loc.PropertyName(), tt.method)
	}
	assert.Equal(t, "x", FieldLocation(class, "y", "x").PropertyName())
}

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"int":                                "int",
		"String[]":                           "String[]",
		"String...":                          "String[]",
		"java.util.List<java.lang.String>":   "List",
		"final Map.Entry<K, V>[]":            "Entry[]",
		"@NonNull String":                    "String",
		"@Size(max = 3) java.lang.String []": "String[]",
		"java.util.@NonNull List<T>...":      "List[]",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeType(in), in)
	}
}
