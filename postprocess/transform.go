package postprocess

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// A TransformSchema asks for the schema of one namespace to be given a
// new prefix, a new file name, or both.
type TransformSchema struct {
	// URI is the namespace the transform applies to.
	URI string `json:"uri" yaml:"uri" validate:"required"`
	// ToPrefix, if set, replaces the prefix the namespace is bound
	// to in every schema file.
	ToPrefix string `json:"toPrefix,omitempty" yaml:"toPrefix,omitempty" validate:"omitempty,ncname"`
	// ToFile, if set, is the new name of the schema file whose
	// target namespace is URI. References to it from other files
	// are updated.
	ToFile string `json:"toFile,omitempty" yaml:"toFile,omitempty" validate:"omitempty,basename"`
}

func (t TransformSchema) String() string {
	var parts []string
	parts = append(parts, "uri="+t.URI)
	if t.ToPrefix != "" {
		parts = append(parts, "prefix="+t.ToPrefix)
	}
	if t.ToFile != "" {
		parts = append(parts, "file="+t.ToFile)
	}
	return strings.Join(parts, ",")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("ncname", func(fl validator.FieldLevel) bool {
		return isPrefix(fl.Field().String())
	}))
	must(v.RegisterValidation("basename", func(fl validator.FieldLevel) bool {
		return isBaseName(fl.Field().String())
	}))
	return v
}

// isPrefix reports whether s may be declared as a namespace prefix:
// an NCName that does not start with "xml".
func isPrefix(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)):
		default:
			return false
		}
	}
	return true
}

func isBaseName(s string) bool {
	return s != "" && s != "." && s != ".." &&
		!strings.ContainsAny(s, `/\`) && filepath.Base(s) == s
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "ncname":
		return "is not a valid namespace prefix"
	case "basename":
		return "is not a plain file name"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// ValidateTransforms checks a transform list before it is applied.
// Every entry needs a URI and at least one of ToPrefix and ToFile, and
// no URI, prefix or file name may appear in two entries. The returned
// error joins a *ConfigError for each problem found.
func ValidateTransforms(list []TransformSchema) error {
	var errs []error
	for i, t := range list {
		if err := validate.Struct(t); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return err
			}
			for _, fe := range fieldErrs {
				errs = append(errs, &ConfigError{
					Index:      i,
					OtherIndex: -1,
					Field:      fe.Field(),
					Value:      fmt.Sprint(fe.Value()),
					Reason:     describeTag(fe),
				})
			}
		}
		if t.ToPrefix == "" && t.ToFile == "" {
			errs = append(errs, &ConfigError{
				Index:      i,
				OtherIndex: -1,
				Field:      "toPrefix",
				Reason:     "or toFile is required",
			})
		}
	}

	fields := []struct {
		name  string
		value func(TransformSchema) string
	}{
		{"uri", func(t TransformSchema) string { return t.URI }},
		{"toPrefix", func(t TransformSchema) string { return t.ToPrefix }},
		{"toFile", func(t TransformSchema) string { return t.ToFile }},
	}
	for _, f := range fields {
		seen := make(map[string]int)
		for i, t := range list {
			v := f.value(t)
			if v == "" {
				continue
			}
			if first, ok := seen[v]; ok {
				errs = append(errs, &ConfigError{Index: i, OtherIndex: first, Field: f.name, Value: v})
				continue
			}
			seen[v] = i
		}
	}
	return errors.Join(errs...)
}

func prefixesByURI(list []TransformSchema) map[string]string {
	m := make(map[string]string)
	for _, t := range list {
		if t.ToPrefix != "" {
			m[t.URI] = t.ToPrefix
		}
	}
	return m
}

func filesByURI(list []TransformSchema) map[string]string {
	m := make(map[string]string)
	for _, t := range list {
		if t.ToFile != "" {
			m[t.URI] = t.ToFile
		}
	}
	return m
}
