// Package config reads the settings of the xsdpost command from the
// environment, and transform lists from files.
package config // import "github.com/CognitoIQ/xsdpost/internal/config"

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CognitoIQ/xsdpost/postprocess"
	env "github.com/caarlos0/env/v11"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the name of every environment variable.
const EnvPrefix = "XSDPOST_"

// Config holds the defaults of the command line flags.
type Config struct {
	Renderer      string `env:"RENDERER" envDefault:"default"`
	Verbosity     int    `env:"VERBOSITY" envDefault:"0"`
	Indent        string `env:"INDENT" envDefault:"    "`
	SchemaPattern string `env:"SCHEMA_PATTERN"`
	TransformFile string `env:"TRANSFORM_FILE"`
	LogFile       string `env:"LOG_FILE"`
	NoDocs        bool   `env:"NO_DOCS" envDefault:"false"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from environ, or from the process
// environment if environ is nil.
func LoadFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return nil, err
	}
	if cfg.SchemaPattern == "" {
		cfg.SchemaPattern = postprocess.DefaultSchemaPattern
	}
	return &cfg, nil
}

//go:embed transforms.schema.json
var transformsSchema []byte

const transformsSchemaURL = "https://github.com/CognitoIQ/xsdpost/transforms.schema.json"

var compiledSchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(transformsSchemaURL, bytes.NewReader(transformsSchema)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(transformsSchemaURL)
}

type transformFile struct {
	Transforms []postprocess.TransformSchema `json:"transforms"`
}

// LoadTransforms reads a transform list from a JSON or YAML file,
// chosen by extension. The file must hold an object whose
// "transforms" member is a list of objects with the keys uri,
// toPrefix and toFile. Errors in the content match
// postprocess.ErrConfiguration.
func LoadTransforms(path string) ([]postprocess.TransformSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", path, postprocess.ErrConfiguration, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported transform file extension %q", path, ext)
	}
	list, err := decodeTransforms(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, postprocess.ErrConfiguration, err)
	}
	if err := postprocess.ValidateTransforms(list); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func decodeTransforms(data []byte) ([]postprocess.TransformSchema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := compiledSchema.Validate(v); err != nil {
		return nil, err
	}
	var f transformFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Transforms, nil
}
