package formfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/formrig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options configures how definition files are read.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, a missing file passed to New causes an error.
	// Default: false (returns empty map). Load always requires the file.
	Required bool
}

// Definition is a parsed form definition.
type Definition struct {
	// Separator between label and error in form errors. Empty keeps the default.
	Separator string

	// Fields in declaration order.
	Fields []formrig.FieldSpec

	values map[string]string
	name   string
}

// document is the on-disk layout shared by all formats.
type document struct {
	Separator string                    `json:"separator" yaml:"separator" toml:"separator"`
	Fields    []formrig.FieldDefinition `json:"fields" yaml:"fields" toml:"fields"`
	Values    map[string]string         `json:"values" yaml:"values" toml:"values"`
}

// Values returns the definition's pre-populated values as a source.
func (d *Definition) Values() formrig.Source {
	return &valueSource{name: d.name, values: d.values}
}

// FormOptions returns the form options the definition implies.
func (d *Definition) FormOptions() []formrig.Option {
	if d.Separator == "" {
		return nil
	}
	return []formrig.Option{formrig.WithSeparator(d.Separator)}
}

// Load reads and resolves the definition at path.
func Load(path string, opts Options) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form definition %s: %w", path, err)
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	def, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("form definition %s: %w", path, err)
	}
	def.name = sourceName(path)
	return def, nil
}

// Parse resolves a definition from data in the given format.
func Parse(data []byte, format string) (*Definition, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, err
	}

	specs, err := formrig.Specs(doc.Fields)
	if err != nil {
		return nil, err
	}

	return &Definition{
		Separator: doc.Separator,
		Fields:    specs,
		values:    doc.Values,
		name:      "file",
	}, nil
}

func decode(data []byte, format string) (document, error) {
	var doc document
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse JSON: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse TOML: %w", err)
		}
	default:
		return doc, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}
	return doc, nil
}

type valueSource struct {
	name   string
	values map[string]string
}

func (v *valueSource) Load(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(v.values))
	for key, value := range v.values {
		out[key] = value
	}
	return out, nil
}

func (v *valueSource) Name() string {
	return v.name
}

type fileSource struct {
	path string
	opts Options
}

// New creates a source reading the values section of a definition file.
// The file's fields are ignored, so a values-only file is valid.
func New(path string, opts Options) formrig.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads the file and returns its values section.
func (f *fileSource) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required form file not found: %s: %w", f.path, err)
			}
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read form file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	doc, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("form file %s: %w", f.path, err)
	}
	if doc.Values == nil {
		return make(map[string]string), nil
	}
	return doc.Values, nil
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return sourceName(f.path)
}

func sourceName(path string) string {
	return "file:" + filepath.Base(path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
