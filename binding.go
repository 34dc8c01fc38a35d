package formrig

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Azhovan/formrig/internal/normalize"
)

// TagName is the struct tag read by Declare and Form.Fill.
const TagName = "form"

// tagConfig holds parsed directives from a struct field's `form` tag.
type tagConfig struct {
	label       string   // Field label (label:Full Name)
	config      string   // Configuration name (config:email)
	strategy    string   // Error strategy (strategy:override:Pick one)
	debounce    string   // Debounce interval (debounce:500ms)
	typ         string   // Field type (type:picker)
	picker      string   // Picker configuration (picker:searchable)
	options     []string // Picker options (options:a,b,c)
	requirement bool     // Show the requirement label (requirement or requirement:true)
	skip        bool     // Tag is "-"
}

// parseTag parses a `form` struct tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "requirement" == "requirement:true")
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}

	if tag == "" {
		return cfg
	}
	if strings.TrimSpace(tag) == "-" {
		cfg.skip = true
		return cfg
	}

	// Parse directives manually to handle values that contain commas
	directives := splitDirectives(tag)

	for _, directive := range directives {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		// Split by colon to separate directive name from value
		parts := strings.SplitN(directive, ":", 2)
		name := strings.TrimSpace(parts[0])
		var value string
		if len(parts) > 1 {
			value = parts[1] // Don't trim value - labels may carry spaces
		}

		switch name {
		case "label":
			cfg.label = strings.TrimSpace(value)
		case "config":
			cfg.config = strings.TrimSpace(value)
		case "strategy":
			cfg.strategy = strings.TrimSpace(value)
		case "debounce":
			cfg.debounce = strings.TrimSpace(value)
		case "type":
			cfg.typ = strings.TrimSpace(value)
		case "picker":
			cfg.picker = strings.TrimSpace(value)
		case "options":
			if value != "" {
				cfg.options = strings.Split(value, ",")
				for i := range cfg.options {
					cfg.options[i] = strings.TrimSpace(cfg.options[i])
				}
			}
		case "requirement":
			// Boolean directive: no value or explicit "true" means true
			cfg.requirement = value == "" || value == "true"
		}
	}

	return cfg
}

// greedyDirectives may contain commas in their values. Their value runs
// until the next known directive.
var greedyDirectives = []string{"options:", "strategy:"}

// splitDirectives splits a tag string into individual directives,
// handling the special case where options or override messages contain
// commas.
func splitDirectives(tag string) []string {
	var directives []string
	var current strings.Builder
	greedy := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		if current.Len() == 0 && ch == ' ' {
			continue
		}

		// Check if we're entering a greedy directive
		if !greedy && current.Len() == 0 {
			if d := directiveAt(tag[i:]); d != "" {
				greedy = true
				current.WriteString(d)
				i += len(d) - 1
				continue
			}
		}

		if ch == ',' {
			if greedy {
				// This comma ends the directive only if a known
				// directive follows it
				if startsWithDirective(tag[i+1:]) {
					greedy = false
					directives = append(directives, current.String())
					current.Reset()
				} else {
					current.WriteByte(ch)
				}
			} else {
				directives = append(directives, current.String())
				current.Reset()
			}
		} else {
			current.WriteByte(ch)
		}
	}

	// Add the last directive
	if current.Len() > 0 {
		directives = append(directives, current.String())
	}

	return directives
}

func directiveAt(s string) string {
	for _, d := range greedyDirectives {
		if strings.HasPrefix(s, d) {
			return d
		}
	}
	return ""
}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	directives := []string{"label:", "config:", "strategy:", "debounce:", "type:", "picker:", "options:", "requirement"}
	for _, d := range directives {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}

// Declare derives field specs from the `form` tags of the struct v points
// to. Only tagged string fields become form fields; their current contents
// become initial values. Labels default to the Go field name split into
// words ("FullName" → "Full Name").
//
//	type Signup struct {
//		Email    string `form:"config:email,strategy:highest-priority"`
//		FullName string `form:"config:non-empty,debounce:500ms,requirement"`
//	}
func Declare[T any](v *T) ([]FieldSpec, error) {
	rv, err := structValue(v)
	if err != nil {
		return nil, err
	}

	var specs []FieldSpec
	var fieldErrors []FieldError
	walkTagged(rv, func(field reflect.StructField, value reflect.Value, tags tagConfig) {
		if value.Kind() != reflect.String {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: field.Name,
				Code:      ErrCodeInvalidType,
				Message:   fmt.Sprintf("form fields must be strings, got %s", value.Type()),
			})
			return
		}

		def := FieldDefinition{
			Label:           labelFor(field, tags),
			Value:           value.String(),
			Configuration:   tags.config,
			Strategy:        tags.strategy,
			Debounce:        tags.debounce,
			ShowRequirement: tags.requirement,
			Type:            tags.typ,
			Picker:          tags.picker,
			Options:         tags.options,
		}
		spec, errs := def.Spec(field.Name)
		specs = append(specs, spec)
		fieldErrors = append(fieldErrors, errs...)
	})

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{FieldErrors: fieldErrors}
	}
	if err := checkSpecs(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// Fill copies the current field values into the tagged string fields of
// the struct v points to. Tagged fields without a matching form field are
// reported as a *ValidationError; the others are still filled.
func (f *Form) Fill(v any) error {
	rv, err := structValue(v)
	if err != nil {
		return err
	}

	var fieldErrors []FieldError
	walkTagged(rv, func(field reflect.StructField, value reflect.Value, tags tagConfig) {
		if value.Kind() != reflect.String {
			return
		}
		label := labelFor(field, tags)
		formField, ok := f.Field(label)
		if !ok {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: field.Name,
				Code:      ErrCodeUnknownKey,
				Message:   fmt.Sprintf("form has no field %q", label),
			})
			return
		}
		value.SetString(formField.Value())
	})

	if len(fieldErrors) > 0 {
		return &ValidationError{FieldErrors: fieldErrors}
	}
	return nil
}

func structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, ErrNilTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNilTarget
	}
	return rv, nil
}

// walkTagged calls fn for every exported field carrying a `form` tag, in
// declaration order.
func walkTagged(rv reflect.Value, fn func(reflect.StructField, reflect.Value, tagConfig)) {
	t := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup(TagName)
		if !ok {
			continue
		}
		tags := parseTag(tag)
		if tags.skip {
			continue
		}
		fn(field, rv.Field(i), tags)
	}
}

func labelFor(field reflect.StructField, tags tagConfig) string {
	if tags.label != "" {
		return tags.label
	}
	return normalize.DeriveLabel(field.Name)
}
