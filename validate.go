package formrig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldDefinition is the textual form of a FieldSpec, as written in
// definition files and struct tags.
type FieldDefinition struct {
	Label           string   `json:"label" yaml:"label" toml:"label"`
	Value           string   `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Configuration   string   `json:"configuration" yaml:"configuration" toml:"configuration"`
	Strategy        string   `json:"strategy,omitempty" yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	Debounce        string   `json:"debounce,omitempty" yaml:"debounce,omitempty" toml:"debounce,omitempty"`
	ShowRequirement bool     `json:"showRequirement,omitempty" yaml:"showRequirement,omitempty" toml:"showRequirement,omitempty"`
	Type            string   `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Picker          string   `json:"picker,omitempty" yaml:"picker,omitempty" toml:"picker,omitempty"`
	Options         []string `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// Spec resolves the definition into a FieldSpec. Every unresolvable
// attribute is reported, with field paths rooted at path.
func (d FieldDefinition) Spec(path string) (FieldSpec, []FieldError) {
	var fieldErrors []FieldError
	spec := FieldSpec{
		Label:           d.Label,
		Value:           d.Value,
		ShowRequirement: d.ShowRequirement,
		Options:         append([]string(nil), d.Options...),
	}

	if d.Configuration == "" {
		fieldErrors = append(fieldErrors, FieldError{
			FieldPath: path + ".configuration",
			Code:      ErrCodeRequired,
			Message:   "configuration is required",
		})
	} else if cfg, err := ConfigurationByName(d.Configuration); err != nil {
		fieldErrors = append(fieldErrors, FieldError{
			FieldPath: path + ".configuration",
			Code:      ErrCodeUnknownConfiguration,
			Message:   fmt.Sprintf("unknown configuration %q", d.Configuration),
			Err:       ErrUnknownConfiguration,
		})
	} else {
		spec.Configuration = cfg
	}

	strategy, err := ParseErrorStrategy(d.Strategy)
	if err != nil {
		fieldErrors = append(fieldErrors, FieldError{
			FieldPath: path + ".strategy",
			Code:      ErrCodeUnknownStrategy,
			Message:   fmt.Sprintf("unknown error strategy %q", d.Strategy),
			Err:       ErrUnknownStrategy,
		})
	}
	spec.ErrorStrategy = strategy

	if d.Debounce != "" {
		debounce, err := time.ParseDuration(strings.TrimSpace(d.Debounce))
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: path + ".debounce",
				Code:      ErrCodeInvalidType,
				Message:   fmt.Sprintf("expected duration, got %q", d.Debounce),
			})
		}
		spec.Debounce = debounce
	}

	typ, err := ParseFieldType(d.Type)
	if err != nil {
		fieldErrors = append(fieldErrors, FieldError{
			FieldPath: path + ".type",
			Code:      ErrCodeInvalidValue,
			Message:   err.Error(),
		})
	}
	spec.Type = typ

	picker, err := ParsePickerConfiguration(d.Picker)
	if err != nil {
		fieldErrors = append(fieldErrors, FieldError{
			FieldPath: path + ".picker",
			Code:      ErrCodeInvalidValue,
			Message:   err.Error(),
		})
	}
	spec.Picker = picker

	return spec, fieldErrors
}

// Specs resolves definitions in order. All failures are collected into one
// *ValidationError.
func Specs(defs []FieldDefinition) ([]FieldSpec, error) {
	specs := make([]FieldSpec, 0, len(defs))
	var fieldErrors []FieldError
	for i, def := range defs {
		spec, errs := def.Spec(fmt.Sprintf("fields[%d]", i))
		specs = append(specs, spec)
		fieldErrors = append(fieldErrors, errs...)
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{FieldErrors: fieldErrors}
	}
	if err := checkSpecs(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// checkSpecs validates field declarations before a form is built.
func checkSpecs(specs []FieldSpec) error {
	var fieldErrors []FieldError
	seen := make(map[string]int, len(specs))

	for i, spec := range specs {
		path := fmt.Sprintf("fields[%d]", i)
		if spec.Label != "" {
			path = spec.Label
		}

		if spec.Label == "" {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: path,
				Code:      ErrCodeRequired,
				Message:   "label is required",
			})
		} else if first, ok := seen[spec.Label]; ok {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: path,
				Code:      ErrCodeDuplicate,
				Message:   fmt.Sprintf("label already declared by fields[%d]", first),
				Err:       ErrDuplicateField,
			})
		} else {
			seen[spec.Label] = i
		}

		if spec.Configuration.IsZero() {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: path,
				Code:      ErrCodeRequired,
				Message:   "configuration is required",
			})
		}

		if spec.Debounce < 0 {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: path,
				Code:      ErrCodeInvalidValue,
				Message:   fmt.Sprintf("debounce must not be negative, got %s", spec.Debounce),
			})
		}

		if spec.Type == FieldPicker && len(spec.Options) == 0 && !spec.Picker.AllowsCustomListObjects() {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: path,
				Code:      ErrCodeRequired,
				Message:   fmt.Sprintf("%s picker needs options", spec.Picker),
			})
		}
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{FieldErrors: fieldErrors}
	}
	return nil
}

// IsDefinitionError reports whether err stems from an invalid form
// definition rather than from I/O.
func IsDefinitionError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
