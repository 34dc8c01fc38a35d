package formrig

import (
	"fmt"
	"strings"
)

// FieldType describes how a field collects its text.
type FieldType int

const (
	FieldText FieldType = iota
	FieldPicker
	FieldDatePicker
)

func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldPicker:
		return "picker"
	case FieldDatePicker:
		return "date-picker"
	default:
		return "unknown"
	}
}

// ParseFieldType parses "text", "picker" or "date-picker". Empty means text.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "text":
		return FieldText, nil
	case "picker":
		return FieldPicker, nil
	case "date-picker", "datepicker":
		return FieldDatePicker, nil
	default:
		return FieldText, fmt.Errorf("formrig: unknown field type %q", s)
	}
}

func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PickerKind tags the picker configuration variants.
type PickerKind int

const (
	PickerStandard PickerKind = iota
	PickerSearchable
	PickerCustomizable
	PickerComplete
)

// PickerConfiguration describes how a picker field presents its options.
type PickerConfiguration struct {
	Kind PickerKind
}

// AllowsCustomListObjects reports whether values outside the option list
// may be entered.
func (p PickerConfiguration) AllowsCustomListObjects() bool {
	return p.Kind == PickerCustomizable || p.Kind == PickerComplete
}

// AllowsListSearch reports whether the option list is searchable.
func (p PickerConfiguration) AllowsListSearch() bool {
	return p.Kind != PickerStandard
}

func (p PickerConfiguration) String() string {
	switch p.Kind {
	case PickerStandard:
		return "standard"
	case PickerSearchable:
		return "searchable"
	case PickerCustomizable:
		return "customizable"
	case PickerComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ParsePickerConfiguration parses the textual picker name. Empty means
// standard.
func ParsePickerConfiguration(s string) (PickerConfiguration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return PickerConfiguration{Kind: PickerStandard}, nil
	case "searchable":
		return PickerConfiguration{Kind: PickerSearchable}, nil
	case "customizable":
		return PickerConfiguration{Kind: PickerCustomizable}, nil
	case "complete":
		return PickerConfiguration{Kind: PickerComplete}, nil
	default:
		return PickerConfiguration{}, fmt.Errorf("formrig: unknown picker configuration %q", s)
	}
}

func (p PickerConfiguration) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PickerConfiguration) UnmarshalText(text []byte) error {
	parsed, err := ParsePickerConfiguration(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
