package formrig

import (
	"fmt"
	"strings"

	"github.com/Azhovan/formrig/checks"
)

// Requirement labels shown as placeholders.
const (
	RequiredLabel = "Required"
	OptionalLabel = "Optional"
)

// ConfigurationKind tags the built-in configuration variants.
type ConfigurationKind int

const (
	ConfigurationCustom ConfigurationKind = iota
	ConfigurationDate
	ConfigurationPhoneNumber
	ConfigurationNonEmpty
	ConfigurationOptional
	ConfigurationEmail
	ConfigurationPostalCode
)

var configurationKindNames = map[ConfigurationKind]string{
	ConfigurationCustom:      "custom",
	ConfigurationDate:        "date",
	ConfigurationPhoneNumber: "phone-number",
	ConfigurationNonEmpty:    "non-empty",
	ConfigurationOptional:    "optional",
	ConfigurationEmail:       "email",
	ConfigurationPostalCode:  "postal-code",
}

func (k ConfigurationKind) String() string {
	if name, ok := configurationKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Configuration is the fixed rule set and display policy attached to a
// field. Values are immutable: rules are copied in and out.
type Configuration struct {
	kind        ConfigurationKind
	name        string
	rules       []Rule
	placeholder string
	transform   func(string) string
}

// ConfigurationOption customizes a configuration at construction.
type ConfigurationOption func(*Configuration)

// WithPlaceholder sets the requirement label shown for the field.
func WithPlaceholder(placeholder string) ConfigurationOption {
	return func(c *Configuration) { c.placeholder = placeholder }
}

// WithTransform sets the display normalization applied after each
// validation pass. fn must be idempotent.
func WithTransform(fn func(string) string) ConfigurationOption {
	return func(c *Configuration) { c.transform = fn }
}

// NewConfiguration builds a custom configuration. The placeholder defaults
// to RequiredLabel and the transform to identity.
func NewConfiguration(name string, rules []Rule, opts ...ConfigurationOption) Configuration {
	return newConfiguration(ConfigurationCustom, name, rules, opts)
}

func newConfiguration(kind ConfigurationKind, name string, rules []Rule, opts []ConfigurationOption) Configuration {
	c := Configuration{
		kind:        kind,
		name:        name,
		rules:       append([]Rule(nil), rules...),
		placeholder: RequiredLabel,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func builtinConfiguration(kind ConfigurationKind, rules []Rule, opts ...ConfigurationOption) Configuration {
	return newConfiguration(kind, kind.String(), rules, opts)
}

// DateConfiguration requires a MM/dd/yyyy birth date of an adult customer.
func DateConfiguration() Configuration {
	return builtinConfiguration(ConfigurationDate, []Rule{RequiredRule(), CustomerAgeRule()})
}

// PhoneNumberConfiguration requires a phone number and reformats it.
func PhoneNumberConfiguration() Configuration {
	return builtinConfiguration(ConfigurationPhoneNumber,
		[]Rule{RequiredRule(), PhoneNumberRule()},
		WithTransform(checks.FormatPhoneNumber))
}

// NonEmptyConfiguration requires any text.
func NonEmptyConfiguration() Configuration {
	return builtinConfiguration(ConfigurationNonEmpty, []Rule{RequiredRule()})
}

// OptionalConfiguration accepts anything.
func OptionalConfiguration() Configuration {
	return builtinConfiguration(ConfigurationOptional, []Rule{OptionalRule()}, WithPlaceholder(OptionalLabel))
}

// EmailConfiguration requires an email address.
func EmailConfiguration() Configuration {
	return builtinConfiguration(ConfigurationEmail, []Rule{RequiredRule(), EmailRule()})
}

// PostalCodeConfiguration requires a US or Canadian postal code.
func PostalCodeConfiguration() Configuration {
	return builtinConfiguration(ConfigurationPostalCode, []Rule{RequiredRule(), PostalCodeRule()})
}

// ConfigurationByKind returns the built-in configuration for kind.
func ConfigurationByKind(kind ConfigurationKind) (Configuration, error) {
	switch kind {
	case ConfigurationDate:
		return DateConfiguration(), nil
	case ConfigurationPhoneNumber:
		return PhoneNumberConfiguration(), nil
	case ConfigurationNonEmpty:
		return NonEmptyConfiguration(), nil
	case ConfigurationOptional:
		return OptionalConfiguration(), nil
	case ConfigurationEmail:
		return EmailConfiguration(), nil
	case ConfigurationPostalCode:
		return PostalCodeConfiguration(), nil
	default:
		return Configuration{}, fmt.Errorf("%w: %s", ErrUnknownConfiguration, kind)
	}
}

// ConfigurationByName resolves a built-in configuration from its textual
// name ("email", "phone-number", ...). Case and underscores are ignored,
// and the camel-case spellings phoneNumber, nonEmpty and postalCode work too.
func ConfigurationByName(name string) (Configuration, error) {
	needle := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for kind, known := range configurationKindNames {
		if kind == ConfigurationCustom {
			continue
		}
		if needle == known || needle == strings.ReplaceAll(known, "-", "") {
			return ConfigurationByKind(kind)
		}
	}
	return Configuration{}, fmt.Errorf("%w: %q", ErrUnknownConfiguration, name)
}

func (c Configuration) Kind() ConfigurationKind { return c.kind }
func (c Configuration) Name() string            { return c.name }
func (c Configuration) Placeholder() string     { return c.placeholder }

// RequirementLabel is the text identifying the field's requirement, such as
// "Required" or "Optional".
func (c Configuration) RequirementLabel() string { return c.placeholder }

// Rules returns a copy of the ordered rule list.
func (c Configuration) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Apply runs the transform on text.
func (c Configuration) Apply(text string) string {
	if c.transform == nil {
		return text
	}
	return c.transform(text)
}

// IsZero reports whether c is the zero Configuration.
func (c Configuration) IsZero() bool {
	return c.name == "" && len(c.rules) == 0 && c.transform == nil && c.placeholder == ""
}

func (c Configuration) String() string {
	return c.name
}

func (c Configuration) MarshalText() ([]byte, error) {
	return []byte(c.name), nil
}

// UnmarshalText resolves built-in configurations by name.
func (c *Configuration) UnmarshalText(text []byte) error {
	parsed, err := ConfigurationByName(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
