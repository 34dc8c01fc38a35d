package formrig

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azhovan/formrig/checks"
)

// RuleKind tags the built-in rule variants.
type RuleKind int

const (
	// RuleCustom is a caller-defined rule.
	RuleCustom RuleKind = iota
	// RuleRequired rejects empty text.
	RuleRequired
	// RuleEmail accepts email addresses.
	RuleEmail
	// RuleCustomerAge accepts MM/dd/yyyy birth dates of adults.
	RuleCustomerAge
	// RulePostalCode accepts US and Canadian postal codes.
	RulePostalCode
	// RulePhoneNumber accepts phone numbers.
	RulePhoneNumber
	// RuleOptional accepts everything.
	RuleOptional
)

var ruleKindNames = map[RuleKind]string{
	RuleCustom:      "custom",
	RuleRequired:    "required",
	RuleEmail:       "email",
	RuleCustomerAge: "customer-age",
	RulePostalCode:  "postal-code",
	RulePhoneNumber: "phone-number",
	RuleOptional:    "optional",
}

// Age bounds enforced by CustomerAgeRule.
const (
	MinCustomerAge = 21
	MaxCustomerAge = 115
)

func (k RuleKind) String() string {
	if name, ok := ruleKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseRuleKind parses the textual form of a rule kind. Matching ignores
// case, and underscores are accepted in place of dashes.
func ParseRuleKind(s string) (RuleKind, error) {
	needle := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for kind, name := range ruleKindNames {
		if name == needle {
			return kind, nil
		}
	}
	return RuleCustom, fmt.Errorf("%w: %q", ErrUnknownRule, s)
}

func (k RuleKind) MarshalText() ([]byte, error) {
	if _, ok := ruleKindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, int(k))
	}
	return []byte(k.String()), nil
}

func (k *RuleKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRuleKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Predicate is the external validation seam. It must not block and should
// not panic; a panic is recovered and counted as a failure.
type Predicate func(text string) bool

// Rule is a named pass/fail check with a message and a priority. Rules are
// immutable values and compare by name.
type Rule struct {
	kind     RuleKind
	name     string
	message  string
	priority int
	check    func(string) (bool, error)
}

// RuleOption customizes a rule at construction.
type RuleOption func(*Rule)

// WithPredicate replaces the rule's check with p.
func WithPredicate(p Predicate) RuleOption {
	return func(r *Rule) {
		if p != nil {
			r.check = func(text string) (bool, error) { return p(text), nil }
		}
	}
}

// WithCheck replaces the rule's check with a fallible external validator.
// A non-nil error counts as a failed rule.
func WithCheck(fn func(string) (bool, error)) RuleOption {
	return func(r *Rule) {
		if fn != nil {
			r.check = fn
		}
	}
}

// WithMessage overrides the failure message.
func WithMessage(message string) RuleOption {
	return func(r *Rule) { r.message = message }
}

// WithPriority overrides the priority.
func WithPriority(priority int) RuleOption {
	return func(r *Rule) { r.priority = priority }
}

// WithName overrides the rule name, and with it the rule identity.
func WithName(name string) RuleOption {
	return func(r *Rule) {
		if name != "" {
			r.name = name
		}
	}
}

// NewRule builds a custom rule. A nil predicate accepts everything.
func NewRule(name, message string, priority int, predicate Predicate, opts ...RuleOption) Rule {
	r := Rule{
		kind:     RuleCustom,
		name:     name,
		message:  message,
		priority: priority,
	}
	WithPredicate(predicate)(&r)
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func builtin(kind RuleKind, message string, priority int, predicate Predicate, opts []RuleOption) Rule {
	r := Rule{
		kind:     kind,
		name:     kind.String(),
		message:  message,
		priority: priority,
	}
	WithPredicate(predicate)(&r)
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RequiredRule rejects empty text.
func RequiredRule(opts ...RuleOption) Rule {
	return builtin(RuleRequired, "Required", 10, func(text string) bool { return text != "" }, opts)
}

// EmailRule accepts email addresses.
func EmailRule(opts ...RuleOption) Rule {
	return builtin(RuleEmail, "Must be valid.", 5, checks.Email, opts)
}

// CustomerAgeRule accepts MM/dd/yyyy birth dates between MinCustomerAge and
// MaxCustomerAge years ago.
func CustomerAgeRule(opts ...RuleOption) Rule {
	message := fmt.Sprintf("The age must be between %d and %d years old.", MinCustomerAge, MaxCustomerAge)
	return builtin(RuleCustomerAge, message, 5, checks.Age(MinCustomerAge, MaxCustomerAge, nil), opts)
}

// PostalCodeRule accepts US ZIP codes and Canadian postal codes.
func PostalCodeRule(opts ...RuleOption) Rule {
	return builtin(RulePostalCode, "Must be valid.", 5, checks.PostalCode, opts)
}

// PhoneNumberRule accepts phone numbers valid in checks.DefaultRegion.
func PhoneNumberRule(opts ...RuleOption) Rule {
	return builtin(RulePhoneNumber, "Must be valid.", 5, checks.PhoneNumber, opts)
}

// OptionalRule accepts everything.
func OptionalRule(opts ...RuleOption) Rule {
	return builtin(RuleOptional, "", 0, func(string) bool { return true }, opts)
}

// RuleByKind returns the built-in rule for kind.
func RuleByKind(kind RuleKind) (Rule, error) {
	switch kind {
	case RuleRequired:
		return RequiredRule(), nil
	case RuleEmail:
		return EmailRule(), nil
	case RuleCustomerAge:
		return CustomerAgeRule(), nil
	case RulePostalCode:
		return PostalCodeRule(), nil
	case RulePhoneNumber:
		return PhoneNumberRule(), nil
	case RuleOptional:
		return OptionalRule(), nil
	default:
		return Rule{}, fmt.Errorf("%w: %s has no built-in rule", ErrUnknownRule, kind)
	}
}

func (r Rule) Kind() RuleKind  { return r.kind }
func (r Rule) Name() string    { return r.name }
func (r Rule) Message() string { return r.message }
func (r Rule) Priority() int   { return r.priority }

// Validate reports whether text satisfies the rule.
func (r Rule) Validate(text string) bool {
	ok, _ := r.Check(text)
	return ok
}

// Check evaluates the rule. Predicate panics and external errors are
// returned as *PredicateError with ok == false.
func (r Rule) Check(text string) (ok bool, err error) {
	if r.check == nil {
		return true, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			err = &PredicateError{Rule: r.name, Cause: rec}
		}
	}()

	ok, cause := r.check(text)
	if cause != nil {
		return false, &PredicateError{Rule: r.name, Cause: cause}
	}
	return ok, nil
}

// Equal reports whether both rules carry the same name.
func (r Rule) Equal(other Rule) bool {
	return r.name == other.name
}

func (r Rule) String() string {
	return r.name
}

type ruleJSON struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Message  string `json:"message" yaml:"message"`
	Priority int    `json:"priority" yaml:"priority"`
}

// MarshalJSON encodes the rule metadata; predicates are not serialized.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(ruleJSON{
		Name:     r.name,
		Kind:     r.kind.String(),
		Message:  r.message,
		Priority: r.priority,
	})
}

// UnmarshalJSON restores built-in rules with their predicates. Custom rules
// come back without one and accept everything.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	kind := RuleCustom
	if raw.Kind != "" {
		parsed, err := ParseRuleKind(raw.Kind)
		if err != nil {
			return err
		}
		kind = parsed
	}

	if kind == RuleCustom {
		*r = NewRule(raw.Name, raw.Message, raw.Priority, nil)
		return nil
	}
	restored, err := RuleByKind(kind)
	if err != nil {
		return err
	}
	*r = restored
	WithName(raw.Name)(r)
	r.message = raw.Message
	r.priority = raw.Priority
	return nil
}

// UniqueRules drops rules whose name already appeared, keeping order.
func UniqueRules(rules []Rule) []Rule {
	seen := make(map[string]bool, len(rules))
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if seen[r.name] {
			continue
		}
		seen[r.name] = true
		out = append(out, r)
	}
	return out
}

// RuleNames returns the names of rules in order.
func RuleNames(rules []Rule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
