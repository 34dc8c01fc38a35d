package formrig

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultValidator_Validate(t *testing.T) {
	v := NewValidator(Append())

	tests := []struct {
		name   string
		rules  []Rule
		text   string
		valid  bool
		broken []string
	}{
		{"no rules", nil, "", true, nil},
		{"empty email breaks both rules", EmailConfiguration().Rules(), "", false, []string{"required", "email"}},
		{"malformed email", EmailConfiguration().Rules(), "jdoe", false, []string{"email"}},
		{"valid email", EmailConfiguration().Rules(), "jdoe@example.com", true, nil},
		{"optional accepts empty", OptionalConfiguration().Rules(), "", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.rules, tt.text)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.valid, len(result.Broken) == 0)
			if tt.broken == nil {
				assert.Empty(t, result.Broken)
			} else {
				assert.Equal(t, tt.broken, RuleNames(result.Broken))
			}
		})
	}
}

func TestDefaultValidator_EvaluatesEveryRule(t *testing.T) {
	var calls []string
	track := func(name string, pass bool) Rule {
		return NewRule(name, name, 1, func(string) bool {
			calls = append(calls, name)
			return pass
		})
	}

	result := NewValidator(Append()).Validate([]Rule{track("a", false), track("b", true), track("c", false)}, "x")

	assert.Equal(t, []string{"a", "b", "c"}, calls)
	assert.Equal(t, []string{"a", "c"}, RuleNames(result.Broken))
}

func TestDefaultValidator_LogsFailingPredicates(t *testing.T) {
	var buf bytes.Buffer
	v := NewValidator(Append(), WithValidatorLogger(zerolog.New(&buf)))

	panicky := NewRule("panicky", "Nope.", 1, func(string) bool { panic("kaboom") })
	result := v.Validate([]Rule{panicky, RequiredRule()}, "x")

	assert.False(t, result.Valid)
	assert.Equal(t, []string{"panicky"}, RuleNames(result.Broken))
	assert.Contains(t, buf.String(), `"rule":"panicky"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestDefaultValidator_GenerateError(t *testing.T) {
	broken := []Rule{RequiredRule(), EmailRule()}

	assert.Equal(t, "Required, Must be valid.", NewValidator(Append()).GenerateError(broken))
	assert.Equal(t, "Required", NewValidator(HighestPriority()).GenerateError(broken))
	assert.Equal(t, "Nope", NewValidator(Override("Nope")).GenerateError(broken))
	assert.Equal(t, HighestPriority(), NewValidator(HighestPriority()).Strategy())
}
