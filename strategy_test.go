package formrig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStrategy_Generate(t *testing.T) {
	required := RequiredRule()
	email := EmailRule()
	loud := NewRule("loud", "Loud.", 5, nil)

	tests := []struct {
		name     string
		strategy ErrorStrategy
		broken   []Rule
		want     string
	}{
		{"append none", Append(), nil, ""},
		{"append one", Append(), []Rule{email}, "Must be valid."},
		{"append keeps rule order", Append(), []Rule{required, email}, "Required, Must be valid."},
		{"zero value appends", ErrorStrategy{}, []Rule{required, email}, "Required, Must be valid."},
		{"highest priority none", HighestPriority(), nil, ""},
		{"highest priority wins", HighestPriority(), []Rule{email, required}, "Required"},
		{"highest priority ties keep order", HighestPriority(), []Rule{email, loud}, "Must be valid."},
		{"highest priority stable with leader", HighestPriority(), []Rule{required, email, loud}, "Required"},
		{"override", Override("Pick a valid value."), []Rule{required, email}, "Pick a valid value."},
		{"override without broken rules", Override("Pick a valid value."), nil, "Pick a valid value."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.strategy.Generate(tt.broken))
		})
	}
}

func TestErrorStrategy_DoesNotReorderInput(t *testing.T) {
	broken := []Rule{EmailRule(), RequiredRule()}

	HighestPriority().Generate(broken)

	assert.Equal(t, []string{"email", "required"}, RuleNames(broken))
}

func TestParseErrorStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    ErrorStrategy
		wantErr bool
	}{
		{input: "", want: Append()},
		{input: "append", want: Append()},
		{input: " Append ", want: Append()},
		{input: "highest-priority", want: HighestPriority()},
		{input: "highest_priority", want: HighestPriority()},
		{input: "HighestPriority", want: HighestPriority()},
		{input: "override:Try again: later", want: Override("Try again: later")},
		{input: "override", want: Override("")},
		{input: "append:extra", wantErr: true},
		{input: "loudest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseErrorStrategy(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStrategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorStrategy_TextRoundTrip(t *testing.T) {
	for _, s := range []ErrorStrategy{Append(), HighestPriority(), Override("Sorry, no.")} {
		t.Run(s.String(), func(t *testing.T) {
			text, err := s.MarshalText()
			require.NoError(t, err)

			var parsed ErrorStrategy
			require.NoError(t, parsed.UnmarshalText(text))
			assert.Equal(t, s, parsed)
		})
	}
}
