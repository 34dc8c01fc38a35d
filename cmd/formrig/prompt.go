package main

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/Azhovan/formrig"
)

// errInterrupted is returned when the user aborts a prompt.
var errInterrupted = errors.New("interrupted")

// prompter asks the user for a field value. check validates a candidate
// answer and returns the message to display when it is rejected.
type prompter interface {
	Ask(ctx context.Context, field *formrig.Field, check func(string) error) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Ask(ctx context.Context, field *formrig.Field, check func(string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var prompt survey.Prompt
	options := field.Options()
	switch {
	case field.Type() == formrig.FieldPicker && !field.Picker().AllowsCustomListObjects() && len(options) > 0:
		sel := &survey.Select{
			Message: field.DisplayLabel(),
			Options: options,
		}
		if contains(options, field.Value()) {
			sel.Default = field.Value()
		}
		prompt = sel
	default:
		input := &survey.Input{
			Message: field.DisplayLabel(),
			Default: field.Value(),
			Help:    help(field),
		}
		if len(options) > 0 {
			input.Suggest = func(toComplete string) []string {
				return suggest(options, toComplete)
			}
		}
		prompt = input
	}

	var out string
	validator := func(ans interface{}) error {
		text, _ := ans.(string)
		if option, ok := ans.(survey.OptionAnswer); ok {
			text = option.Value
		}
		return check(text)
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(validator)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errInterrupted
		}
		return "", err
	}
	return out, nil
}

func help(field *formrig.Field) string {
	switch field.Type() {
	case formrig.FieldDatePicker:
		return "Format: MM/DD/YYYY"
	default:
		return field.RequirementLabel()
	}
}

func suggest(options []string, prefix string) []string {
	var out []string
	for _, option := range options {
		if strings.HasPrefix(strings.ToLower(option), strings.ToLower(prefix)) {
			out = append(out, option)
		}
	}
	return out
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
