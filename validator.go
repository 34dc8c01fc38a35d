package formrig

import (
	"github.com/rs/zerolog"
)

// Result is the outcome of evaluating a rule set against a text.
type Result struct {
	Valid  bool
	Broken []Rule // In rule order
}

// Validator evaluates rule sets and renders broken rules as a message.
// Implementations must be safe to call from the form's scheduler.
type Validator interface {
	// Validate evaluates every rule against text without short-circuiting.
	Validate(rules []Rule, text string) Result

	// GenerateError renders broken rules as a single display string.
	GenerateError(broken []Rule) string
}

// DefaultValidator evaluates rules in order and delegates messages to an
// ErrorStrategy.
type DefaultValidator struct {
	strategy ErrorStrategy
	logger   zerolog.Logger
}

// ValidatorOption configures a DefaultValidator.
type ValidatorOption func(*DefaultValidator)

// WithValidatorLogger sets the logger used to report failing predicates.
func WithValidatorLogger(logger zerolog.Logger) ValidatorOption {
	return func(v *DefaultValidator) { v.logger = logger }
}

// NewValidator creates a DefaultValidator using strategy.
func NewValidator(strategy ErrorStrategy, opts ...ValidatorOption) *DefaultValidator {
	v := &DefaultValidator{
		strategy: strategy,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Strategy returns the error strategy in use.
func (v *DefaultValidator) Strategy() ErrorStrategy {
	return v.strategy
}

// Validate checks every rule and collects the broken ones in input order.
// A predicate that panics or errors counts as broken.
func (v *DefaultValidator) Validate(rules []Rule, text string) Result {
	var broken []Rule
	for _, rule := range rules {
		ok, err := rule.Check(text)
		if err != nil {
			v.logger.Warn().Err(err).Str("rule", rule.Name()).Msg("rule predicate failed")
		}
		if !ok {
			broken = append(broken, rule)
		}
	}
	return Result{
		Valid:  len(broken) == 0,
		Broken: broken,
	}
}

// GenerateError renders broken using the validator's strategy.
func (v *DefaultValidator) GenerateError(broken []Rule) string {
	return v.strategy.Generate(broken)
}
