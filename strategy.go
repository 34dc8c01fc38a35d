package formrig

import (
	"fmt"
	"sort"
	"strings"
)

// AppendSeparator joins messages under the Append strategy.
const AppendSeparator = ", "

// StrategyKind tags the ErrorStrategy variants.
type StrategyKind int

const (
	// StrategyAppend joins every broken-rule message.
	StrategyAppend StrategyKind = iota
	// StrategyHighestPriority shows the most severe broken rule only.
	StrategyHighestPriority
	// StrategyOverride always shows a fixed message.
	StrategyOverride
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyAppend:
		return "append"
	case StrategyHighestPriority:
		return "highest-priority"
	case StrategyOverride:
		return "override"
	default:
		return "unknown"
	}
}

// ErrorStrategy turns a list of broken rules into one display string.
// The zero value is Append.
type ErrorStrategy struct {
	kind    StrategyKind
	message string
}

// Append joins all broken-rule messages with AppendSeparator.
func Append() ErrorStrategy {
	return ErrorStrategy{kind: StrategyAppend}
}

// HighestPriority picks the message of the broken rule with the highest
// priority. Ties keep rule order.
func HighestPriority() ErrorStrategy {
	return ErrorStrategy{kind: StrategyHighestPriority}
}

// Override always reports message.
func Override(message string) ErrorStrategy {
	return ErrorStrategy{kind: StrategyOverride, message: message}
}

func (s ErrorStrategy) Kind() StrategyKind { return s.kind }

// Message returns the fixed message of an Override strategy.
func (s ErrorStrategy) Message() string { return s.message }

// Generate builds the display string for broken.
func (s ErrorStrategy) Generate(broken []Rule) string {
	switch s.kind {
	case StrategyHighestPriority:
		return highestPriorityMessage(broken)
	case StrategyOverride:
		return s.message
	default:
		return appendMessages(broken)
	}
}

func appendMessages(broken []Rule) string {
	messages := make([]string, len(broken))
	for i, r := range broken {
		messages[i] = r.message
	}
	return strings.Join(messages, AppendSeparator)
}

func highestPriorityMessage(broken []Rule) string {
	if len(broken) == 0 {
		return ""
	}
	sorted := make([]Rule, len(broken))
	copy(sorted, broken)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority > sorted[j].priority
	})
	return sorted[0].message
}

// String returns the textual form accepted by ParseErrorStrategy.
func (s ErrorStrategy) String() string {
	if s.kind == StrategyOverride {
		return "override:" + s.message
	}
	return s.kind.String()
}

// ParseErrorStrategy parses "append", "highest-priority" or
// "override:<message>". An empty string yields Append.
func ParseErrorStrategy(text string) (ErrorStrategy, error) {
	trimmed := strings.TrimSpace(text)
	name, message, hasMessage := strings.Cut(trimmed, ":")
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")

	switch name {
	case "", "append":
		if hasMessage {
			break
		}
		return Append(), nil
	case "highest-priority", "highestpriority":
		if hasMessage {
			break
		}
		return HighestPriority(), nil
	case "override":
		return Override(strings.TrimSpace(message)), nil
	}
	return ErrorStrategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, text)
}

func (s ErrorStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ErrorStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseErrorStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
