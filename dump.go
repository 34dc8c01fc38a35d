package formrig

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	withRules bool     // Include configuration and broken rules for each field
	asJSON    bool     // Output as JSON instead of text format
	indent    string   // Indentation for JSON output (default: "  ")
	redact    []string // Field labels whose values are hidden
}

// WithRules includes each field's configuration and broken rules.
func WithRules() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withRules = true
	}
}

// AsJSON outputs the snapshot as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithRedacted hides the values of the given fields as "***redacted***".
func WithRedacted(labels ...string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.redact = append(cfg.redact, labels...)
	}
}

// Dump writes a human-readable representation of a form snapshot, one line
// per field followed by the form verdict.
// Returns an error if writing to the writer fails.
func Dump(w io.Writer, snapshot FormSnapshot, opts ...DumpOption) error {
	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	snapshot = redact(snapshot, config.redact)
	if config.asJSON {
		return dumpAsJSON(w, snapshot, config)
	}
	return dumpAsText(w, snapshot, config)
}

// dumpAsText outputs one "label: value (state)" line per field.
func dumpAsText(w io.Writer, snapshot FormSnapshot, config dumpConfig) error {
	for _, field := range snapshot.Fields {
		line := fmt.Sprintf("%s: %q (%s)", field.DisplayLabel, field.Value, fieldStatus(field))
		if config.withRules {
			line += fmt.Sprintf(" [config: %s", field.Configuration)
			if len(field.BrokenRules) > 0 {
				line += fmt.Sprintf(", broken: %s", strings.Join(field.BrokenRuleNames(), ", "))
			}
			line += "]"
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	verdict := "valid"
	if !snapshot.Valid {
		verdict = "invalid"
	}
	if _, err := fmt.Fprintf(w, "form: %s\n", verdict); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func fieldStatus(field FieldSnapshot) string {
	switch {
	case field.Valid:
		return "valid"
	case field.Error != "":
		return "invalid: " + field.Error
	case field.FirstTimeEmpty:
		return "invalid, pristine"
	default:
		return "invalid"
	}
}

// dumpJSON is the JSON shape of Dump: rules are listed by name only.
type dumpJSON struct {
	Valid  bool            `json:"valid"`
	Errors []string        `json:"errors,omitempty"`
	Fields []dumpFieldJSON `json:"fields"`
}

type dumpFieldJSON struct {
	Label         string   `json:"label"`
	Value         string   `json:"value"`
	Valid         bool     `json:"valid"`
	Error         string   `json:"error,omitempty"`
	Pristine      bool     `json:"pristine"`
	Configuration string   `json:"configuration,omitempty"`
	BrokenRules   []string `json:"brokenRules,omitempty"`
}

// dumpAsJSON outputs the snapshot as JSON.
func dumpAsJSON(w io.Writer, snapshot FormSnapshot, config dumpConfig) error {
	result := dumpJSON{
		Valid:  snapshot.Valid,
		Fields: make([]dumpFieldJSON, 0, len(snapshot.Fields)),
	}
	for _, line := range strings.Split(snapshot.Errors, "\n") {
		if line != "" {
			result.Errors = append(result.Errors, line)
		}
	}
	for _, field := range snapshot.Fields {
		entry := dumpFieldJSON{
			Label:    field.Label,
			Value:    field.Value,
			Valid:    field.Valid,
			Error:    field.Error,
			Pristine: field.FirstTimeEmpty,
		}
		if config.withRules {
			entry.Configuration = field.Configuration
			entry.BrokenRules = field.BrokenRuleNames()
		}
		result.Fields = append(result.Fields, entry)
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}
