package formrig

import (
	"context"
	"fmt"
	"sort"

	"github.com/Azhovan/formrig/internal/normalize"
)

// Loader builds forms from field specs and pre-populated values.
// Sources are processed in order (later override earlier).
type Loader struct {
	specs   []FieldSpec
	sources []Source
	strict  bool // Fail on values that address no field (default: true)
}

// NewLoader creates a Loader for specs with strict mode enabled.
func NewLoader(specs ...FieldSpec) *Loader {
	return &Loader{
		specs:   append([]FieldSpec(nil), specs...),
		sources: make([]Source, 0),
		strict:  true,
	}
}

// WithSource adds a source. Sources are processed in order (later override earlier).
func (l *Loader) WithSource(src Source) *Loader {
	l.sources = append(l.sources, src)
	return l
}

// Strict controls whether values for unknown fields cause errors. Default: true.
func (l *Loader) Strict(strict bool) *Loader {
	l.strict = strict
	return l
}

// mergedEntry is a value and the source that provided it.
type mergedEntry struct {
	value      string
	sourceName string
}

// Prefill returns the loader's specs with values from all sources applied.
// In strict mode, values that match no field label are reported as a
// *ValidationError.
func (l *Loader) Prefill(ctx context.Context) ([]FieldSpec, error) {
	merged := make(map[string]mergedEntry)
	for _, source := range l.sources {
		data, err := source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		for key, value := range data {
			merged[normalize.Key(key)] = mergedEntry{
				value:      value,
				sourceName: source.Name(),
			}
		}
	}

	specs := append([]FieldSpec(nil), l.specs...)
	known := make(map[string]bool, len(specs))
	for i := range specs {
		key := normalize.Key(specs[i].Label)
		known[key] = true
		if entry, ok := merged[key]; ok {
			specs[i].Value = entry.value
		}
	}

	if l.strict {
		var unknown []FieldError
		for key, entry := range merged {
			if !known[key] {
				unknown = append(unknown, FieldError{
					FieldPath: key,
					Code:      ErrCodeUnknownKey,
					Message:   fmt.Sprintf("no field matches value from %s (strict mode)", entry.sourceName),
				})
			}
		}
		if len(unknown) > 0 {
			sort.Slice(unknown, func(i, j int) bool { return unknown[i].FieldPath < unknown[j].FieldPath })
			return nil, &ValidationError{FieldErrors: unknown}
		}
	}

	return specs, nil
}

// Load prefills the specs and builds the form. Pre-populated values that
// break their rules show errors right away.
func (l *Loader) Load(ctx context.Context, opts ...Option) (*Form, error) {
	specs, err := l.Prefill(ctx)
	if err != nil {
		return nil, err
	}
	return NewForm(specs, opts...)
}
