package formrig

import (
	"context"
)

// Source provides pre-populated field values from a backend (environment,
// definition files). Keys are matched against field labels after
// normalization, so "FULL_NAME", "full-name" and "Full Name" all address
// the "Full Name" field.
type Source interface {
	// Load returns values keyed by field. Missing optional sources should return an empty map.
	Load(ctx context.Context) (map[string]string, error)

	// Name identifies the source in errors and logs (e.g., "env", "file:form.yaml").
	Name() string
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (map[string]string, error)

func (f SourceFunc) Load(ctx context.Context) (map[string]string, error) {
	return f(ctx)
}

func (f SourceFunc) Name() string {
	return "func"
}

// Values is a fixed Source.
type Values map[string]string

func (v Values) Load(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out, nil
}

func (v Values) Name() string {
	return "values"
}
