package formenv

import (
	"context"
	"os"
	"strings"

	"github.com/Azhovan/formrig"
	"github.com/Azhovan/formrig/internal/normalize"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (FORM_ matches form_, Form_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized after prefix stripping.
	CaseSensitive bool

	// SkipEmpty ignores variables set to the empty string.
	SkipEmpty bool

	// Environ replaces os.Environ as the variable list. Entries use the
	// "KEY=value" form.
	Environ func() []string
}

type envSource struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) formrig.Source {
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	return &envSource{opts: opts}
}

// Load scans environment variables, filters by prefix, and normalizes keys.
func (e *envSource) Load(ctx context.Context) (map[string]string, error) {
	result := make(map[string]string)

	for _, env := range e.opts.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		key, ok = normalize.ApplyPrefix(key, e.opts.Prefix, e.opts.CaseSensitive)
		if !ok || key == "" {
			continue
		}
		if e.opts.SkipEmpty && value == "" {
			continue
		}

		// Normalize: FULL_NAME → full_name
		normalizedKey := normalize.Key(key)
		if normalizedKey == "" {
			continue
		}
		result[normalizedKey] = value
	}

	return result, nil
}

// Name returns a human-readable identifier for this source.
func (e *envSource) Name() string {
	if e.opts.Prefix == "" {
		return "env"
	}
	return "env:" + e.opts.Prefix
}
