// Command formrig fills in a form described by a definition file.
//
// Field values are pre-populated from the definition's values section and
// from FORM_* environment variables, then each field is prompted for
// interactively. The final state is printed, and optionally written as a
// snapshot.
//
//	formrig [flags] signup.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Azhovan/formrig"
	"github.com/Azhovan/formrig/formenv"
	"github.com/Azhovan/formrig/formfile"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "formrig:", err)
		os.Exit(exitUsage)
	}

	flag.StringVar(&cfg.ValuePrefix, "prefix", cfg.ValuePrefix, "environment prefix for pre-populated values")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "write a snapshot to this path ({{timestamp}} is expanded)")
	flag.BoolVar(&cfg.JSON, "json", cfg.JSON, "print the result as JSON")
	flag.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "prompt for every field")
	flag.Parse()
	if flag.NArg() > 0 {
		cfg.Definition = flag.Arg(0)
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, "formrig:", err)
		flag.Usage()
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	valid, err := run(ctx, cfg, surveyPrompter{}, os.Stdout, os.Stderr)
	if err != nil && !isInterrupt(err) {
		fmt.Fprintln(os.Stderr, "formrig:", err)
	}
	os.Exit(exitCode(valid, err))
}

// Exit codes.
const (
	exitValid       = 0
	exitInvalid     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func isInterrupt(err error) bool {
	return errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled)
}

// exitCode maps the outcome of run to a process exit code. Usage errors are
// reported before run is called.
func exitCode(valid bool, err error) int {
	switch {
	case isInterrupt(err):
		return exitInterrupted
	case err != nil, !valid:
		return exitInvalid
	default:
		return exitValid
	}
}

// run loads the form, prompts for its fields and reports the result. It
// returns whether the final form is valid.
func run(ctx context.Context, cfg Config, p prompter, stdout, stderr io.Writer) (bool, error) {
	if err := cfg.validate(); err != nil {
		return false, err
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	def, err := formfile.Load(cfg.Definition, formfile.Options{})
	if err != nil {
		return false, err
	}

	loader := formrig.NewLoader(def.Fields...).WithSource(def.Values())
	if cfg.ValuePrefix != "" {
		loader.WithSource(formenv.New(formenv.Options{Prefix: cfg.ValuePrefix, SkipEmpty: true}))
	} else {
		// Without a prefix the environment holds unrelated variables.
		loader.WithSource(formenv.New(formenv.Options{SkipEmpty: true})).Strict(false)
	}

	opts := append(def.FormOptions(), formrig.WithLogger(logger))
	form, err := loader.Load(ctx, opts...)
	if err != nil {
		return false, err
	}
	defer form.Close()

	if err := form.Sync(ctx); err != nil {
		return false, err
	}
	logger.Info().
		Str("definition", cfg.Definition).
		Int("fields", len(form.Fields())).
		Bool("valid", form.Valid()).
		Msg("form loaded")

	if cfg.Interactive {
		if err := fill(ctx, form, p); err != nil {
			return false, err
		}
	}

	snapshot := form.Snapshot()
	dumpOpts := []formrig.DumpOption{formrig.WithRedacted(cfg.Redact...)}
	if cfg.JSON {
		dumpOpts = append(dumpOpts, formrig.AsJSON())
	}
	if err := formrig.Dump(stdout, snapshot, dumpOpts...); err != nil {
		return false, err
	}

	if cfg.Snapshot != "" {
		if err := formrig.WriteSnapshot(&snapshot, cfg.Snapshot, formrig.WithRedactedFields(cfg.Redact...)); err != nil {
			return false, fmt.Errorf("write snapshot: %w", err)
		}
		logger.Info().Str("path", formrig.ExpandPathWithTime(cfg.Snapshot, snapshot.Timestamp)).Msg("snapshot written")
	}
	return snapshot.Valid, nil
}

// fill prompts for every field in order. Answers are validated by the form
// itself, so prompts reject exactly what the form would flag.
func fill(ctx context.Context, form *formrig.Form, p prompter) error {
	for _, field := range form.Fields() {
		check := func(text string) error {
			field.SetValue(text)
			field.Validate()
			if err := form.Sync(ctx); err != nil {
				return err
			}
			if field.Valid() {
				return nil
			}
			if msg := field.Error(); msg != "" {
				return errors.New(msg)
			}
			// Still pristine: show every broken rule.
			return errors.New(formrig.Append().Generate(field.BrokenRules()))
		}

		answer, err := p.Ask(ctx, field, check)
		if err != nil {
			return fmt.Errorf("%s: %w", field.Label(), err)
		}
		field.SetValue(answer)
		field.Validate()
	}
	return form.Sync(ctx)
}
