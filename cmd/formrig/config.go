package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// EnvPrefix namespaces the CLI's own settings.
const EnvPrefix = "FORMRIG_"

// Config holds the CLI settings. Flags override these values.
type Config struct {
	Definition  string   `env:"DEFINITION"`
	ValuePrefix string   `env:"VALUE_PREFIX" envDefault:"FORM_"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"warn"`
	Snapshot    string   `env:"SNAPSHOT"`
	Redact      []string `env:"REDACT" envSeparator:","`
	JSON        bool     `env:"JSON"`
	Interactive bool     `env:"INTERACTIVE" envDefault:"true"`
}

var errNoDefinition = errors.New("no form definition given (pass a path or set FORMRIG_DEFINITION)")

// loadConfig reads .env files, then the process environment. Missing .env
// files are ignored.
func loadConfig(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(dotenv...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return parseConfig(environMap(os.Environ()))
}

func parseConfig(environment map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
	})
	if err != nil {
		return Config{}, fmt.Errorf("parse settings: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Definition) == "" {
		return errNoDefinition
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

func environMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			out[key] = value
		}
	}
	return out
}
