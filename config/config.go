// Package config loads process-wide settings for the bridge from the
// environment, with an optional .env file.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/schema"
)

// Environment keys.
const (
	EnvLogLevel       = "CHANPARSE_LOG_LEVEL"
	EnvLogFormat      = "CHANPARSE_LOG_FORMAT"
	EnvSentryDSN      = "SENTRY_DSN"
	EnvNSPostParsing  = "CHANPARSE_NS_POST_PARSING"
	EnvNSSpannable    = "CHANPARSE_NS_SPANNABLE"
	EnvNSDescriptor   = "CHANPARSE_NS_DESCRIPTOR"
	EnvExceptionClass = "CHANPARSE_EXCEPTION_CLASS"
	EnvEngineWASM     = "CHANPARSE_ENGINE_WASM"
)

var validate = validator.New()

// Config holds bridge settings. The zero value is not valid; start from
// Default.
type Config struct {
	// Namespaces locate the host classes.
	Namespaces schema.Namespaces

	// LogLevel is a zap level name.
	LogLevel string `validate:"oneof=debug info warn error"`
	// LogFormat selects the zap encoder.
	LogFormat string `validate:"oneof=json console"`

	// SentryDSN enables error reporting when set.
	SentryDSN string `validate:"omitempty,url"`

	// ExceptionClass overrides the host exception thrown on failure.
	ExceptionClass string `validate:"omitempty,excludesall=."`

	// EngineWASM is the path of a WebAssembly parser module. Empty selects
	// the built-in plain text engine.
	EngineWASM string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Namespaces: schema.DefaultNamespaces(),
		LogLevel:   "info",
		LogFormat:  "json",
	}
}

// Load reads .env from the working directory if present, then overlays
// every set environment key on Default.
func Load() (Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()

	cfg := Default()
	overlay(&cfg.LogLevel, EnvLogLevel)
	overlay(&cfg.LogFormat, EnvLogFormat)
	overlay(&cfg.SentryDSN, EnvSentryDSN)
	overlay(&cfg.Namespaces.PostParsing, EnvNSPostParsing)
	overlay(&cfg.Namespaces.Spannable, EnvNSSpannable)
	overlay(&cfg.Namespaces.Descriptor, EnvNSDescriptor)
	overlay(&cfg.ExceptionClass, EnvExceptionClass)
	overlay(&cfg.EngineWASM, EnvEngineWASM)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlay(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "invalid configuration")
	}
	return nil
}
