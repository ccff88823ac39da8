package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings are the interpreter options read from tally.yaml.
type Settings struct {
	// MaxDiagnostics is the number of diagnostics after which verification aborts.
	MaxDiagnostics int `yaml:"max_diagnostics,omitempty"`

	// MaxCallDepth bounds nested function and lambda calls.
	// Exceeding it raises a StackOverflow fault.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// RatesFile is the path of the YAML conversion table, relative to the settings file.
	RatesFile string `yaml:"rates_file,omitempty"`

	// StrictCurrencyCodes rejects conversion tables with non ISO 4217 codes.
	StrictCurrencyCodes bool `yaml:"strict_currency_codes,omitempty"`
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		MaxDiagnostics: DefaultMaxDiagnostics,
		MaxCallDepth:   DefaultMaxCallDepth,
		LogLevel:       DefaultLogLevel,
	}
}

// ParseSettings decodes YAML settings, filling defaults for omitted fields.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	if s.MaxDiagnostics <= 0 {
		s.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if s.MaxCallDepth <= 0 {
		s.MaxCallDepth = DefaultMaxCallDepth
	}
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettings reads settings from path. RatesFile is resolved against the file's directory.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	s, err := ParseSettings(data)
	if err != nil {
		return Settings{}, err
	}
	if s.RatesFile != "" && !filepath.IsAbs(s.RatesFile) {
		s.RatesFile = filepath.Join(filepath.Dir(path), s.RatesFile)
	}
	return s, nil
}

// ConversionTable loads the table named by RatesFile.
// With no RatesFile an empty table is returned.
func (s Settings) ConversionTable() (*ConversionTable, error) {
	if s.RatesFile == "" {
		return NewConversionTable(), nil
	}
	table, err := LoadConversionTable(s.RatesFile)
	if err != nil {
		return nil, err
	}
	if s.StrictCurrencyCodes {
		if err := table.ValidateISO(); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// Logger builds a text logger on stderr at the configured level.
func (s Settings) Logger() *slog.Logger {
	level, _ := ParseLogLevel(s.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLogLevel maps a level name to a slog.Level. Empty means warn.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}
