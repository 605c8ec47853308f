package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional name of the configuration file.
const FileName = "stmtconv.yaml"

const basicHeaderLen = 25

// Config represents the top-level stmtconv.yaml configuration.
type Config struct {
	Defaults     DefaultsConfig     `yaml:"defaults"`
	Placeholders PlaceholdersConfig `yaml:"placeholders"`
	Logging      LoggingConfig      `yaml:"logging"`
	Server       ServerConfig       `yaml:"server"`
}

// DefaultsConfig fills values the source format does not carry.
type DefaultsConfig struct {
	Currency          string `yaml:"currency"`           // account currency for text → XML
	BasicHeader       string `yaml:"basic_header"`       // block 1 of generated text
	ApplicationHeader string `yaml:"application_header"` // block 2 of generated text
}

// PlaceholdersConfig is written into statement lines rebuilt from XML
// entries, which carry no type identifier, reference or narrative in the
// text grammar.
type PlaceholdersConfig struct {
	TransactionType string `yaml:"transaction_type"`
	Reference       string `yaml:"reference"`
	Narrative       string `yaml:"narrative"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ServerConfig controls the HTTP conversion API.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	BodyLimit int    `yaml:"body_limit"` // bytes
}

// Load reads a stmtconv.yaml file from disk. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Currency:          "EUR",
			BasicHeader:       "F01XXXXXXXXXXXX0000000000",
			ApplicationHeader: "I940XXXXXXXXXXXXN",
		},
		Placeholders: PlaceholdersConfig{
			TransactionType: "NMSC",
			Reference:       "NONREF",
			Narrative:       "TRANSACTION DETAIL",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			BodyLimit: 4 << 20,
		},
	}
}

// Validate checks the values that would otherwise produce documents the
// readers reject.
func (c *Config) Validate() error {
	if len(c.Defaults.BasicHeader) != basicHeaderLen {
		return fmt.Errorf("defaults.basic_header must be %d characters, got %d", basicHeaderLen, len(c.Defaults.BasicHeader))
	}
	if !isCurrencyCode(c.Defaults.Currency) {
		return fmt.Errorf("defaults.currency %q is not a 3-letter uppercase code", c.Defaults.Currency)
	}
	if c.Defaults.ApplicationHeader == "" {
		return fmt.Errorf("defaults.application_header must not be empty")
	}
	if err := c.Placeholders.validate(); err != nil {
		return err
	}
	if c.Server.BodyLimit < 0 {
		return fmt.Errorf("server.body_limit must not be negative")
	}
	return nil
}

// validate checks that a statement line rebuilt as type + "//" + reference
// reads back with the same type and reference.
func (p PlaceholdersConfig) validate() error {
	tt := p.TransactionType
	if len(tt) < 3 {
		return fmt.Errorf("placeholders.transaction_type %q must be at least 3 characters", tt)
	}
	if tt[0] < 'A' || tt[0] > 'Z' {
		return fmt.Errorf("placeholders.transaction_type %q must start with an uppercase letter", tt)
	}
	if strings.Contains(tt, "//") {
		return fmt.Errorf("placeholders.transaction_type %q must not contain //", tt)
	}
	if p.Reference == "" {
		return fmt.Errorf("placeholders.reference must not be empty")
	}
	if strings.Contains(p.Reference, "//") {
		return fmt.Errorf("placeholders.reference %q must not contain //", p.Reference)
	}
	if strings.TrimSpace(p.Reference) != p.Reference {
		return fmt.Errorf("placeholders.reference %q must not start or end with spaces", p.Reference)
	}
	if strings.ContainsAny(tt+p.Reference, "\r\n") {
		return fmt.Errorf("placeholders.transaction_type and placeholders.reference must be single-line")
	}
	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
