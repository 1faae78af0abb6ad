package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/spf13/viper"
)

//go:embed defaults/*.toml
var defaultsFS embed.FS

const docType = "toml"

// Config is a parsed configuration document.
type Config struct {
	General     GeneralConfig   `mapstructure:"general" yaml:"general" json:"general"`
	Web         ArchetypeConfig `mapstructure:"web" yaml:"web" json:"web"`
	CLI         ArchetypeConfig `mapstructure:"cli" yaml:"cli" json:"cli"`
	DataScience ArchetypeConfig `mapstructure:"data_science" yaml:"data_science" json:"data_science"`
	Base        ArchetypeConfig `mapstructure:"base" yaml:"base" json:"base"`
	Test        TestConfig      `mapstructure:"test" yaml:"test" json:"test"`
}

// GeneralConfig names the language the document targets.
type GeneralConfig struct {
	Language string `mapstructure:"language" yaml:"language" json:"language"`
	Version  string `mapstructure:"version" yaml:"version" json:"version"`
}

// ArchetypeConfig is the per-archetype section of the document.
// MainFileTemplate is informational: generators bind their entry template by
// archetype directory convention.
type ArchetypeConfig struct {
	Dependencies     []string `mapstructure:"dependencies" yaml:"dependencies" json:"dependencies"`
	MainFileTemplate string   `mapstructure:"main_file_template" yaml:"main_file_template" json:"main_file_template"`
}

// TestConfig names the test framework appended to dependency manifests.
type TestConfig struct {
	Framework string `mapstructure:"framework" yaml:"framework" json:"framework"`
}

// Load reads, validates, and decodes the TOML document at path.
func Load(path string) (*Config, error) {
	slog.Debug("loading configuration", "path", path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(docType)
	if err := v.ReadInConfig(); err != nil {
		return nil, failure.Wrap(failure.EConfig, fmt.Sprintf("failed to read config file %q", path), err)
	}
	return decode(v, path)
}

// Default returns the embedded default document for language.
func Default(language string) (*Config, error) {
	name := "defaults/" + strings.ToLower(language) + ".toml"
	data, err := fs.ReadFile(defaultsFS, name)
	if err != nil {
		return nil, failure.Wrap(failure.EConfig, fmt.Sprintf("no default configuration for language %q", language), err)
	}
	return Parse(data, name)
}

// Parse decodes a TOML document held in memory. source names the document
// in error messages.
func Parse(data []byte, source string) (*Config, error) {
	v := viper.New()
	v.SetConfigType(docType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, failure.Wrap(failure.EConfig, fmt.Sprintf("failed to parse config %q", source), err)
	}
	return decode(v, source)
}

func decode(v *viper.Viper, source string) (*Config, error) {
	result, err := validateSettings(v.AllSettings())
	if err != nil {
		return nil, failure.Wrap(failure.EConfig, fmt.Sprintf("failed to validate config %q", source), err)
	}
	if !result.Valid {
		return nil, failure.Newf(failure.EConfig, "invalid config %q: %s", source, result.Summary())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, failure.Wrap(failure.EConfig, fmt.Sprintf("failed to decode config %q", source), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded", "source", source, "language", cfg.General.Language)
	return &cfg, nil
}

// Validate checks the semantic rules the schema cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.General.Language) == "" {
		return failure.New(failure.EConfig, "language not specified")
	}
	return nil
}

// ForArchetype returns the section for a.
func (c *Config) ForArchetype(a archetype.Archetype) *ArchetypeConfig {
	switch a {
	case archetype.Web:
		return &c.Web
	case archetype.CLI:
		return &c.CLI
	case archetype.DataScience:
		return &c.DataScience
	default:
		return &c.Base
	}
}

// ArchetypeConfig returns the section named name. Any name other than
// exactly "web", "cli" or "data_science" returns the base section.
func (c *Config) ArchetypeConfig(name string) *ArchetypeConfig {
	switch name {
	case "web":
		return &c.Web
	case "cli":
		return &c.CLI
	case "data_science":
		return &c.DataScience
	default:
		return &c.Base
	}
}
