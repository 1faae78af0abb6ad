package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/poq-labs/poq/internal/branding"
	"github.com/poq-labs/poq/internal/platform"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized setting keys.
const (
	KeyConfig       = "config"        // default configuration document path
	KeyTemplatesDir = "templates_dir" // template root overriding the embedded templates
	KeyPython       = "python"        // Python interpreter used for environment setup
	KeySetupTimeout = "setup_timeout" // bound on environment setup, e.g. "10m"; empty means none
)

// Keys returns every recognized setting key, sorted.
func Keys() []string {
	keys := []string{KeyConfig, KeyTemplatesDir, KeyPython, KeySetupTimeout}
	slices.Sort(keys)
	return keys
}

// Dir returns the path to the poq settings directory (~/.poq/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the settings file (~/.poq/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the settings directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the settings file and environment
// (POQ_TEMPLATES_DIR, POQ_PYTHON, ...).
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if the settings file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a setting by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set validates and writes a key-value pair, then saves the settings file.
func Set(key, value string) error {
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("unknown setting %q: known settings are %s", key, strings.Join(Keys(), ", "))
	}
	if key == KeySetupTimeout && value != "" {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}

	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	file := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(file); os.IsNotExist(err) {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("creating settings file %s: %w", file, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(file); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return platform.Chmod(file, 0600)
}

// SetupTimeout returns the configured environment setup bound, or zero when
// unset or unparsable.
func SetupTimeout() time.Duration {
	raw := Get(KeySetupTimeout)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
