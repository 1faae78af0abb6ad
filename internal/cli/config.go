package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/language"
	"github.com/poq-labs/poq/internal/settings"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var (
	configShowFormat   string
	configShowLanguage string
)

func init() {
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "Output format: yaml or json")
	configShowCmd.Flags().StringVar(&configShowLanguage, "language", "python", "Language whose built-in document to show")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration document and manage user settings",
	Long: `Inspect the TOML configuration document that drives generation, and read or
write user settings stored at ~/.poq/config.yaml.

Settings:
  config          default configuration document path
  templates_dir   directory overriding the built-in templates
  python          interpreter used for environment setup
  setup_timeout   bound on environment setup (e.g. 10m)`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings.Load()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg == nil {
			p, err := language.Default(language.PythonOptions{}).Lookup(configShowLanguage)
			if err != nil {
				return err
			}
			if cfg, err = p.DefaultConfig(); err != nil {
				return err
			}
		}

		var out []byte
		switch strings.ToLower(configShowFormat) {
		case "yaml":
			out, err = yaml.Marshal(cfg)
		case "json":
			out, err = json.MarshalIndent(cfg, "", "  ")
			out = append(out, '\n')
		default:
			return failure.Newf(failure.EUsage, "unknown format %q: use yaml or json", configShowFormat)
		}
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a configuration document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Configuration validation: %s\n", path)

		result, err := config.ValidateFile(path)
		if err != nil {
			fmt.Fprintf(w, "  %s %v\n", cliError.Render("[FAIL]"), err)
			return failure.Wrap(failure.EConfig, "validating "+path, err)
		}
		if result.Valid {
			if _, err := config.Load(path); err != nil {
				fmt.Fprintf(w, "  %s %v\n", cliError.Render("[FAIL]"), err)
				return err
			}
			fmt.Fprintf(w, "  %s Valid configuration\n", cliSuccess.Render("[ OK ]"))
			return nil
		}

		fmt.Fprintf(w, "  %s %d validation issue(s):\n", cliError.Render("[FAIL]"), len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "    - %s\n", issue)
		}
		return failure.Newf(failure.EConfig, "%s has %d validation issue(s)", path, len(result.Issues))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a user setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings.Load()
		key, value := args[0], args[1]
		if err := settings.Set(key, value); err != nil {
			return failure.Wrap(failure.EUsage, fmt.Sprintf("setting %q", key), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a user setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings.Load()
		key := args[0]
		if !slices.Contains(settings.Keys(), key) {
			return failure.Newf(failure.EUsage, "unknown setting %q: known settings are %s", key, strings.Join(settings.Keys(), ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), settings.Get(key))
		return nil
	},
}
