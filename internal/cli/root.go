package cli

import (
	"github.com/poq-labs/poq/internal/branding"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	configFile string
	outputDir  string
	noSetup    bool
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration document (TOML); defaults to the built-in one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default: ./<name>)")
	rootCmd.Flags().BoolVar(&noSetup, "no-setup", false, "Skip creating the virtual environment and installing dependencies")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return failure.Wrap(failure.EUsage, "invalid flag", err)
	})
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " [language] [archetype] [name]",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds new projects from templates.

Given a language, an archetype (web, cli, data_science, base) and a project
name, it creates the project directory with a .gitignore, README, entry point
and dependency manifest, then sets up a local environment with the language
toolchain. Any value left off the command line is asked for interactively.

Examples:
  poq python web my-api
  poq py cli tool --output-dir ~/src/tool --no-setup
  poq`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(3)(cmd, args); err != nil {
			return failure.Wrap(failure.EUsage, "invalid arguments", err)
		}
		return nil
	},
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRun: setupLogging,
	RunE:             runCreate,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
