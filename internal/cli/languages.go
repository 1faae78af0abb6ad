package cli

import (
	"fmt"
	"strings"

	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/language"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(languagesCmd)
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and archetypes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		registry := language.Default(language.PythonOptions{})

		fmt.Fprintln(w, cliTitle.Render("Languages:"))
		for _, name := range registry.Supported() {
			p, err := registry.Lookup(name)
			if err != nil {
				return err
			}
			line := "  " + name
			if aliases := p.Aliases(); len(aliases) > 0 {
				line += cliMuted.Render(" (aliases: " + strings.Join(aliases, ", ") + ")")
			}
			fmt.Fprintln(w, line)
		}

		fmt.Fprintln(w, "\n"+cliTitle.Render("Archetypes:"))
		for _, name := range archetype.Names() {
			fmt.Fprintf(w, "  %s\n", name)
		}
		return nil
	},
}
