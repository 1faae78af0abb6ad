package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/settings"
	"github.com/poq-labs/poq/internal/toolchain"
	"github.com/spf13/cobra"
)

// doctorRunner is replaced in tests.
var doctorRunner toolchain.Runner = &toolchain.ExecRunner{}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the local toolchain can set up generated projects",
	Long: `Run diagnostic checks: the Python interpreter is on PATH, its version meets
general.version from the configuration document, pip and venv are usable,
and user settings point at existing files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings.Load()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg == nil {
			if cfg, err = config.Default("python"); err != nil {
				return err
			}
		}

		if failed := runDoctor(cmd.Context(), cmd.OutOrStdout(), doctorRunner, cfg); failed > 0 {
			return failure.Newf(failure.EEnvironmentSetup, "%d check(s) failed", failed)
		}
		return nil
	},
}

// runDoctor prints every check and returns how many failed.
func runDoctor(ctx context.Context, w io.Writer, r toolchain.Runner, cfg *config.Config) int {
	failed := runInterpreterCheck(ctx, w, r, cfg.General.Version)
	failed += runSettingsCheck(w)
	return failed
}

func runInterpreterCheck(ctx context.Context, w io.Writer, r toolchain.Runner, want string) int {
	fmt.Fprintln(w, "Interpreter check:")

	interp := settings.Get(settings.KeyPython)
	if interp == "" {
		found, err := toolchain.FindInterpreter(r, "python3", "python")
		if err != nil {
			fmt.Fprintf(w, "  %s %v\n", cliError.Render("[MISS]"), err)
			return 1
		}
		interp = found
	} else if _, err := r.LookPath(interp); err != nil {
		fmt.Fprintf(w, "  %s configured interpreter %s not found\n", cliError.Render("[MISS]"), interp)
		return 1
	}
	path, _ := r.LookPath(interp)
	fmt.Fprintf(w, "  %s %s found at %s\n", cliSuccess.Render("[ OK ]"), interp, path)

	failed := 0
	v, err := toolchain.InterpreterVersion(ctx, r, interp)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  %s cannot determine version: %v\n", cliError.Render("[FAIL]"), err)
		failed++
	default:
		ok, err := toolchain.Satisfies(v, want)
		switch {
		case err != nil:
			fmt.Fprintf(w, "  %s %v\n", cliWarn.Render("[WARN]"), err)
		case ok:
			fmt.Fprintf(w, "  %s version %s satisfies >= %s\n", cliSuccess.Render("[ OK ]"), v, want)
		default:
			fmt.Fprintf(w, "  %s version %s is older than required %s\n", cliError.Render("[FAIL]"), v, want)
			failed++
		}
	}

	for _, module := range []string{"venv", "pip"} {
		out, err := r.Run(ctx, toolchain.Command{Name: interp, Args: []string{"-m", module, "--help"}})
		if err != nil || out.ExitCode != 0 {
			fmt.Fprintf(w, "  %s %s -m %s is not usable\n", cliWarn.Render("[WARN]"), interp, module)
			continue
		}
		fmt.Fprintf(w, "  %s %s module available\n", cliSuccess.Render("[ OK ]"), module)
	}
	return failed
}

func runSettingsCheck(w io.Writer) int {
	fmt.Fprintln(w, "Settings check:")

	if _, err := os.Stat(settings.FilePath()); err != nil {
		fmt.Fprintf(w, "  %s no settings file at %s (defaults in use)\n", cliMuted.Render("[INFO]"), settings.FilePath())
	} else {
		fmt.Fprintf(w, "  %s %s\n", cliSuccess.Render("[ OK ]"), settings.FilePath())
	}

	failed := 0
	for _, key := range []string{settings.KeyConfig, settings.KeyTemplatesDir} {
		value := settings.Get(key)
		if value == "" {
			continue
		}
		if _, err := os.Stat(value); err != nil {
			fmt.Fprintf(w, "  %s %s points at missing path %s\n", cliError.Render("[FAIL]"), key, value)
			failed++
			continue
		}
		fmt.Fprintf(w, "  %s %s = %s\n", cliSuccess.Render("[ OK ]"), key, value)
	}
	return failed
}
