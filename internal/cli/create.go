package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/language"
	"github.com/poq-labs/poq/internal/orchestrator"
	"github.com/poq-labs/poq/internal/scaffold"
	"github.com/poq-labs/poq/internal/settings"
	"github.com/poq-labs/poq/internal/toolchain"
	"github.com/spf13/cobra"
)

// newSetupRunner builds the runner for environment setup; tool output is
// streamed to w with --verbose.
var newSetupRunner = func(w io.Writer) toolchain.Runner {
	r := &toolchain.ExecRunner{}
	if verbose {
		r.Stdout = w
		r.Stderr = w
	}
	return r
}

func runCreate(cmd *cobra.Command, args []string) error {
	settings.Load()
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := language.Default(language.PythonOptions{
		Runner:      newSetupRunner(cmd.ErrOrStderr()),
		Interpreter: settings.Get(settings.KeyPython),
		Timeout:     settings.SetupTimeout(),
		Templates:   templateSource(),
		Logger:      logger,
	})

	req, err := resolveRequest(args, registry, newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	req.Dir = outputDir
	req.SkipSetup = noSetup

	o := orchestrator.New(registry, orchestrator.Options{Config: cfg, Logger: logger})
	result, err := o.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), req, result)
	return nil
}

// loadConfig reads the configuration document named by --config or the
// "config" setting. A nil Config means the language's built-in document.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		path = settings.Get(settings.KeyConfig)
	}
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

// templateSource returns the user template override directory, or nil for
// the embedded templates.
func templateSource() fs.FS {
	dir := settings.Get(settings.KeyTemplatesDir)
	if dir == "" {
		return nil
	}
	return os.DirFS(dir)
}

func printResult(w io.Writer, req orchestrator.Request, result *scaffold.Result) {
	fmt.Fprintln(w, cliSuccess.Render(fmt.Sprintf("Created %s at %s/", req.Name, result.OutputDir)))
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", cliMuted.Render(f))
	}

	fmt.Fprintln(w, "\n"+cliTitle.Render("Next steps:"))
	fmt.Fprintf(w, "  cd %s\n", result.OutputDir)
	if req.SkipSetup {
		fmt.Fprintln(w, "  python3 -m venv venv")
	}
	if hasManifest(result) {
		fmt.Fprintln(w, "  venv/bin/pip install -r requirements.txt")
	}
	fmt.Fprintln(w, "  source venv/bin/activate")
	fmt.Fprintln(w, "  python main.py")
}

func hasManifest(result *scaffold.Result) bool {
	for _, f := range result.Files {
		if filepath.Base(f) == language.PythonLayout.ManifestFile {
			return true
		}
	}
	return false
}
