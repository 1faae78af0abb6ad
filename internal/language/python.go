package language

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/platform"
	"github.com/poq-labs/poq/internal/scaffold"
	"github.com/poq-labs/poq/internal/toolchain"
	"github.com/spf13/afero"
)

const venvDir = "venv"

// PythonLayout is the template and output layout for Python projects.
var PythonLayout = scaffold.Layout{
	Language:      "python",
	EntryTemplate: "main.py.template",
	EntryFile:     "main.py",
	ManifestFile:  "requirements.txt",
}

// PythonOptions configures the Python provider. Zero values select defaults.
type PythonOptions struct {
	Runner      toolchain.Runner // defaults to an ExecRunner writing nowhere
	Interpreter string           // defaults to python3, then python
	Timeout     time.Duration    // bound on environment setup; zero means none
	Templates   fs.FS            // template root; defaults to the embedded templates
	FS          afero.Fs         // output filesystem; defaults to the OS filesystem
	Logger      *slog.Logger
}

// Python is the Provider for Python projects.
type Python struct {
	opts PythonOptions
}

// NewPython creates the Python provider.
func NewPython(opts PythonOptions) *Python {
	if opts.Runner == nil {
		opts.Runner = &toolchain.ExecRunner{}
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Python{opts: opts}
}

func (p *Python) Name() string      { return "python" }
func (p *Python) Aliases() []string { return []string{"py"} }

func (p *Python) DefaultConfig() (*config.Config, error) {
	return config.Default(p.Name())
}

func (p *Python) BuildGenerator(a archetype.Archetype) (*scaffold.Generator, error) {
	return scaffold.New(a, PythonLayout, scaffold.Options{
		Source: p.opts.Templates,
		FS:     p.opts.FS,
		Logger: p.opts.Logger,
	})
}

// SetupEnvironment creates <project>/venv and, when the project already has
// a requirements.txt, installs it with the venv's pip.
func (p *Python) SetupEnvironment(ctx context.Context, proj scaffold.Project) error {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	interp, err := p.interpreter()
	if err != nil {
		return failure.Wrap(failure.EEnvironmentSetup, "no Python interpreter available", err)
	}

	venv := filepath.Join(proj.Path, venvDir)
	p.opts.Logger.Debug("creating virtual environment", "interpreter", interp, "path", venv)
	if err := p.run(ctx, toolchain.Command{Name: interp, Args: []string{"-m", "venv", venv}}); err != nil {
		return err
	}

	requirements := filepath.Join(proj.Path, PythonLayout.ManifestFile)
	exists, err := afero.Exists(p.opts.FS, requirements)
	if err != nil {
		return failure.Wrap(failure.EEnvironmentSetup, "checking "+requirements, err)
	}
	if !exists {
		p.opts.Logger.Debug("no requirements to install", "path", requirements)
		return nil
	}

	// pip runs from the project directory, so the manifest path is project-relative.
	absVenv := absPath(venv)
	pip := platform.VenvExecutable(absVenv, "pip")
	p.opts.Logger.Debug("installing requirements", "pip", pip, "dir", proj.Path)
	return p.run(ctx, toolchain.Command{
		Name: pip,
		Args: []string{"install", "-r", PythonLayout.ManifestFile},
		Dir:  proj.Path,
		Env:  map[string]string{"VIRTUAL_ENV": absVenv},
	})
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func (p *Python) interpreter() (string, error) {
	if p.opts.Interpreter != "" {
		return p.opts.Interpreter, nil
	}
	return toolchain.FindInterpreter(p.opts.Runner, "python3", "python")
}

func (p *Python) run(ctx context.Context, cmd toolchain.Command) error {
	out, err := p.opts.Runner.Run(ctx, cmd)
	if err != nil {
		return failure.Wrap(failure.EEnvironmentSetup, "running "+cmd.String(), err)
	}
	if out.ExitCode != 0 {
		msg := fmt.Sprintf("%s exited with status %d", cmd, out.ExitCode)
		if stderr := strings.TrimSpace(out.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		return failure.New(failure.EEnvironmentSetup, msg)
	}
	return nil
}
