package scaffold

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/templates"
	"github.com/spf13/afero"
)

// Logical template names and the files they render to.
const (
	GitignoreTemplate = "gitignore"
	ReadmeTemplate    = "readme"
	MainTemplate      = "main"

	GitignoreFile = ".gitignore"
	ReadmeFile    = "README.md"
)

// Project is the target of a generation request.
type Project struct {
	Name string
	Path string
}

// NewProject creates a Project. An empty path defaults to ./<name>.
func NewProject(name, dir string) Project {
	if dir == "" {
		dir = filepath.Join(".", name)
	}
	return Project{Name: name, Path: dir}
}

// Layout describes where a language's templates live and what the generated
// files are called.
type Layout struct {
	Root          string // template root inside the source FS; "" for the source root
	Language      string // e.g., "python"
	EntryTemplate string // e.g., "main.py.template"
	EntryFile     string // e.g., "main.py"
	ManifestFile  string // e.g., "requirements.txt"
}

// BaseDir returns the shared base-template directory for the language.
func (l Layout) BaseDir() string {
	return path.Join(l.Root, l.Language, "base")
}

// ArchetypeDir returns the template directory for a.
func (l Layout) ArchetypeDir(a archetype.Archetype) string {
	return path.Join(l.Root, l.Language, a.TemplateDir())
}

// Options configures a Generator.
type Options struct {
	Source fs.FS        // template sources; defaults to DefaultSource()
	FS     afero.Fs     // output filesystem; defaults to the OS filesystem
	Logger *slog.Logger // defaults to a discarding logger
}

// Result holds the outcome of a generation.
type Result struct {
	OutputDir string
	Files     []string
}

// Generator produces the skeleton for one archetype. Its template set is
// fixed at construction.
type Generator struct {
	archetype archetype.Archetype
	layout    Layout
	store     *templates.Store
	fs        afero.Fs
	logger    *slog.Logger
}

// New creates a Generator for a. The gitignore and readme templates always
// load from the language's base directory; the main template loads from the
// archetype's own directory.
func New(a archetype.Archetype, layout Layout, opts Options) (*Generator, error) {
	if opts.Source == nil {
		opts.Source = DefaultSource()
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store := templates.NewStore(opts.Source, opts.Logger)
	err := store.LoadBatch(layout.BaseDir(), []templates.Mapping{
		{Name: GitignoreTemplate, File: "gitignore.template"},
		{Name: ReadmeTemplate, File: "readme.template"},
	})
	if err != nil {
		return nil, fmt.Errorf("loading base templates: %w", err)
	}

	mainPath := path.Join(layout.ArchetypeDir(a), layout.EntryTemplate)
	if err := store.RegisterFromSource(MainTemplate, mainPath); err != nil {
		return nil, fmt.Errorf("loading %s main template: %w", a, err)
	}

	return &Generator{
		archetype: a,
		layout:    layout,
		store:     store,
		fs:        opts.FS,
		logger:    opts.Logger,
	}, nil
}

// Archetype returns the archetype the generator was built for.
func (g *Generator) Archetype() archetype.Archetype {
	return g.archetype
}

// Generate writes the project skeleton. Each step's failure aborts the
// remaining steps; files written by earlier steps are left in place.
// Existing files are overwritten.
func (g *Generator) Generate(ctx context.Context, p Project, cfg *config.Config) (*Result, error) {
	g.logger.Info("generating project", "name", p.Name, "archetype", g.archetype.String(), "path", p.Path)

	result := &Result{OutputDir: p.Path}

	if err := g.createProjectStructure(p); err != nil {
		return result, err
	}

	vars := g.Context(p, cfg)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := g.generateBaseFiles(p, vars, result); err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := g.renderAndWrite(MainTemplate, g.layout.EntryFile, vars, p, result); err != nil {
		return result, err
	}

	if g.archetype.HasManifest() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		section := cfg.ForArchetype(g.archetype)
		if err := g.generateManifest(p, section.Dependencies, cfg.Test.Framework, result); err != nil {
			return result, err
		}
	}

	g.logger.Info("project generated", "name", p.Name, "files", len(result.Files))
	return result, nil
}

// Context builds the substitution variables for p. The language name comes
// from the generator's layout; cfg supplies only the version.
func (g *Generator) Context(p Project, cfg *config.Config) templates.Context {
	return templates.Merge(
		templates.ProjectContext(p.Name),
		templates.LanguageContext(g.layout.Language, cfg.General.Version),
	)
}

func (g *Generator) createProjectStructure(p Project) error {
	g.logger.Debug("creating project directory", "path", p.Path)
	if err := g.fs.MkdirAll(p.Path, 0755); err != nil {
		g.logger.Error("failed to create directory", "path", p.Path, "error", err)
		return failure.Wrap(failure.EDirectoryCreate, fmt.Sprintf("failed to create directory %q", p.Path), err)
	}
	return nil
}

func (g *Generator) generateBaseFiles(p Project, vars templates.Context, result *Result) error {
	g.logger.Debug("generating base files")
	if err := g.renderAndWrite(GitignoreTemplate, GitignoreFile, vars, p, result); err != nil {
		return err
	}
	return g.renderAndWrite(ReadmeTemplate, ReadmeFile, vars, p, result)
}

func (g *Generator) generateManifest(p Project, deps []string, framework string, result *Result) error {
	g.logger.Debug("generating manifest", "file", g.layout.ManifestFile, "dependencies", len(deps))
	return g.write(p, g.layout.ManifestFile, Manifest(deps, framework), result)
}

func (g *Generator) renderAndWrite(name, file string, vars templates.Context, p Project, result *Result) error {
	content, err := g.store.Render(name, vars)
	if err != nil {
		return err
	}
	return g.write(p, file, content, result)
}

func (g *Generator) write(p Project, file, content string, result *Result) error {
	target := filepath.Join(p.Path, file)
	if err := afero.WriteFile(g.fs, target, []byte(content), 0644); err != nil {
		g.logger.Error("failed to write file", "path", target, "error", err)
		return failure.Wrap(failure.EFileWrite, fmt.Sprintf("failed to write %q", target), err)
	}
	result.Files = append(result.Files, file)
	return nil
}

// Manifest renders a dependency manifest: one dependency per line in the
// given order, then the test framework if non-empty, then a single trailing
// newline.
func Manifest(deps []string, framework string) string {
	lines := append([]string(nil), deps...)
	if framework != "" {
		lines = append(lines, framework)
	}
	return strings.Join(lines, "\n") + "\n"
}
