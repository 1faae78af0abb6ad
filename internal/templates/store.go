package templates

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strings"
	"text/template"

	"github.com/poq-labs/poq/internal/failure"
)

// placeholderPattern matches bare {{ name }} references so they can be
// rewritten to text/template field lookups.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// actionKeywords are text/template words that must not be rewritten.
var actionKeywords = map[string]bool{
	"end": true, "else": true, "nil": true, "true": true, "false": true,
	"break": true, "continue": true,
}

// funcMap provides helpers available in all templates, e.g. {{snake .project_name}}.
var funcMap = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	// snake turns "my-app" into "my_app", suitable for module identifiers.
	"snake": func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "-", "_")
	},
}

// Mapping pairs a logical template name with a file name relative to a
// batch's base directory.
type Mapping struct {
	Name string
	File string
}

// Store holds named template bodies. Registration only mutates memory; the
// source filesystem is read, never written.
type Store struct {
	src       fs.FS
	templates map[string]string
	logger    *slog.Logger
}

// NewStore creates a Store that reads template sources from src. src may be
// nil if templates are only registered from strings.
func NewStore(src fs.FS, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		src:       src,
		templates: make(map[string]string),
		logger:    logger,
	}
}

// Register stores body under name, replacing any previous body. The body is
// not parsed until it is rendered.
func (s *Store) Register(name, body string) {
	s.templates[name] = body
}

// RegisterFromSource reads the file at p from the source filesystem and
// registers its contents under name.
func (s *Store) RegisterFromSource(name, p string) error {
	s.logger.Debug("registering template", "name", name, "path", p)
	if s.src == nil {
		return failure.Newf(failure.ETemplateSource, "failed to read template %q: no template source configured", p)
	}
	data, err := fs.ReadFile(s.src, p)
	if err != nil {
		s.logger.Error("failed to read template", "path", p, "error", err)
		return failure.Wrap(failure.ETemplateSource, fmt.Sprintf("failed to read template %q", p), err)
	}
	s.Register(name, string(data))
	return nil
}

// LoadBatch registers each mapping from baseDir. It stops at the first file
// that cannot be read; mappings before it stay registered.
func (s *Store) LoadBatch(baseDir string, mappings []Mapping) error {
	for _, m := range mappings {
		if err := s.RegisterFromSource(m.Name, path.Join(baseDir, m.File)); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether name is registered.
func (s *Store) Has(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// Names returns the registered template names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Render substitutes every placeholder in the named template with its
// value from ctx.
func (s *Store) Render(name string, ctx Context) (string, error) {
	s.logger.Debug("rendering template", "name", name)

	body, ok := s.templates[name]
	if !ok {
		return "", failure.Newf(failure.ETemplateRender, "template %q is not registered", name)
	}

	tmpl, err := template.New(name).
		Funcs(funcMap).
		Option("missingkey=error").
		Parse(rewritePlaceholders(body))
	if err != nil {
		s.logger.Error("failed to parse template", "name", name, "error", err)
		return "", failure.Wrap(failure.ETemplateRender, fmt.Sprintf("failed to parse template %q", name), err)
	}

	data := map[string]string(ctx)
	if data == nil {
		data = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render template", "name", name, "error", err)
		return "", failure.Wrap(failure.ETemplateRender, fmt.Sprintf("failed to render template %q", name), err)
	}
	return buf.String(), nil
}

// rewritePlaceholders turns {{name}} into {{.name}}, leaving Go-style
// actions and template keywords untouched.
func rewritePlaceholders(body string) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		if actionKeywords[name] {
			return m
		}
		return "{{." + name + "}}"
	})
}
