package language

import (
	"context"
	"slices"
	"strings"

	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/config"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/scaffold"
)

// Provider is everything poq knows about one target language.
type Provider interface {
	// Name returns the canonical lowercase language name.
	Name() string
	// Aliases returns alternative names accepted by Lookup.
	Aliases() []string
	// DefaultConfig returns the built-in configuration document.
	DefaultConfig() (*config.Config, error)
	// BuildGenerator returns a generator for the archetype.
	BuildGenerator(a archetype.Archetype) (*scaffold.Generator, error)
	// SetupEnvironment provisions the project's local dependency environment.
	SetupEnvironment(ctx context.Context, p scaffold.Project) error
}

// Registry resolves language names to providers.
type Registry struct {
	providers map[string]Provider
	names     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds p under its name and aliases. Later registrations win.
func (r *Registry) Register(p Provider) {
	name := strings.ToLower(p.Name())
	if !slices.Contains(r.names, name) {
		r.names = append(r.names, name)
	}
	r.providers[name] = p
	for _, alias := range p.Aliases() {
		r.providers[strings.ToLower(alias)] = p
	}
}

// Lookup returns the provider for name, case-insensitively.
func (r *Registry) Lookup(name string) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if p, ok := r.providers[key]; ok {
		return p, nil
	}
	return nil, failure.Newf(failure.EUnsupportedLanguage,
		"unsupported language %q (supported: %s)", name, strings.Join(r.Supported(), ", "))
}

// Supported returns the canonical names of registered languages, sorted.
func (r *Registry) Supported() []string {
	names := slices.Clone(r.names)
	slices.Sort(names)
	return names
}

// Default returns a registry holding the built-in providers.
func Default(opts PythonOptions) *Registry {
	r := NewRegistry()
	r.Register(NewPython(opts))
	return r
}
