// Package archetype enumerates the project kinds poq can generate.
//
// Resolution from user input is lenient: any name that is not
// one of the known archetypes resolves to Base. Use Lookup when an unknown
// name must be reported instead.
package archetype

import (
	"fmt"
	"strings"

	"github.com/poq-labs/poq/internal/failure"
)

// Archetype is a project kind.
type Archetype int

// Known archetypes. Base is the zero value.
const (
	Base Archetype = iota
	CLI
	DataScience
	Web
)

// All returns every archetype in menu order.
func All() []Archetype {
	return []Archetype{Web, CLI, DataScience, Base}
}

// Names returns the canonical names of All, in the same order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.String()
	}
	return names
}

// String returns the canonical name, which is also the configuration
// section key ("base", "cli", "data_science", "web").
func (a Archetype) String() string {
	switch a {
	case CLI:
		return "cli"
	case DataScience:
		return "data_science"
	case Web:
		return "web"
	default:
		return "base"
	}
}

// TemplateDir returns the directory, relative to a language's template
// root, that holds this archetype's entry-file template.
func (a Archetype) TemplateDir() string {
	switch a {
	case Web:
		return "web/fastapi"
	default:
		return a.String()
	}
}

// HasManifest reports whether the archetype emits a dependency manifest.
func (a Archetype) HasManifest() bool {
	return a != Base
}

// Lookup returns the archetype with the given name. Matching ignores case,
// surrounding whitespace, and treats '-' as '_'.
func Lookup(name string) (Archetype, error) {
	switch normalize(name) {
	case "base":
		return Base, nil
	case "cli":
		return CLI, nil
	case "data_science":
		return DataScience, nil
	case "web":
		return Web, nil
	}
	return Base, failure.Newf(failure.EUnsupportedArchetype,
		"unsupported archetype %q: choose one of %s", name, strings.Join(Names(), ", "))
}

// Resolve returns the archetype with the given name, or Base for anything
// unrecognized, including the empty string.
func Resolve(name string) Archetype {
	a, err := Lookup(name)
	if err != nil {
		return Base
	}
	return a
}

// Set implements pflag.Value so an Archetype can be bound to a flag.
func (a *Archetype) Set(s string) error {
	v, err := Lookup(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Type implements pflag.Value.
func (a *Archetype) Type() string {
	return "archetype"
}

// MarshalText implements encoding.TextMarshaler.
func (a Archetype) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Archetype) UnmarshalText(b []byte) error {
	v, err := Lookup(string(b))
	if err != nil {
		return fmt.Errorf("decoding archetype: %w", err)
	}
	*a = v
	return nil
}

func normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}
