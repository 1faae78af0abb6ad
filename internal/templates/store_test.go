package templates

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/poq-labs/poq/internal/failure"
)

func TestRender(t *testing.T) {
	t.Run("hello world", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.Register("test", "Hello, {{name}}!")

		got, err := s.Render("test", Context{"name": "World"})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if got != "Hello, World!" {
			t.Errorf("Render() = %q, want %q", got, "Hello, World!")
		}
	})

	t.Run("multiple vars", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.Register("test", "Project: {{project_name}}, Language: {{language}}")

		got, err := s.Render("test", Context{"project_name": "my-app", "language": "python"})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if got != "Project: my-app, Language: python" {
			t.Errorf("Render() = %q", got)
		}
	})

	t.Run("whitespace inside braces", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.Register("test", "[{{ name }}]")

		got, err := s.Render("test", Context{"name": "x"})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if got != "[x]" {
			t.Errorf("Render() = %q, want %q", got, "[x]")
		}
	})

	t.Run("go style and helpers", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.Register("test", "{{.project_name}} {{snake .project_name}} {{if .language}}ok{{end}}")

		got, err := s.Render("test", Context{"project_name": "My-App", "language": "python"})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if got != "My-App my_app ok" {
			t.Errorf("Render() = %q", got)
		}
	})

	t.Run("no placeholders", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.Register("plain", "__pycache__/\n*.pyc\n")

		got, err := s.Render("plain", nil)
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if got != "__pycache__/\n*.pyc\n" {
			t.Errorf("Render() = %q", got)
		}
	})
}

func TestRenderUnregistered(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Render("missing", Context{})
	if err == nil {
		t.Fatal("expected error for unregistered template")
	}
	if got := failure.KindOf(err); got != failure.ETemplateRender {
		t.Errorf("error kind = %q, want %q", got, failure.ETemplateRender)
	}
}

func TestRenderMissingKey(t *testing.T) {
	s := NewStore(nil, nil)
	s.Register("test", "Hello {{name}}, your role is {{role}}")

	_, err := s.Render("test", Context{"name": "Ada"})
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if got := failure.KindOf(err); got != failure.ETemplateRender {
		t.Errorf("error kind = %q, want %q", got, failure.ETemplateRender)
	}
}

func TestRenderMalformed(t *testing.T) {
	s := NewStore(nil, nil)
	s.Register("broken", "{{#if name}}x{{/if}}")

	_, err := s.Render("broken", Context{"name": "x"})
	if !failure.Is(err, failure.ETemplateRender) {
		t.Fatalf("error = %v, want kind %q", err, failure.ETemplateRender)
	}
}

func TestRegisterOverwrites(t *testing.T) {
	s := NewStore(nil, nil)
	s.Register("t", "one")
	s.Register("t", "two")

	got, err := s.Render("t", nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "two" {
		t.Errorf("Render() = %q, want %q", got, "two")
	}
}

func TestRegisterFromSource(t *testing.T) {
	src := fstest.MapFS{
		"python/base/readme.template": &fstest.MapFile{Data: []byte("# {{project_name}}\n")},
	}
	s := NewStore(src, nil)

	if err := s.RegisterFromSource("readme", "python/base/readme.template"); err != nil {
		t.Fatalf("RegisterFromSource() error: %v", err)
	}
	got, err := s.Render("readme", Context{"project_name": "demo"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "# demo\n" {
		t.Errorf("Render() = %q", got)
	}

	err = s.RegisterFromSource("main", "python/base/main.py.template")
	if !failure.Is(err, failure.ETemplateSource) {
		t.Fatalf("error = %v, want kind %q", err, failure.ETemplateSource)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist: %v", err)
	}
	if s.Has("main") {
		t.Error("failed registration should not register the name")
	}
}

func TestRegisterFromSourceWithoutSource(t *testing.T) {
	s := NewStore(nil, nil)
	if err := s.RegisterFromSource("x", "x.template"); !failure.Is(err, failure.ETemplateSource) {
		t.Fatalf("error = %v, want kind %q", err, failure.ETemplateSource)
	}
}

func TestLoadBatch(t *testing.T) {
	src := fstest.MapFS{
		"base/gitignore.template": &fstest.MapFile{Data: []byte("venv/\n")},
		"base/readme.template":    &fstest.MapFile{Data: []byte("# {{project_name}}\n")},
	}

	t.Run("all present", func(t *testing.T) {
		s := NewStore(src, nil)
		err := s.LoadBatch("base", []Mapping{
			{Name: "gitignore", File: "gitignore.template"},
			{Name: "readme", File: "readme.template"},
		})
		if err != nil {
			t.Fatalf("LoadBatch() error: %v", err)
		}
		names := s.Names()
		if len(names) != 2 || names[0] != "gitignore" || names[1] != "readme" {
			t.Errorf("Names() = %v", names)
		}
	})

	t.Run("stops at first failure", func(t *testing.T) {
		s := NewStore(src, nil)
		err := s.LoadBatch("base", []Mapping{
			{Name: "gitignore", File: "gitignore.template"},
			{Name: "license", File: "license.template"},
			{Name: "readme", File: "readme.template"},
		})
		if !failure.Is(err, failure.ETemplateSource) {
			t.Fatalf("error = %v, want kind %q", err, failure.ETemplateSource)
		}
		if !s.Has("gitignore") {
			t.Error("mapping before the failure should stay registered")
		}
		if s.Has("readme") {
			t.Error("mapping after the failure should not be registered")
		}
	})
}
