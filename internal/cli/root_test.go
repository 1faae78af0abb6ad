package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/toolchain"
	"github.com/spf13/viper"
)

const flaskConfigDoc = `[general]
language = "python"
version = "3.12"

[web]
dependencies = ["flask"]
main_file_template = "web/fastapi/main.py.template"

[cli]
dependencies = []
main_file_template = "cli/main.py.template"

[data_science]
dependencies = []
main_file_template = "data_science/main.py.template"

[base]
dependencies = []
main_file_template = "base/main.py.template"

[test]
framework = ""
`

// isolateHome points settings at an empty home directory for the test.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

// executeCommand runs the root command with fresh flag and settings state,
// returning combined output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	logger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(logger) })

	configFile, outputDir, noSetup, verbose = "", "", false, false
	versionShort, versionJSON = false, false
	configShowFormat, configShowLanguage = "yaml", "python"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootScaffoldsProject(t *testing.T) {
	isolateHome(t)
	dir := filepath.Join(t.TempDir(), "api")
	out, err := executeCommand(t, "", "python", "web", "api", "--output-dir", dir, "--no-setup")
	if err != nil {
		t.Fatalf("execute error: %v\n%s", err, out)
	}

	for _, f := range []string{".gitignore", "README.md", "main.py", "requirements.txt"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("%s not generated: %v", f, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fastapi\nuvicorn\npytest\n" {
		t.Errorf("requirements.txt = %q", data)
	}
	for _, want := range []string{"Created api at", "Next steps:", "pip install -r requirements.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRootRunsEnvironmentSetup(t *testing.T) {
	isolateHome(t)
	runner := &toolchain.StubRunner{}
	orig := newSetupRunner
	newSetupRunner = func(io.Writer) toolchain.Runner { return runner }
	t.Cleanup(func() { newSetupRunner = orig })

	dir := filepath.Join(t.TempDir(), "api")
	out, err := executeCommand(t, "", "python", "web", "api", "--output-dir", dir)
	if err != nil {
		t.Fatalf("execute error: %v\n%s", err, out)
	}

	calls := runner.Recorded()
	if len(calls) == 0 {
		t.Fatal("no setup commands were run")
	}
	if got := strings.Join(calls[0].Args, " "); got != "-m venv "+filepath.Join(dir, "venv") {
		t.Errorf("venv args = %q", got)
	}
	if !strings.Contains(out, "venv/bin/pip install -r requirements.txt") {
		t.Errorf("next steps should include installing requirements:\n%s", out)
	}
	if strings.Contains(out, "python3 -m venv venv") {
		t.Errorf("next steps should not repeat venv creation after setup:\n%s", out)
	}
}

func TestRootVerboseLogsConfigLoading(t *testing.T) {
	isolateHome(t)
	t.Setenv("POQ_DEBUG", "")
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "poq.toml")
	if err := os.WriteFile(cfgPath, []byte(flaskConfigDoc), 0644); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(tmp, "tool")
	out, err := executeCommand(t, "", "python", "cli", "tool", "-v", "-c", cfgPath, "--output-dir", dir, "--no-setup")
	if err != nil {
		t.Fatalf("execute error: %v\n%s", err, out)
	}
	for _, want := range []string{"loading configuration", "configuration loaded"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, "", "python", "cli", "tool2", "-c", cfgPath, "--output-dir", filepath.Join(tmp, "tool2"), "--no-setup")
	if err != nil {
		t.Fatalf("execute error: %v\n%s", err, out)
	}
	if strings.Contains(out, "loading configuration") {
		t.Errorf("debug lines should be hidden without --verbose:\n%s", out)
	}
}

func TestRootPromptsForMissingValues(t *testing.T) {
	isolateHome(t)
	dir := filepath.Join(t.TempDir(), "tool")
	out, err := executeCommand(t, "2\ntool\n", "py", "--output-dir", dir, "--no-setup")
	if err != nil {
		t.Fatalf("execute error: %v\n%s", err, out)
	}
	main, err := os.ReadFile(filepath.Join(dir, "main.py"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(main), "argparse") {
		t.Errorf("expected the cli archetype, main.py:\n%s", main)
	}
}

func TestRootConfigFlag(t *testing.T) {
	isolateHome(t)
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "poq.toml")
	if err := os.WriteFile(cfgPath, []byte(flaskConfigDoc), 0644); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(tmp, "svc")
	if out, err := executeCommand(t, "", "python", "web", "svc", "-c", cfgPath, "--output-dir", dir, "--no-setup"); err != nil {
		t.Fatalf("execute error: %v\n%s", err, out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "flask\n" {
		t.Errorf("requirements.txt = %q, want %q", data, "flask\n")
	}
	readme, _ := os.ReadFile(filepath.Join(dir, "README.md"))
	if !strings.Contains(string(readme), "3.12") {
		t.Errorf("README should mention the configured version:\n%s", readme)
	}
}

func TestRootErrors(t *testing.T) {
	isolateHome(t)
	tests := []struct {
		name string
		args []string
		kind failure.Kind
	}{
		{"unsupported language", []string{"cobol", "web", "x", "--no-setup"}, failure.EUnsupportedLanguage},
		{"missing config", []string{"python", "web", "x", "-c", "/nonexistent/poq.toml", "--no-setup"}, failure.EConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--output-dir", filepath.Join(t.TempDir(), "x"))
			_, err := executeCommand(t, "", args...)
			if !failure.Is(err, tt.kind) {
				t.Fatalf("error = %v, want kind %q", err, tt.kind)
			}
			if failure.ExitCode(err) != 1 {
				t.Errorf("ExitCode = %d, want 1", failure.ExitCode(err))
			}
		})
	}
}

func TestLanguagesCommand(t *testing.T) {
	isolateHome(t)
	out, err := executeCommand(t, "", "languages")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	for _, want := range []string{"python", "py", "web", "cli", "data_science", "base"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	isolateHome(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	out, err := executeCommand(t, "", "version", "--short")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("short version = %q", out)
	}

	out, err = executeCommand(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info["commit"] != "abc123" {
		t.Errorf("commit = %q", info["commit"])
	}
}

func TestConfigShow(t *testing.T) {
	isolateHome(t)
	out, err := executeCommand(t, "", "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if _, ok := doc["data_science"]; !ok {
		t.Errorf("missing data_science section:\n%s", out)
	}

	out, err = executeCommand(t, "", "config", "show")
	if err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out, "framework: pytest") {
		t.Errorf("yaml output missing test framework:\n%s", out)
	}

	if _, err := executeCommand(t, "", "config", "show", "--format", "xml"); !failure.Is(err, failure.EUsage) {
		t.Errorf("error = %v, want kind %q", err, failure.EUsage)
	}
}

func TestConfigValidate(t *testing.T) {
	isolateHome(t)
	tmp := t.TempDir()
	bad := filepath.Join(tmp, "bad.toml")
	if err := os.WriteFile(bad, []byte("[general]\nlanguage = \"python\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "", "config", "validate", bad)
	if !failure.Is(err, failure.EConfig) {
		t.Fatalf("error = %v, want kind %q", err, failure.EConfig)
	}
	if !strings.Contains(out, "validation issue") {
		t.Errorf("output should list issues:\n%s", out)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	isolateHome(t)
	if out, err := executeCommand(t, "", "config", "set", "python", "python3.12"); err != nil {
		t.Fatalf("set error: %v\n%s", err, out)
	}
	out, err := executeCommand(t, "", "config", "get", "python")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if strings.TrimSpace(out) != "python3.12" {
		t.Errorf("get python = %q, want python3.12", out)
	}

	if _, err := executeCommand(t, "", "config", "get", "nonsense"); !failure.Is(err, failure.EUsage) {
		t.Errorf("get unknown key error = %v, want kind %q", err, failure.EUsage)
	}
	if _, err := executeCommand(t, "", "config", "set", "setup_timeout", "soon"); !failure.Is(err, failure.EUsage) {
		t.Errorf("set invalid duration error = %v, want kind %q", err, failure.EUsage)
	}
}

func TestDoctor(t *testing.T) {
	isolateHome(t)
	orig := doctorRunner
	t.Cleanup(func() { doctorRunner = orig })

	t.Run("healthy", func(t *testing.T) {
		doctorRunner = &toolchain.StubRunner{Outputs: map[string]*toolchain.Output{
			"python3": {Stdout: "Python 3.11.4\n"},
		}}
		out, err := executeCommand(t, "", "doctor")
		if err != nil {
			t.Fatalf("execute error: %v\n%s", err, out)
		}
		if !strings.Contains(out, "satisfies >= 3.9") {
			t.Errorf("output missing version check:\n%s", out)
		}
	})

	t.Run("too old", func(t *testing.T) {
		doctorRunner = &toolchain.StubRunner{Outputs: map[string]*toolchain.Output{
			"python3": {Stdout: "Python 3.8.10\n"},
		}}
		out, err := executeCommand(t, "", "doctor")
		if !failure.Is(err, failure.EEnvironmentSetup) {
			t.Fatalf("error = %v, want kind %q\n%s", err, failure.EEnvironmentSetup, out)
		}
		if !strings.Contains(out, "older than required 3.9") {
			t.Errorf("output missing failure:\n%s", out)
		}
	})

	t.Run("missing interpreter", func(t *testing.T) {
		doctorRunner = &toolchain.StubRunner{Available: []string{}}
		_, err := executeCommand(t, "", "doctor")
		if !failure.Is(err, failure.EEnvironmentSetup) {
			t.Fatalf("error = %v, want kind %q", err, failure.EEnvironmentSetup)
		}
	})
}

func TestRootUsageErrors(t *testing.T) {
	isolateHome(t)
	tests := [][]string{
		{"python", "web", "x", "extra"},
		{"--no-such-flag"},
	}
	for _, args := range tests {
		_, err := executeCommand(t, "", args...)
		if failure.ExitCode(err) != 2 {
			t.Errorf("args %v: error = %v, want usage exit code 2", args, err)
		}
	}
}
