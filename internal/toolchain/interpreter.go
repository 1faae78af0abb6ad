package toolchain

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// FindInterpreter returns the first candidate resolvable on PATH.
func FindInterpreter(r Runner, candidates ...string) (string, error) {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if _, err := r.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("none of %s found on PATH", strings.Join(candidates, ", "))
}

// InterpreterVersion runs `<name> --version` and parses the first version
// number in its output. Older Pythons print the version on stderr.
func InterpreterVersion(ctx context.Context, r Runner, name string) (*semver.Version, error) {
	out, err := r.Run(ctx, Command{Name: name, Args: []string{"--version"}})
	if err != nil {
		return nil, err
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("%s --version exited with status %d", name, out.ExitCode)
	}
	return ParseVersion(out.Stdout + " " + out.Stderr)
}

// ParseVersion extracts the first dotted version number from text.
func ParseVersion(text string) (*semver.Version, error) {
	match := versionPattern.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no version number in %q", strings.TrimSpace(text))
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", match, err)
	}
	return v, nil
}

// Satisfies reports whether have meets the minimum version want, a partial
// version like "3.9". An empty want is always satisfied.
func Satisfies(have *semver.Version, want string) (bool, error) {
	want = strings.TrimSpace(want)
	if want == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(">= " + want)
	if err != nil {
		return false, fmt.Errorf("invalid version requirement %q: %w", want, err)
	}
	return c.Check(have), nil
}
