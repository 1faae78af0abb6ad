package toolchain

import (
	"context"
	"fmt"
	"sync"
)

// StubRunner records commands and replies from a canned table. It is used by
// tests of packages that shell out through a Runner.
type StubRunner struct {
	mu sync.Mutex

	// Outputs maps a command's program name to its reply. Missing entries exit 0.
	Outputs map[string]*Output
	// Errors maps a program name to an error returned instead of running.
	Errors map[string]error
	// Available lists the names LookPath resolves. Nil means every name resolves.
	Available []string

	Calls []Command
}

// Run implements Runner.
func (s *StubRunner) Run(_ context.Context, cmd Command) (*Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, cmd)
	if err, ok := s.Errors[cmd.Name]; ok {
		return nil, err
	}
	if out, ok := s.Outputs[cmd.Name]; ok {
		return out, nil
	}
	return &Output{}, nil
}

// LookPath implements Runner.
func (s *StubRunner) LookPath(name string) (string, error) {
	if s.Available == nil {
		return "/usr/bin/" + name, nil
	}
	for _, a := range s.Available {
		if a == name {
			return "/usr/bin/" + name, nil
		}
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Recorded returns a copy of the commands run so far.
func (s *StubRunner) Recorded() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.Calls...)
}
