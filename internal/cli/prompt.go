package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/poq-labs/poq/internal/archetype"
	"github.com/poq-labs/poq/internal/failure"
	"github.com/poq-labs/poq/internal/language"
	"github.com/poq-labs/poq/internal/orchestrator"
)

// Prompter asks for values missing from the command line.
type Prompter interface {
	Select(title string, options []string) (string, error)
	Input(title string) (string, error)
}

// newPrompter returns huh forms when in is a terminal and numbered menus
// otherwise (pipes, CI, tests).
func newPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return formPrompter{}
	}
	return &menuPrompter{reader: bufio.NewReader(in), w: out}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveRequest fills language, archetype and name from args, prompting for
// whatever is missing.
func resolveRequest(args []string, registry *language.Registry, p Prompter) (orchestrator.Request, error) {
	var req orchestrator.Request
	var err error

	if len(args) > 0 {
		req.Language = args[0]
	} else if req.Language, err = p.Select("Select language:", registry.Supported()); err != nil {
		return req, err
	}

	if len(args) > 1 {
		req.Archetype = args[1]
	} else if req.Archetype, err = p.Select("Select archetype:", archetype.Names()); err != nil {
		return req, err
	}

	if len(args) > 2 {
		req.Name = args[2]
	} else if req.Name, err = p.Input("Project name:"); err != nil {
		return req, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return req, failure.New(failure.EUsage, "project name is required")
	}
	return req, nil
}

type formPrompter struct{}

func (formPrompter) Select(title string, options []string) (string, error) {
	var selected string
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&selected).
		Run()
	return selected, promptError(err)
}

func (formPrompter) Input(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("a value is required")
			}
			return nil
		}).
		Run()
	return strings.TrimSpace(value), promptError(err)
}

func promptError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return failure.New(failure.EUsage, "cancelled")
	}
	return failure.Wrap(failure.EUsage, "reading input", err)
}

// menuPrompter reads numbered selections and free text line by line.
type menuPrompter struct {
	reader *bufio.Reader
	w      io.Writer
}

func (m *menuPrompter) Select(title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", failure.Newf(failure.EUsage, "%s no options available", title)
	}
	idx, err := selectFromList(m.reader, m.w, title, options)
	if err != nil {
		return "", err
	}
	return options[idx], nil
}

func (m *menuPrompter) Input(title string) (string, error) {
	fmt.Fprintf(m.w, "\n%s ", title)
	line, err := m.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", failure.Wrap(failure.EUsage, "reading input", err)
	}
	return strings.TrimSpace(line), nil
}

// selectFromList presents a numbered list and returns the selected index.
func selectFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string) (int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(items))

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return 0, failure.Wrap(failure.EUsage, "reading selection", err)
	}

	num, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || num < 1 || num > len(items) {
		return 0, failure.Newf(failure.EUsage, "invalid selection %q: choose 1-%d", strings.TrimSpace(line), len(items))
	}

	return num - 1, nil
}
