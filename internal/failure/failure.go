// Package failure defines the error kinds poq reports. Every failure that
// reaches the command surface carries one of these kinds so callers can
// classify it with errors.As instead of matching message text.
package failure

import (
	"errors"
	"fmt"
	"io"
)

// Kind is a stable error kind string.
type Kind string

// Error kinds.
const (
	EUsage                Kind = "E_USAGE"
	EConfig               Kind = "E_CONFIG"
	ETemplateSource       Kind = "E_TEMPLATE_SOURCE"
	ETemplateRender       Kind = "E_TEMPLATE_RENDER"
	EDirectoryCreate      Kind = "E_DIRECTORY_CREATE"
	EFileWrite            Kind = "E_FILE_WRITE"
	EEnvironmentSetup     Kind = "E_ENVIRONMENT_SETUP"
	EUnsupportedLanguage  Kind = "E_UNSUPPORTED_LANGUAGE"
	EUnsupportedArchetype Kind = "E_UNSUPPORTED_ARCHETYPE"
)

// Error is the error type returned by poq components.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

// Error returns "KIND: message" optionally followed by the cause.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given kind and message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Cause: err}
}

// KindOf extracts the kind from err, or "" if err is not (and does not wrap) an *Error.
// The outermost *Error wins.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode returns the process exit code for err: 0 for nil, 2 for usage
// errors, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if KindOf(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes err to w as "error: <message>", followed by the kind on its
// own line when one is known.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var fe *Error
	if errors.As(err, &fe) {
		fmt.Fprintf(w, "error: %s\n", err.Error())
		fmt.Fprintf(w, "error_kind: %s\n", fe.Kind)
		return
	}
	fmt.Fprintf(w, "error: %s\n", err.Error())
}
