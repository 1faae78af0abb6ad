// Package platform hides operating-system differences: permission bits that
// only mean something on Unix and the layout of Python virtual environments,
// which keep executables in bin/ on Unix and Scripts\ with an .exe suffix on
// Windows.
package platform
