// Package toolchain runs external language toolchain commands (interpreters,
// package installers) on behalf of a language provider. The Runner interface
// is the seam tests replace with a stub.
package toolchain
