// Package language binds a target language to its generators and its
// environment setup. A Registry maps names and aliases ("python", "py") to
// Providers; the Python provider scaffolds from the embedded templates and
// provisions a virtualenv with pip.
package language
