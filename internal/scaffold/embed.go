package scaffold

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// DefaultSource returns the built-in template tree, rooted so that
// "python/base/readme.template" resolves directly.
func DefaultSource() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return sub
}
