package templates

import (
	"maps"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Context keys produced by the builders.
const (
	KeyProjectName          = "project_name"
	KeyProjectNameLowercase = "project_name_lowercase"
	KeyProjectNameUppercase = "project_name_uppercase"
	KeyLanguage             = "language"
	KeyLanguageVersion      = "language_version"
)

// Context maps placeholder names to substitution values.
type Context map[string]string

// Keys returns the context's keys, sorted.
func (c Context) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// ProjectContext derives the project name variables.
func ProjectContext(name string) Context {
	return Context{
		KeyProjectName:          name,
		KeyProjectNameLowercase: cases.Lower(language.Und).String(name),
		KeyProjectNameUppercase: cases.Upper(language.Und).String(name),
	}
}

// LanguageContext describes the target language.
func LanguageContext(lang, version string) Context {
	return Context{
		KeyLanguage:        lang,
		KeyLanguageVersion: version,
	}
}

// Merge combines contexts into a new one. When a key appears in more than
// one input, the value from the later argument wins. Inputs are not modified.
func Merge(contexts ...Context) Context {
	merged := make(Context)
	for _, c := range contexts {
		maps.Copy(merged, c)
	}
	return merged
}
