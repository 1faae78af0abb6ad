// Package scaffold generates project skeletons from templates. One Generator
// exists per archetype; each writes the project directory, the shared base
// files (.gitignore, README.md), the archetype's entry file, and, for every
// archetype except base, a dependency manifest.
package scaffold
