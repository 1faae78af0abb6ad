// Package cli defines the Cobra command tree for the poq CLI. The root command
// scaffolds a project; subcommands (languages, config, doctor, version) are
// registered from their own files. Commands delegate to internal packages and
// only handle flag parsing, prompting, and output formatting.
package cli
