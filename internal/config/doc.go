// Package config loads the configuration document that drives generation:
// the target language and version, the per-archetype dependency lists, and the
// test framework appended to every dependency manifest. Documents are TOML,
// read through viper, and checked against an embedded JSON schema.
package config
