// Package settings manages user-level preferences stored at ~/.poq/config.yaml.
// It provides functions to load, read, and write keys such as the template
// override directory, the Python interpreter, and the environment setup timeout.
package settings
