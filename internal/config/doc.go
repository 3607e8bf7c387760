// Package config defines the packaging task consumed by one pipeline run
// and provides helpers to load, validate and save it in YAML format.
//
// Validation applies defaults, resolves the target platform and discards
// the per-platform configuration blocks that do not match it, so the rest
// of the pipeline sees at most one platform block.
package config
