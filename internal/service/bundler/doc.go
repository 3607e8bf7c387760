// Package bundler is the CLI entry point of the packaging workflow: it
// loads the task file and drives app assembly and installer generation.
package bundler
