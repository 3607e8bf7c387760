// Package render fills text and markup templates from the packaging state.
// Default templates are embedded in the binary; a task-configured assets
// directory may shadow any of them by relative template id, which is how
// users customize startup scripts, metadata files and installer descriptors
// without rebuilding the tool.
package render
