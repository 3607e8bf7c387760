// Package files groups the file-system primitives the packaging pipeline
// relies on: folder creation and removal, file and folder copies, plain URL
// downloads and extraction of embedded resources (with optional newline
// normalization for scripts). Every helper fails on I/O errors; callers
// decide whether a failure aborts the stage.
package files
