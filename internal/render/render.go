package render

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates
var builtin embed.FS

// assetsDir is the user-supplied override directory. A file at
// <assetsDir>/<template id> shadows the embedded template of the same id.
// Guarded by assetsDirMu since concurrent runs may point at distinct
// output directories while sharing the process.
//
//nolint:gochecknoglobals // Mirrors the single-run template search path.
var (
	assetsDir   string
	assetsDirMu sync.RWMutex
)

// funcs are the helpers available to every template.
//
//nolint:gochecknoglobals // Template function table is immutable.
var funcs = template.FuncMap{
	"join": strings.Join,
}

// SetAssetsDir sets the directory searched for template overrides.
func SetAssetsDir(dir string) {
	assetsDirMu.Lock()
	defer assetsDirMu.Unlock()

	assetsDir = dir
}

// currentAssetsDir returns the active override directory.
func currentAssetsDir() string {
	assetsDirMu.RLock()
	defer assetsDirMu.RUnlock()

	return assetsDir
}

// Render executes the template identified by id against data and writes the
// result to outputFile. It fails when the template is missing, does not
// parse, or references data that cannot be resolved.
func Render(id, outputFile string, data any) error {
	contents, err := load(id)
	if err != nil {
		return err
	}

	parsed, err := template.New(id).Funcs(funcs).Parse(string(contents))
	if err != nil {
		return fmt.Errorf("parse template %s: %w", id, err)
	}

	var rendered bytes.Buffer
	if err = parsed.Execute(&rendered, data); err != nil {
		return fmt.Errorf("render template %s: %w", id, err)
	}

	if err = os.WriteFile(filepath.Clean(outputFile), rendered.Bytes(), 0o644); err != nil { //nolint:gosec // Generated descriptors are world-readable.
		return fmt.Errorf("write %s: %w", outputFile, err)
	}

	return nil
}

// load returns the template source, preferring the assets-dir override.
func load(id string) ([]byte, error) {
	if dir := currentAssetsDir(); dir != "" {
		override := filepath.Join(dir, filepath.FromSlash(id))
		if contents, err := os.ReadFile(filepath.Clean(override)); err == nil {
			return contents, nil
		}
	}

	contents, err := builtin.ReadFile(path.Join("templates", id))
	if err != nil {
		return nil, fmt.Errorf("template %s not found: %w", id, err)
	}

	return contents, nil
}
