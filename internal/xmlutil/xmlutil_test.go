package xmlutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPrettifyIdempotent ensures a second pass produces identical output.
func TestPrettifyIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "descriptor.xml")
	raw := `<?xml version="1.0" encoding="UTF-8"?><root attr="v"><child>text</child><empty/></root>`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	require.NoError(t, Prettify(path))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Prettify(path))

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

// TestPrettifyPreservesContent checks attributes and character data survive.
func TestPrettifyPreservesContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "descriptor.xml")
	raw := `<root attr="value"><child>some text</child></root>`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	require.NoError(t, Prettify(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `attr="value"`)
	require.Contains(t, string(contents), "some text")
}

// TestPrettifyMalformed fails on broken markup.
func TestPrettifyMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<root><unclosed>"), 0o644))

	require.Error(t, Prettify(path))
}
