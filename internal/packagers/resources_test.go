package packagers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/app-packager/internal/config"
	"github.com/oshokin/app-packager/internal/platform"
)

// TestResolveIconDefault ensures icon resolution always produces a file,
// falling back to the bundled default.
func TestResolveIconDefault(t *testing.T) {
	t.Parallel()

	task := &config.Task{
		Name:      "Demo",
		Version:   "1.0",
		Platform:  platform.Linux,
		AssetsDir: t.TempDir(),
	}
	p := &Packager{task: task, assetsFolder: t.TempDir()}

	icon, err := p.resolveIcon(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(p.assetsFolder, "Demo.png"), icon)

	info, err := os.Stat(icon)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}

// TestResolveIconConventional ensures a per-platform icon under the assets
// directory wins over the bundled default.
func TestResolveIconConventional(t *testing.T) {
	t.Parallel()

	assetsDir := t.TempDir()
	iconFolder := filepath.Join(assetsDir, "linux")
	require.NoError(t, os.MkdirAll(iconFolder, 0o755))

	conventional := filepath.Join(iconFolder, "Demo.png")
	require.NoError(t, os.WriteFile(conventional, []byte("png"), 0o644))

	task := &config.Task{
		Name:      "Demo",
		Version:   "1.0",
		Platform:  platform.Linux,
		AssetsDir: assetsDir,
	}
	p := &Packager{task: task, assetsFolder: t.TempDir()}

	icon, err := p.resolveIcon(context.Background())
	require.NoError(t, err)
	require.Equal(t, conventional, icon)
}

// TestResolveIconExplicit ensures an explicit override wins over everything.
func TestResolveIconExplicit(t *testing.T) {
	t.Parallel()

	explicit := filepath.Join(t.TempDir(), "custom.png")
	require.NoError(t, os.WriteFile(explicit, []byte("png"), 0o644))

	task := &config.Task{
		Name:     "Demo",
		Version:  "1.0",
		Platform: platform.Linux,
		IconFile: explicit,
	}
	p := &Packager{task: task, assetsFolder: t.TempDir()}

	icon, err := p.resolveIcon(context.Background())
	require.NoError(t, err)
	require.Equal(t, explicit, icon)
}

// TestResolveLicense covers the priority chain endings that need no
// network: explicit file, explicit-but-missing, and full miss.
func TestResolveLicense(t *testing.T) {
	t.Parallel()

	license := filepath.Join(t.TempDir(), "LICENSE")
	require.NoError(t, os.WriteFile(license, []byte("MIT"), 0o644))

	task := &config.Task{
		Name:        "Demo",
		Version:     "1.0",
		Platform:    platform.Current(),
		LicenseFile: license,
	}
	p := &Packager{task: task, assetsFolder: t.TempDir()}

	require.Equal(t, license, p.resolveLicense(context.Background()))

	// A missing explicit file degrades to absent, never an error.
	task.LicenseFile = filepath.Join(t.TempDir(), "no-such-file")
	require.Empty(t, p.resolveLicense(context.Background()))

	// No configuration at all resolves to absent.
	task.LicenseFile = ""
	require.Empty(t, p.resolveLicense(context.Background()))
}

// TestResolveResources ensures the resolved license and icon are scheduled
// for copying along with the task's additional resources.
func TestResolveResources(t *testing.T) {
	t.Parallel()

	extra := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(extra, []byte("hello"), 0o644))

	license := filepath.Join(t.TempDir(), "LICENSE")
	require.NoError(t, os.WriteFile(license, []byte("MIT"), 0o644))

	task := &config.Task{
		Name:                "Demo",
		Version:             "1.0",
		Platform:            platform.Linux,
		LicenseFile:         license,
		AdditionalResources: []string{extra},
	}
	p := &Packager{task: task, assetsFolder: t.TempDir()}

	require.NoError(t, p.resolveResources(context.Background()))
	require.Equal(t, license, p.licenseFile)
	require.NotEmpty(t, p.iconFile)
	require.Equal(t, []string{extra, license, p.iconFile}, p.additionalResources)
}
