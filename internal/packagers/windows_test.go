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

// TestWindowsAssembleApp checks the generated batch launcher and the
// application manifest. Assembly is host-independent: launcher signing
// degrades to a warning off Windows.
func TestWindowsAssembleApp(t *testing.T) {
	t.Parallel()

	task := testTask(t)
	task.Platform = platform.Windows
	task.RunnableJar = writeRunnableJar(t)
	task.VMArgs = []string{"-Xmx256m"}
	task.Classpath = "libs/extra.jar"

	p, err := New(task)
	require.NoError(t, err)

	appFolder, err := p.CreateApp(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(appFolder, "demo.jar"))
	require.NoError(t, err)

	launcher, err := os.ReadFile(filepath.Join(appFolder, "Demo.bat"))
	require.NoError(t, err)
	require.Contains(t, string(launcher), "com.acme.demo.Main")
	require.Contains(t, string(launcher), "-Xmx256m")
	require.Contains(t, string(launcher), `-cp "demo.jar;libs/extra.jar"`)

	manifest, err := os.ReadFile(filepath.Join(appFolder, "Demo.manifest"))
	require.NoError(t, err)
	require.Contains(t, string(manifest), `level="asInvoker"`)
	require.Contains(t, string(manifest), `name="Demo"`)
}

// TestWindowsAssembleAppElevated checks that the manifest requests
// administrator rights when the task demands them.
func TestWindowsAssembleAppElevated(t *testing.T) {
	t.Parallel()

	task := testTask(t)
	task.Platform = platform.Windows
	task.RunnableJar = writeRunnableJar(t)
	task.AdministratorRequired = true

	p, err := New(task)
	require.NoError(t, err)

	appFolder, err := p.CreateApp(context.Background())
	require.NoError(t, err)

	manifest, err := os.ReadFile(filepath.Join(appFolder, "Demo.manifest"))
	require.NoError(t, err)
	require.Contains(t, string(manifest), `level="requireAdministrator"`)
}

// TestWindowsAssembleAppCustomLauncher checks that a user-supplied launcher
// is copied verbatim instead of generating the batch script.
func TestWindowsAssembleAppCustomLauncher(t *testing.T) {
	t.Parallel()

	launcher := filepath.Join(t.TempDir(), "MyLauncher.exe")
	require.NoError(t, os.WriteFile(launcher, []byte("MZ"), 0o755))

	task := testTask(t)
	task.Platform = platform.Windows
	task.RunnableJar = writeRunnableJar(t)
	task.Windows = &config.WindowsConfig{CustomLauncher: launcher}

	p, err := New(task)
	require.NoError(t, err)

	appFolder, err := p.CreateApp(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(appFolder, "MyLauncher.exe"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(appFolder, "Demo.bat"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
