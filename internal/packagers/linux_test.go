package packagers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/app-packager/internal/platform"
)

// TestDebStagingInFreshRun covers the installers verb running in a process
// that never performed assembly: the desktop entry path must be derivable
// from the task alone, otherwise DEB staging copies an empty path.
func TestDebStagingInFreshRun(t *testing.T) {
	if !platform.Linux.IsCurrent() {
		t.Skip("staging layout asserts Linux assembly output")
	}

	t.Parallel()

	task := testTask(t)
	task.RunnableJar = writeRunnableJar(t)

	first, err := New(task)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = first.CreateApp(ctx)
	require.NoError(t, err)

	// A later installers-only run starts from a fresh packager.
	fresh, err := New(task)
	require.NoError(t, err)

	require.NoError(t, fresh.init(ctx))
	require.NoError(t, fresh.locateStructure(ctx))

	variant, ok := fresh.variant.(*linuxPackager)
	require.True(t, ok)
	require.Equal(t, filepath.Join(fresh.assetsFolder, "Demo.desktop"), variant.desktopFile)

	_, err = os.Stat(variant.desktopFile)
	require.NoError(t, err)

	deb := &generateDeb{linux: variant}

	staging, err := deb.stage(fresh)
	require.NoError(t, err)

	for _, staged := range []string{
		filepath.Join("DEBIAN", "control"),
		filepath.Join("opt", "Demo", "Demo"),
		filepath.Join("usr", "share", "applications", "Demo.desktop"),
	} {
		_, err = os.Stat(filepath.Join(staging, staged))
		require.NoError(t, err)
	}
}
