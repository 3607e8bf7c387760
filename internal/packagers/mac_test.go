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

// TestMacAssembleApp checks the bundle layout, the default startup stub and
// the templated Info.plist. Assembly is host-independent: signing and
// notarization degrade to warnings off macOS.
func TestMacAssembleApp(t *testing.T) {
	if platform.Windows.IsCurrent() {
		t.Skip("file mode assertions are not meaningful on Windows")
	}

	t.Parallel()

	task := testTask(t)
	task.Platform = platform.Mac
	task.OrganizationName = "ACME"
	task.RunnableJar = writeRunnableJar(t)
	task.VMArgs = []string{"-Xmx256m"}
	task.Classpath = "libs/extra.jar"

	p, err := New(task)
	require.NoError(t, err)

	appFile, err := p.CreateApp(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(task.OutputDirectory, "Demo", "Demo.app"), appFile)

	// Jar relocated under the Java subfolder by default.
	_, err = os.Stat(filepath.Join(appFile, "Contents", "Resources", "Java", "demo.jar"))
	require.NoError(t, err)

	// Default startup strategy: the precompiled stub, runnable.
	stub, err := os.Stat(filepath.Join(appFile, "Contents", "MacOS", macStubName))
	require.NoError(t, err)
	require.NotZero(t, stub.Mode()&0o100)

	// Info.plist templated and prettified.
	plist, err := os.ReadFile(filepath.Join(appFile, "Contents", "Info.plist"))
	require.NoError(t, err)
	require.Contains(t, string(plist), "com.acme.demo.Main")
	require.Contains(t, string(plist), "com.acme.demo")
	require.Contains(t, string(plist), "Java/demo.jar:libs/extra.jar")
	require.Contains(t, string(plist), "-Xmx256m")
	require.Contains(t, string(plist), "\t<key>")
}

// TestMacAssembleAppElevated checks the elevation strategy: the rendered
// helper becomes the launcher and the stub it re-executes stays runnable.
func TestMacAssembleAppElevated(t *testing.T) {
	if platform.Windows.IsCurrent() {
		t.Skip("file mode assertions are not meaningful on Windows")
	}

	t.Parallel()

	task := testTask(t)
	task.Platform = platform.Mac
	task.RunnableJar = writeRunnableJar(t)
	task.AdministratorRequired = true

	p, err := New(task)
	require.NoError(t, err)

	appFile, err := p.CreateApp(context.Background())
	require.NoError(t, err)

	macOSFolder := filepath.Join(appFile, "Contents", "MacOS")

	helper, err := os.Stat(filepath.Join(macOSFolder, "startup"))
	require.NoError(t, err)
	require.NotZero(t, helper.Mode()&0o100)

	contents, err := os.ReadFile(filepath.Join(macOSFolder, "startup"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "administrator privileges")

	stub, err := os.Stat(filepath.Join(macOSFolder, macStubName))
	require.NoError(t, err)
	require.NotZero(t, stub.Mode()&0o100)
}

// TestMacAssembleAppCustomLauncher checks the custom launcher strategy and
// a custom Info.plist override.
func TestMacAssembleAppCustomLauncher(t *testing.T) {
	t.Parallel()

	launcher := filepath.Join(t.TempDir(), "MyLauncher")
	require.NoError(t, os.WriteFile(launcher, []byte("#!/bin/sh\n"), 0o755))

	infoPlist := filepath.Join(t.TempDir(), "Info.plist")
	require.NoError(t, os.WriteFile(infoPlist, []byte("<plist><dict/></plist>"), 0o644))

	task := testTask(t)
	task.Platform = platform.Mac
	task.RunnableJar = writeRunnableJar(t)
	task.Mac = &config.MacConfig{
		CustomLauncher:  launcher,
		CustomInfoPlist: infoPlist,
	}

	p, err := New(task)
	require.NoError(t, err)

	appFile, err := p.CreateApp(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(appFile, "Contents", "MacOS", "MyLauncher"))
	require.NoError(t, err)

	// The custom descriptor is copied verbatim, not templated.
	contents, err := os.ReadFile(filepath.Join(appFile, "Contents", "Info.plist"))
	require.NoError(t, err)
	require.Equal(t, "<plist><dict/></plist>", string(contents))
}
