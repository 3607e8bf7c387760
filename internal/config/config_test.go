package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/app-packager/internal/platform"
)

// TestValidate checks required fields and default application for tasks.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing name.
	task := new(Task)

	err := Validate(task)
	require.Error(t, err)

	// Name not usable as a file name.
	task = &Task{
		Name:     "bad/name",
		Version:  "1.0",
		Platform: platform.Auto,
	}

	err = Validate(task)
	require.Error(t, err)

	// Missing version.
	task = &Task{
		Name:     "Demo",
		Platform: platform.Auto,
	}

	err = Validate(task)
	require.Error(t, err)

	// Unknown platform.
	task = &Task{
		Name:     "Demo",
		Version:  "1.0",
		Platform: platform.Platform("solaris"),
	}

	err = Validate(task)
	require.Error(t, err)

	// Malformed license URL.
	task = &Task{
		Name:       "Demo",
		Version:    "1.0",
		Platform:   platform.Auto,
		LicenseURL: "::not-a-url",
	}

	err = Validate(task)
	require.Error(t, err)

	// Okay, defaults applied.
	task = &Task{
		Name:     "Demo",
		Version:  "1.0",
		Platform: platform.Auto,
	}

	err = Validate(task)
	require.NoError(t, err)
	require.Equal(t, "Demo", task.DisplayName)
	require.Equal(t, "Demo", task.Description)
	require.Equal(t, DefaultOrganizationName, task.OrganizationName)
	require.Equal(t, DefaultOutputDirectory, task.OutputDirectory)
	require.Equal(t, DefaultJREDirectoryName, task.JREDirectoryName)
	require.Equal(t, platform.Current(), task.Platform)
}

// TestValidatePrunesPlatformBlocks ensures only the block matching the
// target platform survives validation.
func TestValidatePrunesPlatformBlocks(t *testing.T) {
	t.Parallel()

	task := &Task{
		Name:     "Demo",
		Version:  "1.0",
		Platform: platform.Mac,
		Mac:      &MacConfig{},
		Windows:  &WindowsConfig{},
		Linux:    &LinuxConfig{},
	}

	require.NoError(t, Validate(task))
	require.NotNil(t, task.Mac)
	require.Nil(t, task.Windows)
	require.Nil(t, task.Linux)
}

// TestValidateJDKPath ensures a configured JDK path must exist.
func TestValidateJDKPath(t *testing.T) {
	t.Parallel()

	task := &Task{
		Name:     "Demo",
		Version:  "1.0",
		Platform: platform.Auto,
		JDKPath:  filepath.Join(t.TempDir(), "no-such-jdk"),
	}

	err := Validate(task)
	require.Error(t, err)

	task.JDKPath = t.TempDir()
	require.NoError(t, Validate(task))
}

// TestFlagDefaults verifies the tri-state flags default to true until set.
func TestFlagDefaults(t *testing.T) {
	t.Parallel()

	task := &Task{
		Name:     "Demo",
		Version:  "1.0",
		Platform: platform.Auto,
	}

	require.NoError(t, Validate(task))
	require.True(t, task.ShouldGenerateInstaller())
	require.True(t, task.ShouldCopyDependencies())
	require.True(t, task.UseCustomizedJRE())
	require.True(t, task.ResourcesAsWorkingDir())

	off := false
	task.GenerateInstaller = &off
	require.False(t, task.ShouldGenerateInstaller())

	task.SetResourcesAsWorkingDir(false)
	require.False(t, task.ResourcesAsWorkingDir())
}

// TestSaveLoadRoundtrip ensures tasks are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "packaging.yaml")

	task := &Task{
		Name:            "Demo",
		Version:         "1.0",
		Platform:        platform.Current(),
		OutputDirectory: filepath.Join(dir, "dist"),
	}

	require.NoError(t, Save(path, task))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, task.Name, loaded.Name)
	require.Equal(t, task.Version, loaded.Version)
	require.Equal(t, task.OutputDirectory, loaded.OutputDirectory)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
