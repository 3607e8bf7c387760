package files

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

const (
	// DefaultFolderMode is used for every folder the pipeline creates.
	DefaultFolderMode os.FileMode = 0o755

	// DefaultFileMode is used for copied regular files.
	DefaultFileMode os.FileMode = 0o644

	// ExecutableFileMode is used for launchers and runtime binaries.
	ExecutableFileMode os.FileMode = 0o755
)

// Mkdir creates (if necessary) and returns the folder name under parent.
func Mkdir(parent, name string) (string, error) {
	folder := filepath.Join(parent, name)
	if err := os.MkdirAll(folder, DefaultFolderMode); err != nil {
		return "", fmt.Errorf("create folder %s: %w", folder, err)
	}

	return folder, nil
}

// CopyFileToFolder copies file into folder keeping its base name and
// returns the destination path.
func CopyFileToFolder(file, folder string) (string, error) {
	destination := filepath.Join(folder, filepath.Base(file))
	if err := CopyFileToFile(file, destination); err != nil {
		return "", err
	}

	return destination, nil
}

// CopyFileToFile copies source to destination, preserving the source mode.
func CopyFileToFile(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}
	defer in.Close() //nolint:errcheck // Read-only descriptor.

	out, err := os.OpenFile(filepath.Clean(destination), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", destination, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", source, destination, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destination, err)
	}

	return nil
}

// CopyFolderToFolder copies the source folder as a child of the destination
// parent folder.
func CopyFolderToFolder(source, destinationParent string) error {
	return CopyFolderContentToFolder(source, filepath.Join(destinationParent, filepath.Base(source)))
}

// CopyFolderContentToFolder copies everything inside source into destination,
// creating destination if needed.
func CopyFolderContentToFolder(source, destination string) error {
	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		target := filepath.Join(destination, relative)

		if entry.IsDir() {
			if err = os.MkdirAll(target, DefaultFolderMode); err != nil {
				return fmt.Errorf("create folder %s: %w", target, err)
			}

			return nil
		}

		return CopyFileToFile(path, target)
	})
}

// RemoveFolder deletes the folder and everything below it.
func RemoveFolder(folder string) error {
	if err := os.RemoveAll(folder); err != nil {
		return fmt.Errorf("remove folder %s: %w", folder, err)
	}

	return nil
}

// DownloadFromURL fetches the resource behind url into destination.
func DownloadFromURL(url, destination string) error {
	response, err := http.Get(url) //nolint:gosec,noctx // Plain fetch of a user-configured license URL.
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer response.Body.Close() //nolint:errcheck // Best-effort cleanup.

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, response.Status)
	}

	out, err := os.OpenFile(filepath.Clean(destination), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, DefaultFileMode)
	if err != nil {
		return fmt.Errorf("create %s: %w", destination, err)
	}

	if _, err = io.Copy(out, response.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", destination, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destination, err)
	}

	return nil
}

// CopyResourceToFile writes an embedded resource to destination. When
// unixStyleNewlines is set, Windows line endings are normalized, which
// matters for shell scripts shipped as resources.
func CopyResourceToFile(resources fs.FS, resource, destination string, unixStyleNewlines bool) error {
	contents, err := fs.ReadFile(resources, resource)
	if err != nil {
		return fmt.Errorf("read embedded resource %s: %w", resource, err)
	}

	if unixStyleNewlines {
		contents = bytes.ReplaceAll(contents, []byte("\r\n"), []byte("\n"))
	}

	if err = os.WriteFile(filepath.Clean(destination), contents, DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", destination, err)
	}

	return nil
}

// MarkExecutable sets the executable mode on every regular file directly
// inside folder.
func MarkExecutable(folder string) error {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("read folder %s: %w", folder, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(folder, entry.Name())
		if err = os.Chmod(path, ExecutableFileMode); err != nil {
			return fmt.Errorf("mark %s executable: %w", path, err)
		}
	}

	return nil
}
