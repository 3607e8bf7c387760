package packagers

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/app-packager/internal/logger"
)

// createBundles archives the app folder as a tarball and/or zipball when
// the corresponding task flags are enabled.
func (p *Packager) createBundles(ctx context.Context) error {
	if !p.task.CreateTarball && !p.task.CreateZipball {
		return nil
	}

	logger.Info(ctx, "Bundling app in tarball/zipball ...")

	baseName := fmt.Sprintf("%s-%s-%s", p.task.Name, p.task.Version, p.task.Platform)

	if p.task.CreateTarball {
		tarball := filepath.Join(p.task.OutputDirectory, baseName+".tar.gz")
		if err := tarFolder(p.appFolder, tarball); err != nil {
			return fmt.Errorf("create tarball: %w", err)
		}

		logger.Infof(ctx, "Tarball created: %s", tarball)
	}

	if p.task.CreateZipball {
		zipball := filepath.Join(p.task.OutputDirectory, baseName+".zip")
		if err := zipFolder(p.appFolder, zipball); err != nil {
			return fmt.Errorf("create zipball: %w", err)
		}

		logger.Infof(ctx, "Zipball created: %s", zipball)
	}

	return nil
}

// tarFolder writes folder (including the folder itself as the top-level
// entry) into a gzip-compressed tar archive.
func tarFolder(folder, destination string) error {
	out, err := os.Create(filepath.Clean(destination))
	if err != nil {
		return err
	}
	defer out.Close() //nolint:errcheck // Closed explicitly on the happy path below.

	compressor := gzip.NewWriter(out)
	archive := tar.NewWriter(compressor)

	prefix := filepath.Base(folder)

	err = filepath.WalkDir(folder, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		relative, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}

		header.Name = filepath.ToSlash(filepath.Join(prefix, relative))

		if err = archive.WriteHeader(header); err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		in, err := os.Open(filepath.Clean(path))
		if err != nil {
			return err
		}
		defer in.Close() //nolint:errcheck // Read-only descriptor.

		_, err = io.Copy(archive, in)

		return err
	})
	if err != nil {
		return err
	}

	if err = archive.Close(); err != nil {
		return err
	}

	if err = compressor.Close(); err != nil {
		return err
	}

	return out.Close()
}

// zipFolder writes folder (including the folder itself as the top-level
// entry) into a zip archive.
func zipFolder(folder, destination string) error {
	out, err := os.Create(filepath.Clean(destination))
	if err != nil {
		return err
	}
	defer out.Close() //nolint:errcheck // Closed explicitly on the happy path below.

	archive := zip.NewWriter(out)
	prefix := filepath.Base(folder)

	err = filepath.WalkDir(folder, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}

		writer, err := archive.Create(filepath.ToSlash(filepath.Join(prefix, relative)))
		if err != nil {
			return err
		}

		in, err := os.Open(filepath.Clean(path))
		if err != nil {
			return err
		}
		defer in.Close() //nolint:errcheck // Read-only descriptor.

		_, err = io.Copy(writer, in)

		return err
	})
	if err != nil {
		return err
	}

	if err = archive.Close(); err != nil {
		return err
	}

	return out.Close()
}
