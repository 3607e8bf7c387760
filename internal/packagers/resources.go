package packagers

import (
	"context"
	"embed"
	"os"
	"path"
	"path/filepath"

	"github.com/oshokin/app-packager/internal/files"
	"github.com/oshokin/app-packager/internal/logger"
)

// resources holds the bundled defaults: per-platform fallback icons and the
// precompiled macOS launcher stubs.
//
//go:embed resources
var resources embed.FS

// licenseFileName is the conventional license file looked up at the
// project root and used for downloaded licenses.
const licenseFileName = "LICENSE"

// resolveResources locates the license and icon files and schedules them
// for copying into the resources destination along with the task's
// additional resources.
func (p *Packager) resolveResources(ctx context.Context) error {
	logger.Info(ctx, "Resolving resources ...")

	p.licenseFile = p.resolveLicense(ctx)

	icon, err := p.resolveIcon(ctx)
	if err != nil {
		return err
	}

	p.iconFile = icon

	p.additionalResources = append([]string(nil), p.task.AdditionalResources...)
	if p.licenseFile != "" {
		p.additionalResources = append(p.additionalResources, p.licenseFile)
	}

	p.additionalResources = append(p.additionalResources, p.iconFile)

	return nil
}

// resolveLicense walks the license priority chain: explicit override,
// declared license URL, conventional file at the project root. A miss at
// every step resolves to "absent" with a warning, never an error.
func (p *Packager) resolveLicense(ctx context.Context) string {
	license := p.task.LicenseFile

	if license != "" {
		if _, err := os.Stat(license); err != nil {
			logger.Warnf(ctx, "Specified license file doesn't exist: %s", license)

			license = ""
		}
	}

	if license == "" && p.task.LicenseURL != "" {
		destination := filepath.Join(p.assetsFolder, licenseFileName)
		if err := files.DownloadFromURL(p.task.LicenseURL, destination); err != nil {
			logger.Errorf(ctx, "Cannot download license from %s: %v", p.task.LicenseURL, err)
		} else {
			license = destination
		}
	}

	if license == "" {
		if _, err := os.Stat(licenseFileName); err == nil {
			license = licenseFileName
		}
	}

	if license != "" {
		logger.Infof(ctx, "License file found: %s", license)
	} else {
		logger.Warn(ctx, "No license file specified")
	}

	return license
}

// resolveIcon walks the icon priority chain: explicit override, a
// platform-and-name conventional file under the assets directory, the
// bundled default icon. Resolution always produces a usable file.
func (p *Packager) resolveIcon(ctx context.Context) (string, error) {
	extension := p.task.Platform.IconExtension()

	icon := p.task.IconFile
	if icon == "" {
		icon = filepath.Join(p.task.AssetsDir, p.task.Platform.String(), p.task.Name+extension)
	}

	if _, err := os.Stat(icon); err != nil {
		icon = filepath.Join(p.assetsFolder, filepath.Base(icon))

		defaultIcon := path.Join("resources", p.task.Platform.String(), "default-icon"+extension)
		if err = files.CopyResourceToFile(resources, defaultIcon, icon, false); err != nil {
			return "", err
		}
	}

	logger.Infof(ctx, "Icon file resolved: %s", icon)

	return icon, nil
}

// copyAdditionalResources copies files and folders into the destination.
// A missing or uncopyable resource is reported and skipped; the run goes on.
func (p *Packager) copyAdditionalResources(ctx context.Context, resourceList []string, destination string) {
	logger.Info(ctx, "Copying additional resources")

	for _, resource := range resourceList {
		info, err := os.Stat(resource)
		if err != nil {
			logger.Warnf(ctx, "Additional resource %s doesn't exist", resource)
			continue
		}

		if info.IsDir() {
			err = files.CopyFolderToFolder(resource, destination)
		} else {
			_, err = files.CopyFileToFolder(resource, destination)
		}

		if err != nil {
			logger.Warnf(ctx, "Could not copy additional resource %s: %v", resource, err)
		}
	}
}
