package packagers

import (
	"context"
	"crypto/md5" //nolint:gosec // Not used for security, only for a stable GUID.
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oshokin/app-packager/internal/config"
	"github.com/oshokin/app-packager/internal/execute"
	"github.com/oshokin/app-packager/internal/files"
	"github.com/oshokin/app-packager/internal/logger"
	"github.com/oshokin/app-packager/internal/platform"
	"github.com/oshokin/app-packager/internal/render"
	"github.com/oshokin/app-packager/internal/xmlutil"
)

// windowsPackager assembles a flat application folder: launcher, manifest,
// jar, libs and the bundled runtime all live next to each other.
type windowsPackager struct {
	// msmFile caches the merge module produced by the first generator so
	// the installer generator can embed it.
	msmFile string
}

func (w *windowsPackager) init(_ context.Context, p *Packager) error {
	if p.task.Windows == nil {
		p.task.Windows = &config.WindowsConfig{}
	}

	p.task.Windows.UpgradeCode = windowsUpgradeCode(p.task)

	return nil
}

func (w *windowsPackager) createStructure(_ context.Context, p *Packager) error {
	p.executableDestination = p.appFolder
	p.jarFileDestination = p.appFolder
	p.jreDestination = filepath.Join(p.appFolder, p.task.JREDirectoryName)
	p.resourcesDestination = p.appFolder

	// Recorded here so installer generation in a fresh process knows the
	// launcher path without re-running assembly.
	if isReadableFile(p.task.Windows.CustomLauncher) {
		p.executable = filepath.Join(p.appFolder, filepath.Base(p.task.Windows.CustomLauncher))
	} else {
		p.executable = filepath.Join(p.appFolder, p.task.Name+".bat")
	}

	return nil
}

func (w *windowsPackager) assembleApp(ctx context.Context, p *Packager) (string, error) {
	if _, err := files.CopyFileToFolder(p.jarFile, p.appFolder); err != nil {
		return "", err
	}

	w.processClasspath(p)

	if err := w.processStartup(ctx, p); err != nil {
		return "", err
	}

	if err := w.processManifest(ctx, p); err != nil {
		return "", err
	}

	if err := w.signLauncher(ctx, p); err != nil {
		return "", err
	}

	return p.appFolder, nil
}

// processClasspath joins the runnable jar and the configured entries with
// the Windows separator.
func (w *windowsPackager) processClasspath(p *Packager) {
	entries := []string{filepath.Base(p.jarFile)}

	if p.task.Classpath != "" {
		entries = append(entries,
			strings.FieldsFunc(p.task.Classpath, func(r rune) bool { return r == ':' || r == ';' })...)
	}

	p.classpath = strings.Join(entries, ";")
}

// processStartup places the launcher: a user-supplied executable is copied
// verbatim, otherwise a batch launcher is generated.
func (w *windowsPackager) processStartup(ctx context.Context, p *Packager) error {
	if isReadableFile(p.task.Windows.CustomLauncher) {
		if _, err := files.CopyFileToFolder(p.task.Windows.CustomLauncher, p.appFolder); err != nil {
			return err
		}
	} else if err := render.Render("windows/startup.tmpl", p.executable, p.templateData()); err != nil {
		return err
	}

	logger.Infof(ctx, "Startup file created in %s", p.executable)

	return nil
}

// processManifest writes the application manifest next to the launcher; a
// custom file takes precedence over templated generation.
func (w *windowsPackager) processManifest(ctx context.Context, p *Packager) error {
	manifest := filepath.Join(p.appFolder, p.task.Name+".manifest")

	if isReadableFile(p.task.Windows.CustomManifest) {
		if err := files.CopyFileToFile(p.task.Windows.CustomManifest, manifest); err != nil {
			return err
		}
	} else {
		if err := render.Render("windows/manifest.tmpl", manifest, p.templateData()); err != nil {
			return err
		}

		if err := xmlutil.Prettify(manifest); err != nil {
			return err
		}
	}

	logger.Infof(ctx, "Manifest file created in %s", manifest)

	return nil
}

// signLauncher signs the launcher when a signing identity is configured.
// Signing requires executing on Windows itself; on any other execution
// platform it degrades to a warning.
func (w *windowsPackager) signLauncher(ctx context.Context, p *Packager) error {
	if p.task.Windows.SigningIdentity == "" {
		return nil
	}

	if !platform.Windows.IsCurrent() {
		logger.Warnf(ctx, "Launcher could not be signed: current platform is %s", platform.Current())
		return nil
	}

	_, err := execute.Run(ctx, "signtool", "sign",
		"/n", p.task.Windows.SigningIdentity,
		"/fd", "SHA256",
		"/t", "http://timestamp.digicert.com",
		p.executable)

	return err
}

func (w *windowsPackager) generators() []ArtifactGenerator {
	return []ArtifactGenerator{
		&generateMsm{win: w},
		&generateMsi{win: w},
		&generateSetup{},
	}
}

// windowsUpgradeCode returns the configured product GUID, or derives a
// stable one from the organization and app names so that rebuilds of the
// same app upgrade each other.
func windowsUpgradeCode(task *config.Task) string {
	if task.Windows != nil && task.Windows.UpgradeCode != "" {
		return task.Windows.UpgradeCode
	}

	digest := md5.Sum([]byte(task.OrganizationName + "/" + task.Name)) //nolint:gosec // Stable GUID, not a secret.

	return strings.ToUpper(fmt.Sprintf("%x-%x-%x-%x-%x",
		digest[0:4], digest[4:6], digest[6:8], digest[8:10], digest[10:16]))
}
