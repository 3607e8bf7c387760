package packagers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/app-packager/internal/config"
	"github.com/oshokin/app-packager/internal/files"
	"github.com/oshokin/app-packager/internal/logger"
	"github.com/oshokin/app-packager/internal/render"
)

// linuxPackager assembles a flat application folder: launcher script, jar,
// libs and the bundled runtime all live next to each other. The desktop
// entry is kept aside for the package generators.
type linuxPackager struct {
	desktopFile string
}

func (l *linuxPackager) init(_ context.Context, p *Packager) error {
	if p.task.Linux == nil {
		p.task.Linux = &config.LinuxConfig{}
	}

	return nil
}

func (l *linuxPackager) createStructure(_ context.Context, p *Packager) error {
	p.executableDestination = p.appFolder
	p.jarFileDestination = p.appFolder
	p.jreDestination = filepath.Join(p.appFolder, p.task.JREDirectoryName)
	p.resourcesDestination = p.appFolder
	p.executable = filepath.Join(p.appFolder, p.task.Name)

	// Recorded here so installer generation in a fresh process knows the
	// desktop entry path without re-running assembly.
	l.desktopFile = filepath.Join(p.assetsFolder, p.task.Name+".desktop")

	return nil
}

func (l *linuxPackager) assembleApp(ctx context.Context, p *Packager) (string, error) {
	if _, err := files.CopyFileToFolder(p.jarFile, p.appFolder); err != nil {
		return "", err
	}

	l.processClasspath(p)

	if err := l.processStartup(ctx, p); err != nil {
		return "", err
	}

	if err := l.processDesktopFile(ctx, p); err != nil {
		return "", err
	}

	return p.appFolder, nil
}

func (l *linuxPackager) processClasspath(p *Packager) {
	entries := []string{filepath.Base(p.jarFile)}

	if p.task.Classpath != "" {
		entries = append(entries,
			strings.FieldsFunc(p.task.Classpath, func(r rune) bool { return r == ':' || r == ';' })...)
	}

	p.classpath = strings.Join(entries, ":")
}

func (l *linuxPackager) processStartup(ctx context.Context, p *Packager) error {
	if err := render.Render("linux/startup.tmpl", p.executable, p.templateData()); err != nil {
		return err
	}

	if err := os.Chmod(p.executable, files.ExecutableFileMode); err != nil {
		return err
	}

	logger.Infof(ctx, "Startup file created in %s", p.executable)

	return nil
}

// processDesktopFile writes the desktop entry into the assets folder; a
// custom file takes precedence over templated generation. The entry is not
// part of the app folder, the package generators install it system-wide.
func (l *linuxPackager) processDesktopFile(ctx context.Context, p *Packager) error {
	if isReadableFile(p.task.Linux.CustomDesktopFile) {
		if err := files.CopyFileToFile(p.task.Linux.CustomDesktopFile, l.desktopFile); err != nil {
			return err
		}
	} else if err := render.Render("linux/desktop.tmpl", l.desktopFile, p.templateData()); err != nil {
		return err
	}

	logger.Infof(ctx, "Desktop file created in %s", l.desktopFile)

	return nil
}

func (l *linuxPackager) generators() []ArtifactGenerator {
	return []ArtifactGenerator{
		&generateDeb{linux: l},
		&generateRpm{},
	}
}
