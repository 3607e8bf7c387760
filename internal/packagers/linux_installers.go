package packagers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/app-packager/internal/execute"
	"github.com/oshokin/app-packager/internal/files"
	"github.com/oshokin/app-packager/internal/render"
)

// generateDeb produces a Debian package installing the app under /opt and
// the desktop entry system-wide.
type generateDeb struct {
	linux    *linuxPackager
	artifact string
}

func (g *generateDeb) ArtifactName() string {
	return "DEB package"
}

func (g *generateDeb) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Linux.ShouldGenerateDeb() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generateDeb) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	staging, err := g.stage(p)
	if err != nil {
		return "", err
	}

	packageName := linuxPackageName(p.task.Name)
	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.deb", packageName, p.task.Version))

	if _, err = execute.Run(ctx, "dpkg-deb", "--build", "--root-owner-group", staging, artifact); err != nil {
		return "", err
	}

	if err = verifyArtifact(artifact); err != nil {
		return "", err
	}

	g.artifact = artifact

	return artifact, nil
}

// stage lays out the package filesystem image in the assets folder:
// DEBIAN/control, the app under opt/ and the desktop entry under
// usr/share/applications/.
func (g *generateDeb) stage(p *Packager) (string, error) {
	staging, err := files.Mkdir(p.assetsFolder, "deb")
	if err != nil {
		return "", err
	}

	controlFolder, err := files.Mkdir(staging, "DEBIAN")
	if err != nil {
		return "", err
	}

	if err = render.Render("linux/control.tmpl", filepath.Join(controlFolder, "control"), p.templateData()); err != nil {
		return "", err
	}

	appDestination, err := files.Mkdir(staging, filepath.Join("opt", p.task.Name))
	if err != nil {
		return "", err
	}

	if err = files.CopyFolderContentToFolder(p.appFolder, appDestination); err != nil {
		return "", err
	}

	applicationsFolder, err := files.Mkdir(staging, filepath.Join("usr", "share", "applications"))
	if err != nil {
		return "", err
	}

	if _, err = files.CopyFileToFolder(g.linux.desktopFile, applicationsFolder); err != nil {
		return "", err
	}

	return staging, nil
}

// generateRpm produces an RPM package installing the app under /opt.
type generateRpm struct {
	artifact string
}

func (g *generateRpm) ArtifactName() string {
	return "RPM package"
}

func (g *generateRpm) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Linux.ShouldGenerateRpm() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generateRpm) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	topDir, err := files.Mkdir(p.assetsFolder, "rpm")
	if err != nil {
		return "", err
	}

	spec := filepath.Join(topDir, p.task.Name+".spec")
	if err = render.Render("linux/rpm.spec.tmpl", spec, p.templateData()); err != nil {
		return "", err
	}

	_, err = execute.Run(ctx, "rpmbuild", "-bb",
		"--define", "_topdir "+topDir,
		"--buildroot", filepath.Join(topDir, "buildroot"),
		spec)
	if err != nil {
		return "", err
	}

	// The build tool nests the output under an architecture folder.
	produced, err := filepath.Glob(filepath.Join(topDir, "RPMS", "*", "*.rpm"))
	if err != nil {
		return "", err
	}

	if len(produced) == 0 {
		return "", fmt.Errorf("%w: no package under %s", ErrArtifactMissing, filepath.Join(topDir, "RPMS"))
	}

	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.rpm", linuxPackageName(p.task.Name), p.task.Version))

	if err = files.CopyFileToFile(produced[0], artifact); err != nil {
		return "", err
	}

	g.artifact = artifact

	return artifact, nil
}
