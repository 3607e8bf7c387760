package packagers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/app-packager/internal/execute"
)

// generateDmg produces a compressed disk image holding the app bundle.
type generateDmg struct {
	mac      *macPackager
	artifact string
}

func (g *generateDmg) ArtifactName() string {
	return "DMG image"
}

func (g *generateDmg) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Mac.ShouldGenerateDmg() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generateDmg) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.dmg", p.task.Name, p.task.Version))

	_, err := execute.Run(ctx, "hdiutil", "create",
		"-srcfolder", g.mac.appFile,
		"-volname", p.task.DisplayName,
		"-ov",
		"-fs", "HFS+",
		"-format", "UDZO",
		artifact)
	if err != nil {
		return "", err
	}

	if err = verifyArtifact(artifact); err != nil {
		return "", err
	}

	g.artifact = artifact

	return artifact, nil
}

// generatePkg produces a flat installer package that places the app bundle
// under /Applications.
type generatePkg struct {
	mac      *macPackager
	artifact string
}

func (g *generatePkg) ArtifactName() string {
	return "PKG installer"
}

func (g *generatePkg) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Mac.ShouldGeneratePkg() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generatePkg) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.pkg", p.task.Name, p.task.Version))

	_, err := execute.Run(ctx, "pkgbuild",
		"--install-location", "/Applications",
		"--identifier", macAppID(p.task),
		"--version", p.task.Version,
		"--component", g.mac.appFile,
		artifact)
	if err != nil {
		return "", err
	}

	if err = verifyArtifact(artifact); err != nil {
		return "", err
	}

	g.artifact = artifact

	return artifact, nil
}
