package packagers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oshokin/app-packager/internal/execute"
	"github.com/oshokin/app-packager/internal/render"
	"github.com/oshokin/app-packager/internal/xmlutil"
)

// generateMsm produces the WiX merge module. It also runs when only the MSI
// is requested, because the MSI embeds the merge module.
type generateMsm struct {
	win      *windowsPackager
	artifact string
}

func (g *generateMsm) ArtifactName() string {
	return "Merge Module"
}

func (g *generateMsm) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Windows.ShouldGenerateMsm() && !p.task.Windows.ShouldGenerateMsi() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generateMsm) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	descriptor := filepath.Join(p.assetsFolder, p.task.Name+".msm.wxs")
	if err := render.Render("windows/msm.wxs.tmpl", descriptor, p.templateData()); err != nil {
		return "", err
	}

	if err := xmlutil.Prettify(descriptor); err != nil {
		return "", err
	}

	object := filepath.Join(p.assetsFolder, p.task.Name+".msm.wixobj")
	if _, err := execute.Run(ctx, "candle", "-out", object, descriptor); err != nil {
		return "", err
	}

	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.msm", p.task.Name, p.task.Version))

	if _, err := execute.Run(ctx, "light", "-spdb", "-out", artifact, object); err != nil {
		return "", err
	}

	if err := verifyArtifact(artifact); err != nil {
		return "", err
	}

	g.artifact = artifact
	g.win.msmFile = artifact

	return artifact, nil
}

// generateMsi produces the MSI installer by wrapping the merge module.
type generateMsi struct {
	win      *windowsPackager
	artifact string
}

func (g *generateMsi) ArtifactName() string {
	return "MSI installer"
}

func (g *generateMsi) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Windows.ShouldGenerateMsi() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generateMsi) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	if g.win.msmFile == "" {
		return "", fmt.Errorf("%w: merge module", errUpstreamArtifactMissing)
	}

	data := p.templateData()
	data.MergeModule = g.win.msmFile

	descriptor := filepath.Join(p.assetsFolder, p.task.Name+".msi.wxs")
	if err := render.Render("windows/msi.wxs.tmpl", descriptor, data); err != nil {
		return "", err
	}

	if err := xmlutil.Prettify(descriptor); err != nil {
		return "", err
	}

	object := filepath.Join(p.assetsFolder, p.task.Name+".msi.wixobj")
	if _, err := execute.Run(ctx, "candle", "-out", object, descriptor); err != nil {
		return "", err
	}

	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.msi", p.task.Name, p.task.Version))

	if _, err := execute.Run(ctx, "light", "-spdb", "-ext", "WixUIExtension", "-out", artifact, object); err != nil {
		return "", err
	}

	if err := verifyArtifact(artifact); err != nil {
		return "", err
	}

	g.artifact = artifact

	return artifact, nil
}

// generateSetup produces a self-extracting setup executable with Inno Setup.
type generateSetup struct {
	artifact string
}

func (g *generateSetup) ArtifactName() string {
	return "Setup executable"
}

func (g *generateSetup) Skip(ctx context.Context, p *Packager) bool {
	if !p.task.Windows.ShouldGenerateSetup() {
		return true
	}

	return skipForeignPlatform(ctx, p, g.ArtifactName())
}

func (g *generateSetup) Apply(ctx context.Context, p *Packager) (string, error) {
	if g.artifact != "" {
		return g.artifact, nil
	}

	script := filepath.Join(p.assetsFolder, p.task.Name+".iss")
	if err := render.Render("windows/setup.iss.tmpl", script, p.templateData()); err != nil {
		return "", err
	}

	if _, err := execute.Run(ctx, "iscc", script); err != nil {
		return "", err
	}

	// The compiler derives the output path from the script's OutputDir and
	// OutputBaseFilename directives.
	artifact := filepath.Join(p.task.OutputDirectory,
		fmt.Sprintf("%s_%s.exe", p.task.Name, p.task.Version))

	if err := verifyArtifact(artifact); err != nil {
		return "", err
	}

	g.artifact = artifact

	return artifact, nil
}
