package packagers

import (
	"context"
	"fmt"
	"os"
	"path"
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

// macStubName is the launcher file name inside the MacOS folder. The
// elevation helper script relies on it.
const macStubName = "universalJavaApplicationStub"

// macPackager assembles a macOS .app bundle:
// <name>.app/Contents/{MacOS,Resources[/Java],PlugIns/<jre>}.
type macPackager struct {
	appFile         string
	contentsFolder  string
	resourcesFolder string
	javaFolder      string
	macOSFolder     string
}

func (m *macPackager) init(ctx context.Context, p *Packager) error {
	if p.task.Mac == nil {
		p.task.Mac = &config.MacConfig{}
	}

	p.task.Mac.AppID = macAppID(p.task)

	// Running the app from anywhere but the Resources folder does not work
	// reliably inside a bundle, so the convention is enforced here.
	if !p.task.ResourcesAsWorkingDir() {
		p.task.SetResourcesAsWorkingDir(true)
		logger.Warn(ctx, "'use_resources_as_working_dir' is always enabled on macOS")
	}

	return nil
}

func (m *macPackager) createStructure(ctx context.Context, p *Packager) error {
	m.appFile = filepath.Join(p.appFolder, p.task.Name+".app")
	m.contentsFolder = filepath.Join(m.appFile, "Contents")
	m.resourcesFolder = filepath.Join(m.contentsFolder, "Resources")
	m.macOSFolder = filepath.Join(m.contentsFolder, "MacOS")

	if p.task.Mac.ShouldRelocateJar() {
		m.javaFolder = filepath.Join(m.resourcesFolder, "Java")
	} else {
		m.javaFolder = m.resourcesFolder
	}

	for _, folder := range []string{m.appFile, m.contentsFolder, m.resourcesFolder, m.javaFolder, m.macOSFolder} {
		if _, err := files.Mkdir(folder, ""); err != nil {
			return err
		}

		logger.Infof(ctx, "Folder created: %s", folder)
	}

	p.executableDestination = m.macOSFolder
	p.jarFileDestination = m.javaFolder
	p.jreDestination = filepath.Join(m.contentsFolder, "PlugIns", p.task.JREDirectoryName, "Contents", "Home")
	p.resourcesDestination = m.resourcesFolder

	// Recorded here so installer generation in a fresh process knows the
	// launcher path without re-running assembly.
	switch {
	case p.task.AdministratorRequired:
		p.executable = filepath.Join(m.macOSFolder, "startup")
	case isReadableFile(p.task.Mac.CustomLauncher):
		p.executable = filepath.Join(m.macOSFolder, filepath.Base(p.task.Mac.CustomLauncher))
	default:
		p.executable = filepath.Join(m.macOSFolder, macStubName)
	}

	return nil
}

func (m *macPackager) assembleApp(ctx context.Context, p *Packager) (string, error) {
	if _, err := files.CopyFileToFolder(p.jarFile, m.javaFolder); err != nil {
		return "", err
	}

	if err := m.processStartup(ctx, p); err != nil {
		return "", err
	}

	m.processClasspath(p)

	if err := m.processInfoPlist(ctx, p); err != nil {
		return "", err
	}

	if err := m.processProvisionProfile(ctx, p); err != nil {
		return "", err
	}

	if err := m.codesign(ctx, p); err != nil {
		return "", err
	}

	if err := m.notarize(ctx, p); err != nil {
		return "", err
	}

	return m.appFile, nil
}

// processStartup places the launcher using one of three mutually exclusive
// strategies: an elevation helper script, a user-supplied custom launcher,
// or a precompiled stub selected by launch mode.
func (m *macPackager) processStartup(ctx context.Context, p *Packager) error {
	macConfig := p.task.Mac

	switch {
	case p.task.AdministratorRequired:
		// The helper script relaunches the stub with administrator rights,
		// so the stub itself is still required next to it.
		if err := m.placeStub(macConfig); err != nil {
			return err
		}

		if err := render.Render("mac/startup.tmpl", p.executable, p.templateData()); err != nil {
			return err
		}

	case isReadableFile(macConfig.CustomLauncher):
		if _, err := files.CopyFileToFolder(macConfig.CustomLauncher, m.macOSFolder); err != nil {
			return err
		}

	default:
		if err := m.placeStub(macConfig); err != nil {
			return err
		}
	}

	if err := os.Chmod(p.executable, files.ExecutableFileMode); err != nil {
		return err
	}

	logger.Infof(ctx, "Startup file created in %s", p.executable)

	return nil
}

// placeStub copies the precompiled launcher stub variant picked by the
// configured launch mode.
func (m *macPackager) placeStub(macConfig *config.MacConfig) error {
	var resource string

	startup := macConfig.StartupOrDefault()

	switch startup {
	case config.MacStartupX86_64:
		resource = macStubName + ".x86_64"
	case config.MacStartupARM64:
		resource = macStubName + ".arm64"
	case config.MacStartupScript:
		resource = macStubName + ".sh"
	default:
		resource = macStubName
	}

	destination := filepath.Join(m.macOSFolder, macStubName)

	// Scripts get their line endings normalized; binaries must not.
	err := files.CopyResourceToFile(resources,
		path.Join("resources", "mac", resource),
		destination,
		startup == config.MacStartupScript)
	if err != nil {
		return err
	}

	// The stub must stay runnable even when the elevation helper is the
	// recorded launcher, since the helper re-executes the stub.
	return os.Chmod(destination, files.ExecutableFileMode)
}

// processClasspath prefixes the runnable jar and adjusts entries for the
// working-directory convention.
func (m *macPackager) processClasspath(p *Packager) {
	classpath := filepath.Base(p.jarFile)
	if p.task.Mac.ShouldRelocateJar() {
		classpath = "Java/" + classpath
	}

	if p.task.Classpath != "" {
		classpath += ":" + p.task.Classpath
	}

	entries := strings.FieldsFunc(classpath, func(r rune) bool { return r == ':' || r == ';' })

	if !p.task.ResourcesAsWorkingDir() {
		for index, entry := range entries {
			if !filepath.IsAbs(entry) {
				entries[index] = "$ResourcesFolder/" + entry
			}
		}
	}

	p.classpath = strings.Join(entries, ":")
}

// processInfoPlist writes the bundle metadata descriptor; a custom file
// takes precedence over templated generation.
func (m *macPackager) processInfoPlist(ctx context.Context, p *Packager) error {
	infoPlist := filepath.Join(m.contentsFolder, "Info.plist")

	if isReadableFile(p.task.Mac.CustomInfoPlist) {
		if err := files.CopyFileToFile(p.task.Mac.CustomInfoPlist, infoPlist); err != nil {
			return err
		}
	} else {
		if err := render.Render("mac/Info.plist.tmpl", infoPlist, p.templateData()); err != nil {
			return err
		}

		if err := xmlutil.Prettify(infoPlist); err != nil {
			return err
		}
	}

	logger.Infof(ctx, "Info.plist file created in %s", infoPlist)

	return nil
}

// processProvisionProfile copies the embedded provisioning profile when one
// is configured. The bundle expects the fixed name.
func (m *macPackager) processProvisionProfile(ctx context.Context, p *Packager) error {
	profile := p.task.Mac.ProvisionProfile
	if !isReadableFile(profile) {
		return nil
	}

	destination := filepath.Join(m.contentsFolder, "embedded.provisionprofile")
	if err := files.CopyFileToFile(profile, destination); err != nil {
		return err
	}

	logger.Infof(ctx, "Provision profile file created from %s to %s", profile, destination)

	return nil
}

// codesign signs the bundle. Signing requires executing on macOS itself;
// on any other execution platform it degrades to a warning.
func (m *macPackager) codesign(ctx context.Context, p *Packager) error {
	switch {
	case !platform.Mac.IsCurrent():
		logger.Warnf(ctx, "Generated app could not be signed: current platform is %s", platform.Current())
	case !p.task.Mac.CodesignApp:
		logger.Warn(ctx, "App codesigning disabled")
	default:
		args := []string{"--deep", "--force", "--options", "runtime", "--sign", p.task.Mac.DeveloperID}
		if isReadableFile(p.task.Mac.Entitlements) {
			logger.Infof(ctx, "Using provided entitlements: %s", p.task.Mac.Entitlements)
			args = append(args, "--entitlements", p.task.Mac.Entitlements)
		}

		args = append(args, m.appFile)

		if _, err := execute.Run(ctx, "codesign", args...); err != nil {
			return err
		}
	}

	return nil
}

// notarize submits the bundle for notarization. The service confirms
// asynchronously, so a result that is not clearly affirmative is only a
// warning; an outright tool failure is fatal.
func (m *macPackager) notarize(ctx context.Context, p *Packager) error {
	macConfig := p.task.Mac

	switch {
	case !platform.Mac.IsCurrent():
		logger.Warnf(ctx, "Generated app could not be notarized: current platform is %s", platform.Current())
	case !macConfig.CodesignApp:
		logger.Info(ctx, "App notarization disabled")
	default:
		output, err := execute.Run(ctx, "xcrun", "notarytool", "submit", m.appFile,
			"--key", macConfig.NotaryAPIKey,
			"--issuer", macConfig.NotaryAPIIssuer,
			"--wait")
		if err != nil {
			return err
		}

		if strings.Contains(output, "status: Accepted") {
			logger.Info(ctx, "Notarization success")
		} else {
			logger.Warn(ctx,
				"Notarization result not as expected. That does not necessarily mean it failed, maybe we just didn't wait long enough.")
		}
	}

	return nil
}

func (m *macPackager) generators() []ArtifactGenerator {
	return []ArtifactGenerator{
		&generateDmg{mac: m},
		&generatePkg{mac: m},
	}
}

// macAppID returns the configured bundle identifier, or derives a stable
// reverse-DNS one from the organization and app names.
func macAppID(task *config.Task) string {
	if task.Mac != nil && task.Mac.AppID != "" {
		return task.Mac.AppID
	}

	return fmt.Sprintf("com.%s.%s",
		strings.ToLower(strings.ReplaceAll(task.OrganizationName, " ", "")),
		strings.ToLower(strings.ReplaceAll(task.Name, " ", "")))
}

// isReadableFile reports whether path names an existing regular file.
func isReadableFile(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
