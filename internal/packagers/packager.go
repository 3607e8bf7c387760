package packagers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/oshokin/app-packager/internal/config"
	"github.com/oshokin/app-packager/internal/files"
	"github.com/oshokin/app-packager/internal/logger"
	"github.com/oshokin/app-packager/internal/platform"
	"github.com/oshokin/app-packager/internal/render"
)

// assetsFolderName is the intermediate folder for rendered descriptors and
// other scratch files, created next to the app folder.
const assetsFolderName = "assets"

var (
	// errNoRunnableJar is returned when neither a prebuilt runnable jar nor
	// a build hook is available.
	errNoRunnableJar = errors.New("no runnable jar supplied and no build hook configured")
	// errAppRunning is returned when the packaged application appears to be
	// running while its folder is about to be replaced.
	errAppRunning = errors.New("packaged application is currently running, close it before repackaging")
)

// CreateRunnableJarFunc builds the runnable jar when the task does not
// supply one. It is provided by the invoking build tool.
type CreateRunnableJarFunc func(ctx context.Context, p *Packager) (string, error)

// platformPackager is implemented once per target operating system. The
// four-stage sequencing (init, structure, assembly, installers) lives in
// the driver; variants contribute the platform-specific pieces.
type platformPackager interface {
	// init applies platform defaults and platform-mandated flag overrides.
	init(ctx context.Context, p *Packager) error
	// createStructure builds the platform folder layout and records the
	// destination folders on the driver.
	createStructure(ctx context.Context, p *Packager) error
	// assembleApp performs the platform assembly sub-steps and returns the
	// produced application container.
	assembleApp(ctx context.Context, p *Packager) (string, error)
	// generators returns the ordered installer generator list.
	generators() []ArtifactGenerator
}

// Packager owns one packaging run: the task plus derived state discovered
// across stages. Each derived field is written once by the stage that
// produces it and only read afterwards.
type Packager struct {
	task    *config.Task
	variant platformPackager

	// generatorList is populated once at construction time.
	generatorList []ArtifactGenerator

	// createRunnableJar is the optional build hook.
	createRunnableJar CreateRunnableJarFunc

	// Generic build context, set in createAppStructure.
	appFolder    string
	assetsFolder string
	executable   string
	jarFile      string

	// Resolved resources, set in resolveResources.
	licenseFile         string
	iconFile            string
	additionalResources []string

	// Platform destination folders, set by the variant's createStructure.
	executableDestination string
	jarFileDestination    string
	jreDestination        string
	resourcesDestination  string

	// classpath is the launcher classpath adjusted for the working-directory
	// convention, set during assembly.
	classpath string
}

// New constructs a packager for the task's target platform. The task must
// already be validated; New re-validates defensively since validation is
// idempotent and cheap.
func New(task *config.Task) (*Packager, error) {
	if err := config.Validate(task); err != nil {
		return nil, err
	}

	p := &Packager{task: task}

	switch task.Platform {
	case platform.Mac:
		p.variant = &macPackager{}
	case platform.Windows:
		p.variant = &windowsPackager{}
	default:
		p.variant = &linuxPackager{}
	}

	p.generatorList = p.variant.generators()

	return p, nil
}

// Task returns the packaging task owned by this run.
func (p *Packager) Task() *config.Task {
	return p.task
}

// AppFolder returns the application folder created for this run.
func (p *Packager) AppFolder() string {
	return p.appFolder
}

// SetCreateRunnableJar installs the build hook used when the task does not
// supply a prebuilt runnable jar.
func (p *Packager) SetCreateRunnableJar(fn CreateRunnableJarFunc) {
	p.createRunnableJar = fn
}

// CreateApp runs the app-assembly pipeline and returns the produced
// application container (a folder or a bundle directory, depending on the
// target platform).
func (p *Packager) CreateApp(ctx context.Context) (string, error) {
	ctx = logger.WithName(ctx, "packager")

	logger.Infof(ctx, "Creating app %s %s for %s", p.task.Name, p.task.Version, p.task.Platform)

	if err := p.init(ctx); err != nil {
		return "", fmt.Errorf("initialize packager: %w", err)
	}

	if err := p.createAppStructure(ctx); err != nil {
		return "", fmt.Errorf("create app structure: %w", err)
	}

	if err := p.resolveResources(ctx); err != nil {
		return "", fmt.Errorf("resolve resources: %w", err)
	}

	p.copyAdditionalResources(ctx, p.additionalResources, p.resourcesDestination)

	if err := p.obtainRunnableJar(ctx); err != nil {
		return "", err
	}

	libsFolder := filepath.Join(p.jarFileDestination, "libs")
	if err := p.copyAllDependencies(ctx, libsFolder); err != nil {
		return "", fmt.Errorf("copy dependencies: %w", err)
	}

	if err := p.bundleJRE(ctx, p.jreDestination, libsFolder); err != nil {
		return "", fmt.Errorf("bundle JRE: %w", err)
	}

	appFile, err := p.variant.assembleApp(ctx, p)
	if err != nil {
		return "", fmt.Errorf("assemble app: %w", err)
	}

	if err = p.createBundles(ctx); err != nil {
		return "", fmt.Errorf("create bundles: %w", err)
	}

	logger.Infof(ctx, "App created in %s", p.appFolder)

	return appFile, nil
}

// GenerateInstallers drives the ordered installer generator sweep. When the
// feature is disabled, or the target platform differs from the execution
// platform without a force override, it returns an empty list with a
// warning and attempts no partial work. The sweep is fail-fast: the first
// generator failure aborts it, already-produced artifacts are retained.
func (p *Packager) GenerateInstallers(ctx context.Context) ([]string, error) {
	ctx = logger.WithName(ctx, "packager")

	artifacts := make([]string, 0, len(p.generatorList))

	if !p.task.ShouldGenerateInstaller() {
		logger.Warn(ctx, "Installer generation is disabled by the 'generate_installer' property")
		return artifacts, nil
	}

	if !p.task.Platform.IsCurrent() && !p.task.ForceInstaller {
		logger.Warnf(ctx,
			"Installers cannot be generated: target platform (%s) differs from the execution platform",
			p.task.Platform)

		return artifacts, nil
	}

	logger.Info(ctx, "Generating installers ...")

	// Init is idempotent; installer generation may run in a fresh process
	// after a previous app-assembly run.
	if err := p.init(ctx); err != nil {
		return nil, fmt.Errorf("initialize packager: %w", err)
	}

	if err := p.locateStructure(ctx); err != nil {
		return nil, err
	}

	for _, generator := range p.generatorList {
		if generator.Skip(ctx, p) {
			logger.Infof(ctx, "Skipping %s generation", generator.ArtifactName())
			continue
		}

		artifact, err := generator.Apply(ctx, p)
		if err != nil {
			return artifacts, fmt.Errorf("generate %s: %w", generator.ArtifactName(), err)
		}

		logger.Infof(ctx, "%s generated: %s", generator.ArtifactName(), artifact)
		artifacts = append(artifacts, artifact)
	}

	logger.Infof(ctx, "Installers generated: %v", artifacts)

	return artifacts, nil
}

// init validates and defaults the task, points template rendering at the
// user assets directory and applies platform-specific defaults. Idempotent.
func (p *Packager) init(ctx context.Context) error {
	if err := config.Validate(p.task); err != nil {
		return err
	}

	render.SetAssetsDir(p.task.AssetsDir)

	if err := p.variant.init(ctx, p); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Packager initialized",
		"name", p.task.Name,
		"version", p.task.Version,
		"platform", p.task.Platform)

	return nil
}

// createAppStructure builds the output skeleton: the app folder (replacing
// any previous one), the intermediate assets folder and the platform layout.
func (p *Packager) createAppStructure(ctx context.Context) error {
	if _, err := files.Mkdir(p.task.OutputDirectory, ""); err != nil {
		return err
	}

	appFolder := filepath.Join(p.task.OutputDirectory, p.task.Name)
	if _, err := os.Stat(appFolder); err == nil {
		if err = p.ensureAppNotRunning(ctx); err != nil {
			return err
		}

		if err = files.RemoveFolder(appFolder); err != nil {
			return err
		}

		logger.Infof(ctx, "Old app folder removed: %s", appFolder)
	}

	var err error

	p.appFolder, err = files.Mkdir(p.task.OutputDirectory, p.task.Name)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "App folder created: %s", p.appFolder)

	p.assetsFolder, err = files.Mkdir(p.task.OutputDirectory, assetsFolderName)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Assets folder created: %s", p.assetsFolder)

	return p.variant.createStructure(ctx, p)
}

// locateStructure recomputes the derived folder paths without destroying
// existing output, so installer generation can run in a process that did
// not perform app assembly.
func (p *Packager) locateStructure(ctx context.Context) error {
	var err error

	if p.appFolder == "" {
		p.appFolder = filepath.Join(p.task.OutputDirectory, p.task.Name)
	}

	p.assetsFolder, err = files.Mkdir(p.task.OutputDirectory, assetsFolderName)
	if err != nil {
		return err
	}

	return p.variant.createStructure(ctx, p)
}

// obtainRunnableJar records the supplied runnable jar when present and
// readable, otherwise delegates to the build hook.
func (p *Packager) obtainRunnableJar(ctx context.Context) error {
	if p.task.RunnableJar != "" {
		if info, err := os.Stat(p.task.RunnableJar); err == nil && info.Mode().IsRegular() {
			logger.Infof(ctx, "Using runnable JAR: %s", p.task.RunnableJar)
			p.jarFile = p.task.RunnableJar

			return nil
		}

		logger.Warnf(ctx, "Supplied runnable JAR is not readable: %s", p.task.RunnableJar)
	}

	if p.createRunnableJar == nil {
		return errNoRunnableJar
	}

	jarFile, err := p.createRunnableJar(ctx, p)
	if err != nil {
		return fmt.Errorf("create runnable jar: %w", err)
	}

	p.jarFile = jarFile

	return nil
}

// copyAllDependencies copies the build tool's resolved dependency jars into
// the app's libs folder.
func (p *Packager) copyAllDependencies(ctx context.Context, libsFolder string) error {
	if !p.task.ShouldCopyDependencies() {
		return nil
	}

	if p.task.LibsFolder == "" {
		logger.Warn(ctx, "No dependencies found")
		return nil
	}

	if _, err := os.Stat(p.task.LibsFolder); err != nil {
		logger.Warnf(ctx, "Dependency folder is not readable: %s", p.task.LibsFolder)
		return nil
	}

	logger.Infof(ctx, "Copying all dependencies to %s", libsFolder)

	if _, err := files.Mkdir(libsFolder, ""); err != nil {
		return err
	}

	return files.CopyFolderContentToFolder(p.task.LibsFolder, libsFolder)
}

// ensureAppNotRunning refuses to replace an app folder whose launcher
// appears to be running. The check is best effort: when the process list
// cannot be read the removal proceeds.
func (p *Packager) ensureAppNotRunning(ctx context.Context) error {
	processes, err := ps.Processes()
	if err != nil {
		logger.Warnf(ctx, "Unable to inspect running processes: %v", err)
		return nil
	}

	launcher := p.task.Name + p.task.Platform.ExecutableExtension()
	ownPID := os.Getpid()

	for _, process := range processes {
		if process.Pid() == ownPID {
			continue
		}

		if process.Executable() == launcher {
			return fmt.Errorf("%w: %s (pid %d)", errAppRunning, launcher, process.Pid())
		}
	}

	return nil
}

// templateData is the rendering context shared by all templates.
type templateData struct {
	// Task exposes the full packaging task to templates.
	Task *config.Task
	// AppFolder is the application folder absolute path.
	AppFolder string
	// AssetsFolder is the intermediate assets folder absolute path.
	AssetsFolder string
	// Executable is the base name of the startup launcher.
	Executable string
	// JarFile is the base name of the runnable jar.
	JarFile string
	// IconFile is the base name of the resolved icon.
	IconFile string
	// LicenseFile is the resolved license absolute path, or empty.
	LicenseFile string
	// Classpath is the launcher classpath.
	Classpath string
	// AppID is the macOS bundle identifier.
	AppID string
	// UpgradeCode is the Windows product GUID.
	UpgradeCode string
	// MergeModule is the merge-module path embedded by the MSI descriptor.
	MergeModule string
	// PackageName is the lowercase artifact name used by Linux packages.
	PackageName string
}

// templateData assembles the rendering context from the current run state.
func (p *Packager) templateData() *templateData {
	executable := p.task.Name
	if p.executable != "" {
		executable = filepath.Base(p.executable)
	}

	data := &templateData{
		Task:         p.task,
		AppFolder:    p.appFolder,
		AssetsFolder: p.assetsFolder,
		Executable:   executable,
		JarFile:      filepath.Base(p.jarFile),
		IconFile:     filepath.Base(p.iconFile),
		LicenseFile:  p.licenseFile,
		Classpath:    p.classpath,
		PackageName:  linuxPackageName(p.task.Name),
	}

	if p.task.Mac != nil {
		data.AppID = macAppID(p.task)
	}

	if p.task.Windows != nil {
		data.UpgradeCode = windowsUpgradeCode(p.task)
	}

	return data
}

// linuxPackageName lowercases the app name into a valid package name.
func linuxPackageName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
