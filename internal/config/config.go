package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/app-packager/internal/platform"
)

// Task holds the full configuration for one packaging run. It is built by
// the invoking build tool (or loaded from YAML), validated and defaulted
// once, and treated as read-mostly afterwards.
type Task struct {
	// Name is the application name, used for folders and artifact names.
	Name string `yaml:"name"`
	// DisplayName is shown to end users; defaults to Name.
	DisplayName string `yaml:"display_name"`
	// Version is the application version embedded in artifact names.
	Version string `yaml:"version"`
	// Description defaults to DisplayName.
	Description string `yaml:"description"`
	// URL is the application home page.
	URL string `yaml:"url"`
	// OrganizationName defaults to "ACME".
	OrganizationName string `yaml:"organization_name"`
	// OrganizationURL defaults to an empty string.
	OrganizationURL string `yaml:"organization_url"`
	// OrganizationEmail is used by installer metadata that requires a contact.
	OrganizationEmail string `yaml:"organization_email"`

	// Platform is the packaging target; "auto" resolves to the execution platform.
	Platform platform.Platform `yaml:"platform"`

	// OutputDirectory receives the app folder and all generated artifacts.
	OutputDirectory string `yaml:"output_directory"`
	// AssetsDir holds user-supplied template overrides and per-platform icons.
	AssetsDir string `yaml:"assets_dir"`
	// JDKPath points to the JDK used for runtime synthesis; defaults to $JAVA_HOME.
	JDKPath string `yaml:"jdk_path"`
	// JREPath, when set, is an explicit runtime folder embedded as-is.
	JREPath string `yaml:"jre_path"`
	// RunnableJar is the prebuilt runnable jar; when absent the build hook runs.
	RunnableJar string `yaml:"runnable_jar"`
	// LibsFolder contains the resolved dependency jars supplied by the build tool.
	LibsFolder string `yaml:"libs_folder"`
	// LicenseFile is an explicit license override.
	LicenseFile string `yaml:"license_file"`
	// LicenseURL is the project-declared license location, downloaded when
	// no explicit file is given.
	LicenseURL string `yaml:"license_url"`
	// IconFile is an explicit icon override.
	IconFile string `yaml:"icon_file"`

	// MainClass is the entry point recorded in launchers and metadata files.
	MainClass string `yaml:"main_class"`
	// VMArgs are passed to the runtime by the generated launchers.
	VMArgs []string `yaml:"vm_args"`
	// Classpath is an additional classpath appended after the runnable jar.
	Classpath string `yaml:"classpath"`
	// EnvPath is prepended to PATH by generated launchers when set.
	EnvPath string `yaml:"env_path"`

	// AdditionalResources are files or folders copied into the resources area.
	AdditionalResources []string `yaml:"additional_resources"`
	// Modules is the default module list used verbatim when trimming.
	Modules []string `yaml:"modules"`
	// AdditionalModules are always appended to the resolved module list.
	AdditionalModules []string `yaml:"additional_modules"`

	// BundleJRE embeds a runtime into the app. Cleared during the run when a
	// foreign-platform runtime cannot be synthesized.
	BundleJRE bool `yaml:"bundle_jre"`
	// CustomizedJRE trims the bundled runtime to required modules; defaults to true.
	CustomizedJRE *bool `yaml:"customized_jre"`
	// JREDirectoryName names the bundled runtime folder; defaults to "jre".
	JREDirectoryName string `yaml:"jre_directory_name"`
	// GenerateInstaller enables the installer-generation sweep; defaults to true.
	GenerateInstaller *bool `yaml:"generate_installer"`
	// ForceInstaller lets generators run even when the target platform
	// differs from the execution platform.
	ForceInstaller bool `yaml:"force_installer"`
	// AdministratorRequired wraps the launcher in an elevation helper.
	AdministratorRequired bool `yaml:"administrator_required"`
	// CreateTarball archives the app folder as .tar.gz.
	CreateTarball bool `yaml:"create_tarball"`
	// CreateZipball archives the app folder as .zip.
	CreateZipball bool `yaml:"create_zipball"`
	// CopyDependencies copies LibsFolder into the app; defaults to true.
	CopyDependencies *bool `yaml:"copy_dependencies"`
	// UseResourcesAsWorkingDir runs the app from the resources area; defaults
	// to true. Some platforms force it regardless of configuration.
	UseResourcesAsWorkingDir *bool `yaml:"use_resources_as_working_dir"`

	// Mac, Windows and Linux are the per-platform configuration blocks.
	// After validation only the block matching Platform is retained.
	Mac     *MacConfig     `yaml:"mac"`
	Windows *WindowsConfig `yaml:"windows"`
	Linux   *LinuxConfig   `yaml:"linux"`
}

const (
	// DefaultTaskFilename is the default packaging task file name.
	DefaultTaskFilename = "packaging.yaml"

	// DefaultOrganizationName is used when no organization is configured.
	DefaultOrganizationName = "ACME"

	// DefaultOutputDirectory receives artifacts when none is configured.
	DefaultOutputDirectory = "dist"

	// DefaultJREDirectoryName names the bundled runtime folder.
	DefaultJREDirectoryName = "jre"
)

var (
	// errNameRequired is returned when the application name is missing.
	errNameRequired = errors.New("application name must be provided")
	// errNameInvalid is returned when the name cannot be used as a file name.
	errNameInvalid = errors.New("application name is not usable as a file name")
	// errVersionRequired is returned when the application version is missing.
	errVersionRequired = errors.New("application version must be provided")
	// errUnknownPlatform is returned for unrecognized packaging targets.
	errUnknownPlatform = errors.New("unknown target platform")
	// errJDKPathMissing is returned when the configured JDK path does not exist.
	errJDKPathMissing = errors.New("JDK path doesn't exist")
	// errTaskIsNotSet is returned when a nil task is provided.
	errTaskIsNotSet = errors.New("packaging task is not set")
)

// Load reads a packaging task from the provided path and validates it.
func Load(path string) (*Task, error) {
	if path == "" {
		path = DefaultTaskFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read packaging task: %w", err)
	}

	var task Task
	if err = yaml.Unmarshal(contents, &task); err != nil {
		return nil, fmt.Errorf("unmarshal packaging task: %w", err)
	}

	if err = Validate(&task); err != nil {
		return nil, err
	}

	return &task, nil
}

// Validate checks required fields, applies defaults, resolves the target
// platform and prunes the per-platform blocks that do not match it.
// It mutates the task and runs before any destructive file-system action.
func Validate(task *Task) error {
	if task == nil {
		return errTaskIsNotSet
	}

	if strings.TrimSpace(task.Name) == "" {
		return errNameRequired
	}

	// The name becomes a folder and artifact file name.
	if strings.ContainsAny(task.Name, `/\`) || task.Name != filepath.Base(task.Name) {
		return fmt.Errorf("%w: %q", errNameInvalid, task.Name)
	}

	if strings.TrimSpace(task.Version) == "" {
		return errVersionRequired
	}

	if task.DisplayName == "" {
		task.DisplayName = task.Name
	}

	if task.Description == "" {
		task.Description = task.DisplayName
	}

	if task.OrganizationName == "" {
		task.OrganizationName = DefaultOrganizationName
	}

	if task.OutputDirectory == "" {
		task.OutputDirectory = DefaultOutputDirectory
	}

	if task.JREDirectoryName == "" {
		task.JREDirectoryName = DefaultJREDirectoryName
	}

	if task.Platform == "" {
		task.Platform = platform.Auto
	}

	if !task.Platform.Valid() {
		return fmt.Errorf("%w: %q", errUnknownPlatform, task.Platform)
	}

	task.Platform = platform.Resolve(task.Platform)

	if task.JDKPath == "" {
		task.JDKPath = os.Getenv("JAVA_HOME")
	}

	// The JDK is only needed when a runtime is synthesized, but a configured
	// path that does not exist is a configuration error either way.
	if task.JDKPath != "" {
		if _, err := os.Stat(task.JDKPath); err != nil {
			return fmt.Errorf("%w: %s", errJDKPathMissing, task.JDKPath)
		}
	}

	if task.LicenseURL != "" {
		if _, err := url.ParseRequestURI(task.LicenseURL); err != nil {
			return fmt.Errorf("invalid license URL: %w", err)
		}
	}

	// At most one per-platform block survives initialization.
	switch task.Platform {
	case platform.Linux:
		task.Mac, task.Windows = nil, nil
	case platform.Mac:
		task.Windows, task.Linux = nil, nil
	case platform.Windows:
		task.Mac, task.Linux = nil, nil
	}

	return nil
}

// Save writes the packaging task to the provided path.
func Save(path string, task *Task) error {
	if task == nil {
		return errTaskIsNotSet
	}

	if path == "" {
		path = DefaultTaskFilename
	}

	data, err := yaml.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal packaging task: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, 0o600); err != nil {
		return fmt.Errorf("write packaging task: %w", err)
	}

	return nil
}

// ShouldGenerateInstaller reports the installer feature flag (default true).
func (t *Task) ShouldGenerateInstaller() bool {
	return boolOrDefault(t.GenerateInstaller, true)
}

// ShouldCopyDependencies reports the dependency-copy flag (default true).
func (t *Task) ShouldCopyDependencies() bool {
	return boolOrDefault(t.CopyDependencies, true)
}

// UseCustomizedJRE reports whether the bundled runtime is trimmed to
// required modules (default true).
func (t *Task) UseCustomizedJRE() bool {
	return boolOrDefault(t.CustomizedJRE, true)
}

// ResourcesAsWorkingDir reports the working-directory convention (default true).
func (t *Task) ResourcesAsWorkingDir() bool {
	return boolOrDefault(t.UseResourcesAsWorkingDir, true)
}

// SetResourcesAsWorkingDir overrides the working-directory convention.
// Platform packagers use it to enforce platform-mandated values.
func (t *Task) SetResourcesAsWorkingDir(v bool) {
	t.UseResourcesAsWorkingDir = &v
}

// boolOrDefault returns the flag value, or def when the flag is unset.
func boolOrDefault(flag *bool, def bool) bool {
	if flag == nil {
		return def
	}

	return *flag
}
