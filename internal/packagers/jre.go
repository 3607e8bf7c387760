package packagers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/oshokin/app-packager/internal/execute"
	"github.com/oshokin/app-packager/internal/files"
	"github.com/oshokin/app-packager/internal/logger"
)

const (
	// allModulePath is the sentinel meaning "include every module".
	allModulePath = "ALL-MODULE-PATH"

	// legacyJavaMajorVersion is the last toolchain generation without jlink.
	legacyJavaMajorVersion = 8

	// printModuleDepsMinVersion is the first toolchain generation supporting
	// the --print-module-deps mode of the dependency-analysis tool.
	printModuleDepsMinVersion = 13

	// listDepsMinVersion is the first toolchain generation supporting the
	// legacy --list-deps mode.
	listDepsMinVersion = 9
)

var (
	// errJREPathMissing is returned when the explicit runtime folder does not exist.
	errJREPathMissing = errors.New("JRE path specified does not exist")
	// errJREPathNotFolder is returned when the explicit runtime path is not a directory.
	errJREPathNotFolder = errors.New("JRE path specified is not a folder")
	// errJREBinMissing is returned when the copied runtime has no executable-binaries folder.
	errJREBinMissing = errors.New("embedded JRE has no bin folder")
	// errLegacyToolchain is returned when runtime trimming is requested on a
	// toolchain generation that cannot produce one.
	errLegacyToolchain = errors.New(
		"cannot create a customized JRE with this JDK generation, use the jre_path property instead")
	// errModulesFolderMissing is returned when the JDK has no jmods folder.
	errModulesFolderMissing = errors.New("jmods folder doesn't exist")
	// errNoJDKAvailable is returned when no JDK home can be determined.
	errNoJDKAvailable = errors.New("no JDK available: set JAVA_HOME or the jdk_path property")

	// javaVersionPattern extracts the quoted version from `java -version` output.
	javaVersionPattern = regexp.MustCompile(`version "([^"]+)"`)
)

// bundleJRE embeds a runtime into the app, evaluated once per run:
// an explicit runtime folder is copied verbatim; otherwise a trimmed
// runtime is synthesized with the toolchain, unless the toolchain
// generation or a platform mismatch makes that impossible.
func (p *Packager) bundleJRE(ctx context.Context, destination, libsFolder string) error {
	task := p.task

	if !task.BundleJRE {
		logger.Warn(ctx, "Bundling JRE disabled by the 'bundle_jre' property")
		return nil
	}

	currentJDK := currentJDKHome()

	logger.Infof(ctx, "Bundling JRE using %s", currentJDK)

	switch {
	case task.JREPath != "":
		if err := p.embedExplicitJRE(ctx, destination); err != nil {
			return err
		}

	default:
		version, err := javaMajorVersion(ctx, currentJDK)
		if err != nil {
			return err
		}

		if version <= legacyJavaMajorVersion {
			return fmt.Errorf("%w: JDK version is %d", errLegacyToolchain, version)
		}

		if !task.Platform.IsCurrent() && sameFolder(task.JDKPath, currentJDK) {
			// A same-platform toolchain cannot synthesize a runtime for a
			// foreign platform; a cross-platform JDK must be supplied.
			logger.Warnf(ctx,
				"Cannot create a customized JRE: target platform (%s) differs from the execution platform. Use the jdk_path property.",
				task.Platform)

			task.BundleJRE = false

			break
		}

		if err = p.synthesizeJRE(ctx, destination, libsFolder, currentJDK, version); err != nil {
			return err
		}
	}

	// The bundled legal folder only inflates the artifact.
	_ = files.RemoveFolder(filepath.Join(destination, "legal"))

	if task.BundleJRE {
		logger.Infof(ctx, "JRE bundled in %s", destination)
	} else {
		logger.Info(ctx, "JRE bundling skipped")
	}

	return nil
}

// embedExplicitJRE replaces the destination runtime folder with a verbatim
// copy of the task-supplied one.
func (p *Packager) embedExplicitJRE(ctx context.Context, destination string) error {
	jrePath := p.task.JREPath

	logger.Infof(ctx, "Embedding JRE from %s", jrePath)

	info, err := os.Stat(jrePath)
	if err != nil {
		return fmt.Errorf("%w: %s", errJREPathMissing, jrePath)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", errJREPathNotFolder, jrePath)
	}

	if err = files.RemoveFolder(destination); err != nil {
		return err
	}

	if err = files.CopyFolderContentToFolder(jrePath, destination); err != nil {
		return err
	}

	binFolder := filepath.Join(destination, "bin")
	if _, err = os.Stat(binFolder); err != nil {
		return fmt.Errorf("could not embed JRE from %s: %w: %s", jrePath, errJREBinMissing, binFolder)
	}

	return files.MarkExecutable(binFolder)
}

// synthesizeJRE produces a reduced runtime with the trimming tool.
func (p *Packager) synthesizeJRE(ctx context.Context, destination, libsFolder, currentJDK string, version int) error {
	modules, err := resolveModules(ctx, currentJDK, libsFolder, p.jarFile,
		p.task.UseCustomizedJRE(), p.task.Modules, p.task.AdditionalModules, version)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Creating JRE with modules: %s", modules)

	modulesFolder := filepath.Join(p.task.JDKPath, "jmods")
	if _, err = os.Stat(modulesFolder); err != nil {
		return fmt.Errorf("%w: %s", errModulesFolderMissing, modulesFolder)
	}

	if err = files.RemoveFolder(destination); err != nil {
		return err
	}

	jlink := filepath.Join(currentJDK, "bin", "jlink")

	_, err = execute.Run(ctx, jlink,
		"--module-path", modulesFolder,
		"--add-modules", modules,
		"--output", destination,
		"--no-header-files",
		"--no-man-pages",
		"--strip-debug",
		"--compress=2")
	if err != nil {
		return err
	}

	return files.MarkExecutable(filepath.Join(destination, "bin"))
}

// resolveModules computes the comma-separated module list for the trimming
// tool. Priority: a configured default list is used verbatim; otherwise the
// dependency-analysis tool is asked, with the query mode picked by the
// toolchain generation; otherwise every module is included. The configured
// additional modules are always appended.
func resolveModules(
	ctx context.Context,
	jdkHome, libsFolder, jarFile string,
	customized bool,
	defaults, additional []string,
	version int,
) (string, error) {
	var (
		modules []string
		err     error
	)

	switch {
	case customized && len(defaults) > 0:
		for _, module := range defaults {
			modules = append(modules, strings.TrimSpace(module))
		}

	case customized && version >= printModuleDepsMinVersion:
		modules, err = printModuleDeps(ctx, jdkHome, libsFolder, jarFile, version)
		if err != nil {
			return "", err
		}

	case customized && version >= listDepsMinVersion:
		modules, err = listDeps(ctx, jdkHome, libsFolder, jarFile, version)
		if err != nil {
			return "", err
		}

	default:
		modules = []string{allModulePath}
	}

	modules = append(modules, additional...)

	if len(modules) == 0 {
		logger.Warn(ctx, "Could not determine the necessary modules, all modules will be included")

		modules = []string{allModulePath}
	}

	return strings.Join(modules, ","), nil
}

// printModuleDeps runs the dependency-analysis tool in its modern
// comma-separated output mode.
func printModuleDeps(ctx context.Context, jdkHome, libsFolder, jarFile string, version int) ([]string, error) {
	output, err := execute.Run(ctx, jdepsTool(jdkHome), append(
		jdepsCommonArgs(libsFolder, version),
		"--ignore-missing-deps",
		"--print-module-deps",
		jarFile,
	)...)
	if err != nil {
		return nil, err
	}

	var modules []string

	for _, module := range strings.Split(strings.TrimSpace(output), ",") {
		module = strings.TrimSpace(module)
		if module != "" {
			modules = append(modules, module)
		}
	}

	return modules, nil
}

// listDeps runs the dependency-analysis tool in its legacy line-based mode
// and post-processes the output: a trailing "/<detail>" suffix is stripped,
// blank lines and removed-internal markers are discarded, duplicates are
// dropped preserving first-seen order.
func listDeps(ctx context.Context, jdkHome, libsFolder, jarFile string, version int) ([]string, error) {
	output, err := execute.Run(ctx, jdepsTool(jdkHome), append(
		jdepsCommonArgs(libsFolder, version),
		"--list-deps",
		jarFile,
	)...)
	if err != nil {
		return nil, err
	}

	return parseListDeps(output), nil
}

// parseListDeps normalizes legacy --list-deps output into a module list.
func parseListDeps(output string) []string {
	var (
		modules []string
		seen    = make(map[string]struct{})
	)

	for _, line := range strings.Split(output, "\n") {
		module := strings.TrimSpace(line)
		if before, _, found := strings.Cut(module, "/"); found {
			module = before
		}

		if module == "" || strings.HasPrefix(module, "JDK removed internal") {
			continue
		}

		if _, duplicate := seen[module]; duplicate {
			continue
		}

		seen[module] = struct{}{}
		modules = append(modules, module)
	}

	return modules
}

// jdepsTool returns the dependency-analysis tool path inside the JDK.
func jdepsTool(jdkHome string) string {
	return filepath.Join(jdkHome, "bin", "jdeps")
}

// jdepsCommonArgs builds the arguments shared by both query modes. The libs
// glob is omitted when the app has no dependency folder.
func jdepsCommonArgs(libsFolder string, version int) []string {
	args := []string{"-q", "--multi-release", strconv.Itoa(version)}

	if _, err := os.Stat(libsFolder); err == nil {
		args = append(args, filepath.Join(libsFolder, "*.jar"))
	}

	return args
}

// currentJDKHome returns the toolchain home of the current environment.
func currentJDKHome() string {
	return os.Getenv("JAVA_HOME")
}

// javaMajorVersion determines the toolchain generation of the JDK at home,
// preferring the release metadata file and falling back to running the
// runtime itself.
func javaMajorVersion(ctx context.Context, home string) (int, error) {
	if home == "" {
		return 0, errNoJDKAvailable
	}

	if contents, err := os.ReadFile(filepath.Clean(filepath.Join(home, "release"))); err == nil {
		for _, line := range strings.Split(string(contents), "\n") {
			value, found := strings.CutPrefix(strings.TrimSpace(line), "JAVA_VERSION=")
			if !found {
				continue
			}

			if version, ok := parseJavaMajorVersion(strings.Trim(value, `"`)); ok {
				return version, nil
			}
		}
	}

	output, err := execute.Run(ctx, filepath.Join(home, "bin", "java"), "-version")
	if err != nil {
		return 0, fmt.Errorf("probe JDK version: %w", err)
	}

	match := javaVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("probe JDK version: unrecognized output: %s", strings.TrimSpace(output))
	}

	if version, ok := parseJavaMajorVersion(match[1]); ok {
		return version, nil
	}

	return 0, fmt.Errorf("probe JDK version: unrecognized version string: %s", match[1])
}

// parseJavaMajorVersion maps version strings like "1.8.0_292" or "17.0.1"
// to their major generation.
func parseJavaMajorVersion(version string) (int, bool) {
	parts := strings.Split(version, ".")
	if len(parts) == 0 {
		return 0, false
	}

	index := 0
	if parts[0] == "1" && len(parts) > 1 {
		index = 1
	}

	major, err := strconv.Atoi(strings.TrimSpace(parts[index]))
	if err != nil {
		return 0, false
	}

	return major, true
}

// sameFolder compares two paths after cleaning.
func sameFolder(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
