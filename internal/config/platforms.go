package config

// MacStartup selects the precompiled launcher stub variant for macOS.
type MacStartup string

const (
	// MacStartupUniversal is a fat binary stub covering both CPU architectures.
	MacStartupUniversal MacStartup = "universal"
	// MacStartupX86_64 is the Intel-only stub.
	MacStartupX86_64 MacStartup = "x86_64"
	// MacStartupARM64 is the Apple-silicon-only stub.
	MacStartupARM64 MacStartup = "arm64"
	// MacStartupScript is a portable shell-script launcher.
	MacStartupScript MacStartup = "script"
)

// MacConfig is the macOS-specific configuration block.
type MacConfig struct {
	// RelocateJar places the runnable jar under Contents/Resources/Java
	// instead of Contents/Resources. Defaults to true.
	RelocateJar *bool `yaml:"relocate_jar"`
	// Startup selects the precompiled launcher stub; defaults to universal.
	Startup MacStartup `yaml:"startup"`
	// CustomLauncher replaces the precompiled stub when readable.
	CustomLauncher string `yaml:"custom_launcher"`
	// CustomInfoPlist replaces the templated Info.plist when readable.
	CustomInfoPlist string `yaml:"custom_info_plist"`
	// ProvisionProfile is copied as embedded.provisionprofile when readable.
	ProvisionProfile string `yaml:"provision_profile"`

	// AppID is the bundle identifier, also used as notarization bundle id.
	AppID string `yaml:"app_id"`
	// CodesignApp enables code signing (and notarization) of the bundle.
	CodesignApp bool `yaml:"codesign_app"`
	// DeveloperID is the signing identity passed to the signing tool.
	DeveloperID string `yaml:"developer_id"`
	// Entitlements is an optional entitlements file used while signing.
	Entitlements string `yaml:"entitlements"`
	// NotaryAPIKey identifies the App Store Connect API key for notarization.
	NotaryAPIKey string `yaml:"notary_api_key"`
	// NotaryAPIIssuer is the issuer id paired with NotaryAPIKey.
	NotaryAPIIssuer string `yaml:"notary_api_issuer"`

	// GenerateDmg produces a DMG disk image artifact. Defaults to true.
	GenerateDmg *bool `yaml:"generate_dmg"`
	// GeneratePkg produces a PKG installer artifact. Defaults to true.
	GeneratePkg *bool `yaml:"generate_pkg"`
}

// ShouldRelocateJar reports whether the jar lives in the Java subfolder.
func (c *MacConfig) ShouldRelocateJar() bool {
	return boolOrDefault(c.RelocateJar, true)
}

// ShouldGenerateDmg reports whether the DMG artifact is enabled.
func (c *MacConfig) ShouldGenerateDmg() bool {
	return boolOrDefault(c.GenerateDmg, true)
}

// ShouldGeneratePkg reports whether the PKG artifact is enabled.
func (c *MacConfig) ShouldGeneratePkg() bool {
	return boolOrDefault(c.GeneratePkg, true)
}

// StartupOrDefault returns the configured stub variant, defaulting to universal.
func (c *MacConfig) StartupOrDefault() MacStartup {
	if c.Startup == "" {
		return MacStartupUniversal
	}

	return c.Startup
}

// WindowsConfig is the Windows-specific configuration block.
type WindowsConfig struct {
	// CustomLauncher replaces the generic launcher stub when readable.
	CustomLauncher string `yaml:"custom_launcher"`
	// CustomManifest replaces the templated exe manifest when readable.
	CustomManifest string `yaml:"custom_manifest"`
	// UpgradeCode is the stable GUID identifying the product across versions.
	UpgradeCode string `yaml:"upgrade_code"`

	// GenerateMsm produces a merge module artifact. Defaults to true.
	GenerateMsm *bool `yaml:"generate_msm"`
	// GenerateMsi produces an MSI installer embedding the merge module.
	// Defaults to true.
	GenerateMsi *bool `yaml:"generate_msi"`
	// GenerateSetup produces a self-extracting setup executable. Defaults to true.
	GenerateSetup *bool `yaml:"generate_setup"`

	// SigningIdentity enables signing of the launcher when set.
	SigningIdentity string `yaml:"signing_identity"`
}

// ShouldGenerateMsm reports whether the merge module artifact is enabled.
func (c *WindowsConfig) ShouldGenerateMsm() bool {
	return boolOrDefault(c.GenerateMsm, true)
}

// ShouldGenerateMsi reports whether the MSI artifact is enabled.
func (c *WindowsConfig) ShouldGenerateMsi() bool {
	return boolOrDefault(c.GenerateMsi, true)
}

// ShouldGenerateSetup reports whether the setup executable is enabled.
func (c *WindowsConfig) ShouldGenerateSetup() bool {
	return boolOrDefault(c.GenerateSetup, true)
}

// LinuxConfig is the Linux-specific configuration block.
type LinuxConfig struct {
	// Categories is the desktop-entry categories line.
	Categories string `yaml:"categories"`
	// CustomDesktopFile replaces the templated .desktop entry when readable.
	CustomDesktopFile string `yaml:"custom_desktop_file"`

	// GenerateDeb produces a Debian package artifact. Defaults to true.
	GenerateDeb *bool `yaml:"generate_deb"`
	// GenerateRpm produces an RPM package artifact. Defaults to true.
	GenerateRpm *bool `yaml:"generate_rpm"`
}

// ShouldGenerateDeb reports whether the Debian package artifact is enabled.
func (c *LinuxConfig) ShouldGenerateDeb() bool {
	return boolOrDefault(c.GenerateDeb, true)
}

// ShouldGenerateRpm reports whether the RPM artifact is enabled.
func (c *LinuxConfig) ShouldGenerateRpm() bool {
	return boolOrDefault(c.GenerateRpm, true)
}
