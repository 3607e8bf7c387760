package platform

import "runtime"

// Platform identifies a packaging target operating system.
type Platform string

const (
	// Auto is a sentinel resolved to the execution platform at init time.
	Auto Platform = "auto"
	// Linux targets Linux distributions.
	Linux Platform = "linux"
	// Mac targets macOS.
	Mac Platform = "mac"
	// Windows targets Microsoft Windows.
	Windows Platform = "windows"
)

// Current returns the platform the pipeline is executing on.
func Current() Platform {
	switch runtime.GOOS {
	case "darwin":
		return Mac
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// Resolve maps the Auto sentinel to the execution platform and returns any
// other configured value unchanged.
func Resolve(configured Platform) Platform {
	if configured == "" || configured == Auto {
		return Current()
	}

	return configured
}

// IsCurrent reports whether p equals the execution platform.
func (p Platform) IsCurrent() bool {
	return p == Current()
}

// Valid reports whether p is a known packaging target.
func (p Platform) Valid() bool {
	switch p {
	case Auto, Linux, Mac, Windows:
		return true
	default:
		return false
	}
}

// ExecutableExtension returns the extension used by executables on p.
func (p Platform) ExecutableExtension() string {
	if p == Windows {
		return ".exe"
	}

	return ""
}

// IconExtension returns the icon file extension conventional for p.
func (p Platform) IconExtension() string {
	switch p {
	case Mac:
		return ".icns"
	case Windows:
		return ".ico"
	default:
		return ".png"
	}
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}
