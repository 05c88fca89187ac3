// Package platform classifies release artifacts by the operating system and
// CPU they target, and describes the host brewform itself runs on.
//
// Classification uses the coarse vocabulary Homebrew formulas branch on
// (OS.mac?, Hardware::CPU.arm?), so every tag maps directly onto a Ruby
// predicate. Host detection uses gopsutil for Linux distribution details
// and feeds the read-only platform table exposed to Lua configs.
package platform

import "context"

// OS is an operating-system tag as used in formula conditionals.
type OS string

const (
	OSMac     OS = "mac"
	OSLinux   OS = "linux"
	OSUnknown OS = "unknown"
)

// String returns the tag text.
func (o OS) String() string {
	return string(o)
}

// Known reports whether o names a real operating system.
func (o OS) Known() bool {
	return o == OSMac || o == OSLinux
}

// CPU is a processor-family tag as used in formula conditionals.
type CPU string

const (
	CPUIntel   CPU = "intel"
	CPUArm     CPU = "arm"
	CPUUnknown CPU = "unknown"
)

// String returns the tag text.
func (c CPU) String() string {
	return string(c)
}

// Known reports whether c names a real CPU family.
func (c CPU) Known() bool {
	return c == CPUIntel || c == CPUArm
}

// Info describes the host.
type Info struct {
	OS       string // GOOS: "linux", "darwin", ...
	Arch     string // normalized: "amd64", "arm64", or the raw value
	ArchRaw  string // original GOARCH
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical distro family (Linux only)
	Version  string // distro version (Linux only)
}

// IsLinux returns true if the host is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the host is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsAppleSilicon returns true on macOS + arm64.
func (i *Info) IsAppleSilicon() bool {
	return i.IsMacOS() && i.Arch == "arm64"
}

// Tags maps the host onto the formula vocabulary.
func (i *Info) Tags() (OS, CPU) {
	var os OS
	switch i.OS {
	case "darwin":
		os = OSMac
	case "linux":
		os = OSLinux
	default:
		os = OSUnknown
	}

	var cpu CPU
	switch i.Arch {
	case "amd64":
		cpu = CPUIntel
	case "arm64":
		cpu = CPUArm
	default:
		cpu = CPUUnknown
	}

	return os, cpu
}

// Detector is the interface for host detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
