package platform

import "strings"

// Classify derives the OS and CPU tags an artifact targets from its URL or
// file name. Matching is case-sensitive substring containment and the
// first matching rule wins, so "aarch64-apple-darwin" is (mac, arm) and
// "x86_64-unknown-linux-gnu" is (linux, intel). Anything unrecognized is
// reported as unknown; Classify never fails.
func Classify(s string) (OS, CPU) {
	return classifyOS(s), classifyCPU(s)
}

func classifyOS(s string) OS {
	switch {
	case containsAny(s, "apple", "mac", "darwin"):
		return OSMac
	case strings.Contains(s, "linux"):
		return OSLinux
	default:
		return OSUnknown
	}
}

func classifyCPU(s string) CPU {
	switch {
	case containsAny(s, "intel", "x86_64"):
		return CPUIntel
	case containsAny(s, "aarch", "arm"):
		return CPUArm
	default:
		return CPUUnknown
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
