package checksum

import (
	"path/filepath"
	"strings"
)

// SidecarSuffix is appended to a tarball path to find its digest file.
const SidecarSuffix = ".sha256"

// ParseSidecar extracts the digest for filename from the contents of a
// sidecar file. It accepts, per line:
//
//	<digest>
//	sha256:<digest>
//	sha256:<digest>  <filename>
//	<digest>  <filename>        (sha256sum text mode)
//	<digest> *<filename>        (sha256sum binary mode)
//	SHA256 (<filename>) = <digest>
//
// filename may be given as a path; lines naming either the path or its
// base name match. Candidates that are not exactly 64 hex characters are
// rejected, and ok is false when no line yields a digest.
func ParseSidecar(content, filename string) (digest string, ok bool) {
	names := []string{filename}
	if base := filepath.Base(filename); base != filename {
		names = append(names, base)
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if d, ok := parseSidecarLine(line, names); ok {
			return d, true
		}
	}

	return "", false
}

func parseSidecarLine(line string, names []string) (string, bool) {
	line = strings.TrimPrefix(line, "sha256:")

	if d, ok := Normalize(line); ok {
		return d, true
	}

	for _, name := range names {
		for _, sep := range []string{"  ", " *"} {
			if rest, found := strings.CutSuffix(line, sep+name); found {
				if d, ok := Normalize(rest); ok {
					return d, true
				}
			}
		}
	}

	if idx := strings.LastIndex(line, " = "); idx >= 0 {
		return Normalize(line[idx+len(" = "):])
	}

	return "", false
}
