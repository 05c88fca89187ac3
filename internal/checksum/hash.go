package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// DigestLength is the length of a hex-encoded SHA-256 digest.
const DigestLength = sha256.Size * 2

// HashFile streams the file at path through SHA-256.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return HashReader(file)
}

// HashReader hashes everything r yields.
func HashReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// IsDigest reports whether s is exactly DigestLength hex characters, in
// either case.
func IsDigest(s string) bool {
	if len(s) != DigestLength {
		return false
	}
	for _, ch := range s {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') && (ch < 'A' || ch > 'F') {
			return false
		}
	}
	return true
}

// Normalize lowercases s and reports whether the result is a digest.
func Normalize(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, IsDigest(s)
}
