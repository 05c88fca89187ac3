// Package asset turns upstream release-asset records into validated,
// classified assets with resolved digests.
package asset

import (
	"github.com/ZebulonRouseFrantzich/brewform/internal/platform"
)

// TarballSuffix is the only artifact extension brewform accepts.
const TarballSuffix = ".tar.gz"

// Raw is a release asset as reported upstream. Every field is optional.
type Raw struct {
	Name string `yaml:"name,omitempty"`
	URL  string `yaml:"url,omitempty"`
	// Digest is the upstream digest in "algorithm:hex" form.
	Digest string `yaml:"digest,omitempty"`
	// LocalPath points at a copy of the tarball on disk. When empty the
	// name is used, relative to the working directory.
	LocalPath string `yaml:"local_path,omitempty"`
}

// Asset is a validated tarball ready for a formula.
type Asset struct {
	CPU    platform.CPU `yaml:"cpu"`
	OS     platform.OS  `yaml:"os"`
	SHA256 string       `yaml:"sha256"`
	URL    string       `yaml:"url"`
}

// Supported reports whether both platform tags are known.
func (a Asset) Supported() bool {
	return a.OS.Known() && a.CPU.Known()
}

// SkipReason explains why a raw asset produced no Asset.
type SkipReason string

const (
	SkipMissingName   SkipReason = "missing name"
	SkipNotTarball    SkipReason = "not a .tar.gz tarball"
	SkipMissingURL    SkipReason = "missing download URL"
	SkipDigestFailure SkipReason = "digest unavailable"
)

// Result is the outcome of normalizing one raw asset. Exactly one of
// Asset or Reason is set.
type Result struct {
	Raw    Raw
	Asset  *Asset
	Reason SkipReason
	// Err carries the underlying failure for SkipDigestFailure.
	Err error
}

// Skipped reports whether the raw asset was rejected.
func (r Result) Skipped() bool {
	return r.Asset == nil
}

// Accepted returns the assets from results, in order.
func Accepted(results []Result) []Asset {
	assets := make([]Asset, 0, len(results))
	for _, r := range results {
		if r.Asset != nil {
			assets = append(assets, *r.Asset)
		}
	}
	return assets
}

// Rejected returns the skipped results, in order.
func Rejected(results []Result) []Result {
	var skipped []Result
	for _, r := range results {
		if r.Skipped() {
			skipped = append(skipped, r)
		}
	}
	return skipped
}
