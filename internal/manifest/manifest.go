// Package manifest loads the Cargo.toml that describes the binary a
// formula installs.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/brewform/internal/git"
	"github.com/blang/semver"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the manifest read when none is given.
const DefaultPath = "./Cargo.toml"

// Manifest errors
var (
	ErrNoPackage     = errors.New("the Rust project must have at least one package in it")
	ErrNoBinary      = errors.New("no support for making formulas for Rust libraries, only for Rust binaries")
	ErrUnnamedBinary = errors.New("the binary executable needs a name")
	ErrNoRepository  = errors.New("no repository in manifest or git origin")
)

// PackageInfo is the [package] metadata a formula needs. Optional fields
// are empty when the manifest omits them.
type PackageInfo struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	License     string
	Repository  string
}

// Binary is a [[bin]] target.
type Binary struct {
	Name string
	Path string
}

// Manifest is a loaded Cargo.toml.
type Manifest struct {
	// Path is the manifest file the data was read from.
	Path     string
	Package  *PackageInfo
	Binaries []Binary

	remotes git.Remotes
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// Executable returns the name of the first binary target.
func (m *Manifest) Executable() (string, error) {
	if len(m.Binaries) == 0 {
		return "", ErrNoBinary
	}
	if m.Binaries[0].Name == "" {
		return "", ErrUnnamedBinary
	}
	return m.Binaries[0].Name, nil
}

// Repository returns the GitHub owner and repository name from
// package.repository, falling back to the origin remote of the git work
// tree holding the manifest.
func (m *Manifest) Repository(ctx context.Context) (owner, repo string, err error) {
	if m.Package != nil && m.Package.Repository != "" {
		return git.ParseGitHubRemote(m.Package.Repository)
	}

	remotes := m.remotes
	if remotes == nil {
		remotes = git.NewClient(m.Dir())
	}
	remote, err := remotes.RemoteURL(ctx, git.DefaultRemote)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	return git.ParseGitHubRemote(remote)
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}

	return Parse(data, abs)
}

// Parse decodes manifest content. path locates workspace roots and the
// implicit src/main.rs binary.
func Parse(data []byte, path string) (*Manifest, error) {
	var doc cargoDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.Package == nil {
		return nil, ErrNoPackage
	}

	pkg, err := resolvePackage(doc.Package, path)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Path:    path,
		Package: pkg,
	}

	for _, bin := range doc.Bin {
		m.Binaries = append(m.Binaries, Binary{Name: bin.Name, Path: bin.Path})
	}
	if len(m.Binaries) == 0 {
		mainPath := filepath.Join(filepath.Dir(path), "src", "main.rs")
		if info, err := os.Stat(mainPath); err == nil && info.Mode().IsRegular() {
			m.Binaries = []Binary{{Name: pkg.Name, Path: filepath.Join("src", "main.rs")}}
		}
	}

	return m, nil
}

func resolvePackage(raw map[string]any, path string) (*PackageInfo, error) {
	fields := &packageFields{raw: raw, manifestPath: path}

	pkg := &PackageInfo{
		Name:        fields.get("name"),
		Version:     fields.get("version"),
		Description: fields.get("description"),
		Homepage:    fields.get("homepage"),
		License:     fields.get("license"),
		Repository:  fields.get("repository"),
	}
	if fields.err != nil {
		return nil, fields.err
	}

	if pkg.Name == "" {
		return nil, fmt.Errorf("%w: package has no name", ErrNoPackage)
	}
	if pkg.Version == "" {
		return nil, fmt.Errorf("package %s has no version", pkg.Name)
	}
	if _, err := semver.Parse(pkg.Version); err != nil {
		return nil, fmt.Errorf("package %s version %q: %w", pkg.Name, pkg.Version, err)
	}

	return pkg, nil
}
