// Package formula builds the rendering context for a Homebrew formula and
// renders it with one of the download strategies.
package formula

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/brewform/internal/asset"
	"github.com/ZebulonRouseFrantzich/brewform/internal/manifest"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLicense is used when the package declares none.
const DefaultLicense = "unlicensed"

// Build errors
var (
	ErrMissingPackage    = errors.New("formula needs package metadata")
	ErrMissingExecutable = errors.New("formula needs an executable name")
)

// KnownTriples are the target triples listed in BINARY_ALIASES, in
// render order.
var KnownTriples = []string{
	"aarch64-apple-darwin",
	"x86_64-apple-darwin",
	"x86_64-pc-windows-gnu",
	"x86_64-unknown-linux-gnu",
}

// Aliases maps target triple to source binary to the names it is also
// installed under.
type Aliases map[string]map[string][]string

// Context is everything a formula template renders.
type Context struct {
	// Package is the Ruby class name derived from the package name.
	Package     string
	Description string
	Executable  string
	Homepage    string
	Version     string
	License     string
	Assets      []asset.Asset
	Aliases     Aliases
}

// Option customizes Build.
type Option func(*Context)

// WithAliases sets the binary alias table.
func WithAliases(aliases Aliases) Option {
	return func(c *Context) {
		c.Aliases = aliases
	}
}

// Build assembles a Context from package metadata and normalized assets.
// Missing description and homepage become empty strings and a missing
// license becomes DefaultLicense. The assets slice is copied.
func Build(pkg *manifest.PackageInfo, executable string, assets []asset.Asset, opts ...Option) (*Context, error) {
	if pkg == nil {
		return nil, ErrMissingPackage
	}
	if executable == "" {
		return nil, ErrMissingExecutable
	}

	license := pkg.License
	if license == "" {
		license = DefaultLicense
	}

	c := &Context{
		Package:     ClassName(pkg.Name),
		Description: pkg.Description,
		Executable:  executable,
		Homepage:    pkg.Homepage,
		Version:     pkg.Version,
		License:     license,
		Assets:      append([]asset.Asset(nil), assets...),
	}
	for _, opt := range opts {
		opt(c)
	}

	for triple := range c.Aliases {
		if !knownTriple(triple) {
			return nil, fmt.Errorf("aliases for unsupported target triple %q", triple)
		}
	}

	return c, nil
}

// ClassName turns a package name into a Ruby constant: words split on
// "-", "_", "." and whitespace are title-cased and joined, so
// "code-fact" becomes "CodeFact".
func ClassName(name string) string {
	caser := cases.Title(language.English)
	words := strings.FieldsFunc(name, func(r rune) bool {
		switch r {
		case '-', '_', '.', ' ', '\t':
			return true
		}
		return false
	})

	var b strings.Builder
	for _, word := range words {
		b.WriteString(caser.String(word))
	}
	return strings.ReplaceAll(b.String(), "+", "x")
}

// Values flattens the context into the map the templates read.
func (c *Context) Values() map[string]any {
	assets := make([]any, 0, len(c.Assets))
	for _, a := range c.Assets {
		assets = append(assets, map[string]any{
			"cpu":       a.CPU.String(),
			"os":        a.OS.String(),
			"sha256":    a.SHA256,
			"url":       a.URL,
			"supported": a.Supported(),
		})
	}

	aliases := make([]any, 0, len(KnownTriples))
	for _, triple := range KnownTriples {
		aliases = append(aliases, map[string]any{
			"triple":  triple,
			"entries": aliasEntries(c.Aliases[triple]),
		})
	}

	return map[string]any{
		"package":     c.Package,
		"description": c.Description,
		"executable":  c.Executable,
		"homepage":    c.Homepage,
		"version":     c.Version,
		"license":     c.License,
		"assets":      assets,
		"aliases":     aliases,
	}
}

func aliasEntries(sources map[string][]string) []any {
	names := make([]string, 0, len(sources))
	for source := range sources {
		names = append(names, source)
	}
	sort.Strings(names)

	entries := make([]any, 0, len(names))
	for _, source := range names {
		dests := make([]any, 0, len(sources[source]))
		for _, d := range sources[source] {
			dests = append(dests, d)
		}
		entries = append(entries, map[string]any{
			"source": source,
			"dests":  dests,
		})
	}
	return entries
}

func knownTriple(triple string) bool {
	for _, t := range KnownTriples {
		if t == triple {
			return true
		}
	}
	return false
}
