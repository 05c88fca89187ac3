package config

import (
	"fmt"
	"strings"
)

// Config holds the values a config file may set. Pointer and empty
// values mean "not set" so Merge can tell them apart from defaults.
type Config struct {
	Strategy   string
	LocalOnly  *bool
	DistDir    string
	OutputDir  string
	Repository string
	// Aliases maps target triple to source binary to alias names.
	Aliases map[string]map[string][]string
}

// Default returns the built-in configuration.
func Default() *Config {
	localOnly := false
	return &Config{
		Strategy:  StrategyDirect,
		LocalOnly: &localOnly,
		DistDir:   DefaultDistDir,
		OutputDir: DefaultOutputDir,
	}
}

// Merge returns a copy of c with every value set in override applied.
func (c *Config) Merge(override *Config) *Config {
	merged := *c
	if override == nil {
		return &merged
	}
	if override.Strategy != "" {
		merged.Strategy = override.Strategy
	}
	if override.LocalOnly != nil {
		v := *override.LocalOnly
		merged.LocalOnly = &v
	}
	if override.DistDir != "" {
		merged.DistDir = override.DistDir
	}
	if override.OutputDir != "" {
		merged.OutputDir = override.OutputDir
	}
	if override.Repository != "" {
		merged.Repository = override.Repository
	}
	if override.Aliases != nil {
		merged.Aliases = override.Aliases
	}
	return &merged
}

// IsLocalOnly reports whether release data comes from the dist directory.
func (c *Config) IsLocalOnly() bool {
	return c.LocalOnly != nil && *c.LocalOnly
}

// RepositoryParts splits Repository into owner and name.
func (c *Config) RepositoryParts() (owner, repo string, ok bool) {
	owner, repo, ok = strings.Cut(c.Repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return owner, repo, true
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	switch c.Strategy {
	case "", StrategyDirect, StrategyGHCLI:
	default:
		return fmt.Errorf("strategy must be %q or %q, got %q", StrategyDirect, StrategyGHCLI, c.Strategy)
	}

	if c.Repository != "" {
		if _, _, ok := c.RepositoryParts(); !ok {
			return fmt.Errorf("repository must be \"owner/repo\", got %q", c.Repository)
		}
	}

	for triple, sources := range c.Aliases {
		if triple == "" {
			return fmt.Errorf("aliases: empty target triple")
		}
		for source, dests := range sources {
			if source == "" {
				return fmt.Errorf("aliases[%s]: empty binary name", triple)
			}
			for _, dest := range dests {
				if dest == "" || strings.ContainsAny(dest, "/\\") {
					return fmt.Errorf("aliases[%s][%s]: invalid alias %q", triple, source, dest)
				}
			}
		}
	}

	return nil
}
