package config

// DefaultFileName is looked up next to the manifest when no config path
// is given.
const DefaultFileName = "brewform.lua"

// Strategy names accepted in the config file.
const (
	StrategyDirect = "direct"
	StrategyGHCLI  = "gh-cli"
)

// Defaults
const (
	DefaultDistDir   = "dist"
	DefaultOutputDir = "."
)
