package formula

import "fmt"

// Strategy selects how Homebrew downloads the release tarballs.
type Strategy int

const (
	// StrategyDirect embeds each tarball URL and digest.
	StrategyDirect Strategy = iota
	// StrategyGitHubCLI downloads through `gh release download`, for
	// releases in private repositories.
	StrategyGitHubCLI
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyGitHubCLI:
		return "gh-cli"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configuration name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "direct":
		return StrategyDirect, nil
	case "gh-cli", "gh":
		return StrategyGitHubCLI, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want \"direct\" or \"gh-cli\")", s)
	}
}

func (s Strategy) templateName() (string, error) {
	switch s {
	case StrategyDirect:
		return "formula.rb.tmpl", nil
	case StrategyGitHubCLI:
		return "gh_strategy.rb.tmpl", nil
	default:
		return "", fmt.Errorf("unknown strategy %d", int(s))
	}
}
