package config

import (
	"regexp"
	"strings"
)

// SensitivePattern is a pattern that suggests a credential was written
// into the config file.
type SensitivePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:    "GitHub token",
		Pattern: regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}|github_pat_[a-zA-Z0-9_]{22,}`),
	},
	{
		Name:    "Token assignment",
		Pattern: regexp.MustCompile(`(?i)(token|auth[_-]?token|access[_-]?token|bearer)\s*=\s*['"][a-zA-Z0-9_-]{15,}['"]`),
	},
}

// SensitiveDataFinding represents a detected sensitive data instance
type SensitiveDataFinding struct {
	PatternName string
	Line        int
	Preview     string // Redacted preview of the match
}

// DetectSensitiveData scans config source for credentials. Tokens belong
// in GITHUB_ACCESS_TOKEN or GITHUB_TOKEN, never in brewform.lua.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Line:        lineNum + 1,
					Preview:     redactSensitiveValue(line, pattern.Pattern),
				})
				break
			}
		}
	}

	return findings
}

func redactSensitiveValue(line string, pattern *regexp.Regexp) string {
	return strings.TrimSpace(pattern.ReplaceAllString(line, "[REDACTED]"))
}
