package main

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/brewform/internal/asset"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// assetReport is the YAML document printed by `brewform assets`.
type assetReport struct {
	Package  string        `yaml:"package"`
	Version  string        `yaml:"version"`
	Source   string        `yaml:"source"`
	Accepted []asset.Asset `yaml:"accepted"`
	Skipped  []skipEntry   `yaml:"skipped,omitempty"`
}

type skipEntry struct {
	Name   string `yaml:"name,omitempty"`
	URL    string `yaml:"url,omitempty"`
	Reason string `yaml:"reason"`
	Error  string `yaml:"error,omitempty"`
}

func newAssetsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assets [manifest]",
		Short: "Show which release assets a formula would use, and why others are skipped",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAssets(cmd, manifestArg(args))
		},
	}
}

func (a *app) runAssets(cmd *cobra.Command, manifestPath string) error {
	r, err := a.prepare(cmd.Context(), cmd, manifestPath)
	if err != nil {
		return err
	}

	report := assetReport{
		Package:  r.manifest.Package.Name,
		Version:  r.manifest.Package.Version,
		Source:   "github",
		Accepted: asset.Accepted(r.results),
	}
	if r.settings.IsLocalOnly() {
		report.Source = "dist"
	}
	for _, res := range asset.Rejected(r.results) {
		entry := skipEntry{Name: res.Raw.Name, URL: res.Raw.URL, Reason: string(res.Reason)}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		report.Skipped = append(report.Skipped, entry)
	}

	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
