package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/brewform/internal/asset"
	"github.com/ZebulonRouseFrantzich/brewform/internal/checksum"
	"github.com/ZebulonRouseFrantzich/brewform/internal/config"
	"github.com/ZebulonRouseFrantzich/brewform/internal/formula"
	"github.com/ZebulonRouseFrantzich/brewform/internal/github"
	"github.com/ZebulonRouseFrantzich/brewform/internal/manifest"
	"github.com/ZebulonRouseFrantzich/brewform/internal/output"
	"github.com/ZebulonRouseFrantzich/brewform/internal/release"
	"github.com/spf13/cobra"
)

// Token environment variables, in lookup order.
var tokenEnvVars = []string{"GITHUB_ACCESS_TOKEN", "GITHUB_TOKEN"}

var errNoToken = errors.New("unable to find a token in either GITHUB_ACCESS_TOKEN or GITHUB_TOKEN")

// run is the state shared by every command: the loaded manifest, the
// effective settings and the normalized assets.
type run struct {
	manifest   *manifest.Manifest
	executable string
	settings   *config.Config
	results    []asset.Result
}

// lookupToken returns the first non-empty token variable.
func (a *app) lookupToken() string {
	for _, name := range tokenEnvVars {
		if token := a.getenv(name); token != "" {
			return token
		}
	}
	return ""
}

// loadSettings layers defaults, the config file and explicitly set flags.
func (a *app) loadSettings(ctx context.Context, cmd *cobra.Command, manifestPath string) (*config.Config, error) {
	path := a.configPath
	required := path != ""
	if path == "" {
		path = filepath.Join(filepath.Dir(manifestPath), config.DefaultFileName)
	}

	loaded, err := config.Load(ctx, config.NewParser(a.detector), path, required)
	if err != nil {
		return nil, err
	}
	for _, finding := range loaded.Findings {
		a.log.Warnw("config file appears to contain a credential; use GITHUB_TOKEN instead",
			"path", path, "line", finding.Line, "kind", finding.PatternName, "preview", finding.Preview)
	}
	if loaded.Found {
		a.log.Debugw("loaded config", "path", path)
	}

	flagConfig := &config.Config{}
	flags := cmd.Flags()
	if flags.Changed("gh-cli-strategy") {
		flagConfig.Strategy = config.StrategyDirect
		if a.ghCLI {
			flagConfig.Strategy = config.StrategyGHCLI
		}
	}
	if flags.Changed("no-perms") {
		noPerms := a.noPerms
		flagConfig.LocalOnly = &noPerms
	}
	if flags.Changed("output-dir") {
		flagConfig.OutputDir = a.outputDir
	}

	return config.Default().Merge(loaded.Config).Merge(flagConfig), nil
}

// prepare loads everything up to and including asset normalization.
func (a *app) prepare(ctx context.Context, cmd *cobra.Command, manifestPath string) (*run, error) {
	if manifestPath == "" {
		manifestPath = manifest.DefaultPath
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	executable, err := m.Executable()
	if err != nil {
		return nil, err
	}

	settings, err := a.loadSettings(ctx, cmd, m.Path)
	if err != nil {
		return nil, err
	}

	source, err := a.releaseSource(ctx, m, executable, settings)
	if err != nil {
		return nil, err
	}

	raws, err := source.Assets(ctx)
	if err != nil {
		return nil, fmt.Errorf("gather release assets: %w", err)
	}
	a.log.Debugw("gathered release assets", "count", len(raws), "local_only", settings.IsLocalOnly())

	resolver := checksum.NewResolver(checksum.NewHTTPFetcher(a.httpClient, a.stderr), a.log)
	results := asset.NewNormalizer(resolver, a.log).NormalizeAll(ctx, raws)

	return &run{
		manifest:   m,
		executable: executable,
		settings:   settings,
		results:    results,
	}, nil
}

func (a *app) repository(ctx context.Context, m *manifest.Manifest, settings *config.Config) (string, string, error) {
	if owner, repo, ok := settings.RepositoryParts(); ok {
		return owner, repo, nil
	}
	return m.Repository(ctx)
}

func (a *app) releaseSource(ctx context.Context, m *manifest.Manifest, executable string, settings *config.Config) (release.Source, error) {
	owner, repo, err := a.repository(ctx, m, settings)
	if err != nil {
		return nil, err
	}

	if settings.IsLocalOnly() {
		dir := settings.DistDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(m.Dir(), dir)
		}
		return release.NewDistSource(release.DistConfig{
			Dir:        dir,
			Owner:      owner,
			Repo:       repo,
			Version:    m.Package.Version,
			Executable: executable,
		}, a.log), nil
	}

	token := a.lookupToken()
	if token == "" {
		return nil, errNoToken
	}
	client, err := github.NewClient(github.Config{
		BaseURL:    a.githubBaseURL,
		Token:      token,
		UserAgent:  "brewform/" + Version,
		HTTPClient: a.httpClient,
		Logger:     a.log,
	})
	if err != nil {
		return nil, err
	}
	return release.NewGitHubSource(client, owner, repo), nil
}

func (a *app) runGenerate(cmd *cobra.Command, manifestPath string) error {
	ctx := cmd.Context()

	r, err := a.prepare(ctx, cmd, manifestPath)
	if err != nil {
		return err
	}

	strategy, err := formula.ParseStrategy(r.settings.Strategy)
	if err != nil {
		return err
	}

	fctx, err := formula.Build(r.manifest.Package, r.executable, asset.Accepted(r.results),
		formula.WithAliases(r.settings.Aliases))
	if err != nil {
		return err
	}

	rendered, err := formula.Render(strategy, fctx)
	if err != nil {
		return fmt.Errorf("render formula: %w", err)
	}

	path, err := writeFormula(ctx, r.settings.OutputDir, r.executable, rendered)
	if err != nil {
		return err
	}
	if len(rendered) == 0 {
		a.log.Warnw("zero-length formula file written", "path", path)
	}
	a.log.Infow("formula written", "path", path, "assets", len(fctx.Assets), "strategy", strategy.String())

	fmt.Fprintln(a.stdout, path)
	return nil
}

// writeFormula writes <dir>/<executable>.rb, replacing any existing file.
func writeFormula(ctx context.Context, dir, executable, rendered string) (string, error) {
	if dir == "" {
		dir = config.DefaultOutputDir
	}
	path := filepath.Join(dir, executable+".rb")
	if err := output.WriteFile(ctx, path, []byte(rendered)); err != nil {
		return "", err
	}
	return path, nil
}
