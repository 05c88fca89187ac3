package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ZebulonRouseFrantzich/brewform/internal/github"
	"github.com/ZebulonRouseFrantzich/brewform/internal/logger"
	"github.com/ZebulonRouseFrantzich/brewform/internal/network"
	"github.com/ZebulonRouseFrantzich/brewform/internal/platform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries flags and the process boundary: output streams, the
// environment, the network and host detection.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	httpClient    *http.Client
	githubBaseURL string
	detector      platform.Detector
	log           *zap.SugaredLogger

	// flags
	ghCLI      bool
	noPerms    bool
	configPath string
	outputDir  string
	verbose    bool
}

func newApp() *app {
	return &app{
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		getenv:        os.Getenv,
		httpClient:    network.NewSecureHTTPClient(),
		githubBaseURL: github.DefaultBaseURL,
		detector:      platform.NewDetector(),
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "brewform [manifest]",
		Short: "Generate a Homebrew formula for the first binary in a Cargo manifest",
		Long: `brewform reads a Cargo.toml, collects the .tar.gz assets of the project's
latest GitHub release, and writes <executable>.rb, a Homebrew formula that
installs the right tarball for each OS and CPU.

Release data comes from the GitHub API, which needs a token in
GITHUB_ACCESS_TOKEN or GITHUB_TOKEN. With --no-perms the tarballs in the
dist/ directory next to the manifest are used instead.

Settings may also come from brewform.lua next to the manifest.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.log != nil {
				return nil
			}
			log, err := buildLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = log
			logger.Init(log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, manifestArg(args))
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.ghCLI, "gh-cli-strategy", "g", false, "use the `gh` cli download strategy; useful for private tap repos")
	flags.BoolVarP(&a.noPerms, "no-perms", "n", false, "without repo-reading API permissions, use only local data from dist/")
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a brewform.lua config file")
	flags.StringVarP(&a.outputDir, "output-dir", "o", "", "directory to write the formula into")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("brewform {{.Version}}\n")

	root.AddCommand(newAssetsCommand(a))

	return root
}

func manifestArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// buildLogger writes console-encoded logs to stderr, at debug level when
// verbose.
func buildLogger(verbose bool) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.DisableCaller = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}
