// Package cli builds the install-agents and uninstall-agents commands.
package cli

import (
	"github.com/obentoo/bentoo-agents/internal/common/config"
	"github.com/obentoo/bentoo-agents/internal/common/logger"
	"github.com/obentoo/bentoo-agents/internal/common/output"
	"github.com/obentoo/bentoo-agents/internal/common/version"
	"github.com/obentoo/bentoo-agents/internal/manifest"
	"github.com/spf13/cobra"
)

// globalOptions holds the output flags shared by both commands
type globalOptions struct {
	verbose bool
	quiet   bool
	noColor bool
	logFile bool
}

// runFunc is the body of a command once flags and logging are set up
type runFunc func(cmd *cobra.Command, opts *globalOptions) error

func newCommand(use, short, long string, run runFunc) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          long,
		Args:          cobra.NoArgs,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				logger.SetVerbose(true)
			}
			if opts.quiet {
				logger.SetQuiet(true)
			}
			if opts.noColor {
				output.NoColor()
			}
			if opts.logFile {
				return logger.EnableFileLogging()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(version.Info(use))

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&opts.logFile, "log-file", false, "Also append log lines to the state directory")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

// Run executes cmd and returns the process exit code. Fatal errors are
// printed to the command's standard output.
func Run(cmd *cobra.Command) int {
	defer logger.Close()

	if err := cmd.Execute(); err != nil {
		output.FprintError(cmd.OutOrStdout(), "Error: %v", err)
		return 1
	}
	return 0
}

// loadRun resolves the configuration and manifest shared by both commands
func loadRun(cmd *cobra.Command) (*config.Config, *manifest.Manifest, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("package root: %s", cfg.PackageRoot)
	logger.Debug("target directory: %s", cfg.TargetDir)

	path, err := manifest.Locate(cfg.PackageRoot, cfg.ManifestPath)
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("manifest %s lists %d agent(s)", m.Path, m.Len())

	return cfg, m, nil
}
