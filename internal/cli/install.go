package cli

import (
	"github.com/obentoo/bentoo-agents/internal/agents"
	"github.com/obentoo/bentoo-agents/internal/common/output"
	"github.com/spf13/cobra"
)

// NewInstallCommand builds the install-agents command
func NewInstallCommand() *cobra.Command {
	return newCommand(
		"install-agents",
		"Install the package's agents into the project",
		`Copy the agents listed in the package manifest into <project>/.claude/agents.

Agents that are already present and identical are skipped. Agents whose
content differs from the shipped version are updated. Missing sources are
reported and skipped.`,
		runInstall,
	)
}

func runInstall(cmd *cobra.Command, opts *globalOptions) error {
	r := newRenderer(cmd.OutOrStdout(), opts.quiet)
	output.FprintInfo(r.out, "Installing agents...")

	cfg, m, err := loadRun(cmd)
	if err != nil {
		return err
	}

	result, err := agents.NewInstaller(cfg, m).Install()
	if err != nil {
		return err
	}

	r.install(result)
	if !result.DryRun {
		r.catalog(agents.Catalog(cfg, m))
	}
	return nil
}
