package cli

import (
	"github.com/obentoo/bentoo-agents/internal/agents"
	"github.com/obentoo/bentoo-agents/internal/common/config"
	"github.com/obentoo/bentoo-agents/internal/common/output"
	"github.com/spf13/cobra"
)

// NewUninstallCommand builds the uninstall-agents command
func NewUninstallCommand() *cobra.Command {
	cmd := newCommand(
		"uninstall-agents",
		"Remove the package's agents from the project",
		`Remove the agents listed in the package manifest from <project>/.claude/agents.

Only agents identical to the shipped version are removed; agents you edited
are preserved. The agents directory, and .claude above it, are removed once
empty.

An installed agent whose source is no longer shipped cannot be compared and is
removed. Pass --keep-orphans to preserve such files instead.`,
		runUninstall,
	)
	cmd.Flags().Bool(config.KeyKeepOrphans, false, "Preserve installed agents whose source is no longer shipped")
	return cmd
}

func runUninstall(cmd *cobra.Command, opts *globalOptions) error {
	r := newRenderer(cmd.OutOrStdout(), opts.quiet)
	output.FprintInfo(r.out, "Uninstalling agents...")

	cfg, m, err := loadRun(cmd)
	if err != nil {
		return err
	}

	result, err := agents.NewUninstaller(cfg, m).Uninstall()
	if err != nil {
		return err
	}

	r.uninstall(result)
	return nil
}
