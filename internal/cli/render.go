package cli

import (
	"fmt"
	"io"

	"github.com/obentoo/bentoo-agents/internal/agents"
	"github.com/obentoo/bentoo-agents/internal/common/logger"
	"github.com/obentoo/bentoo-agents/internal/common/output"
)

// renderer writes status lines; quiet mode keeps only errors
type renderer struct {
	out    io.Writer
	errOut io.Writer
}

func newRenderer(w io.Writer, quiet bool) *renderer {
	r := &renderer{out: w, errOut: w}
	if quiet {
		r.out = io.Discard
	}
	return r
}

func (r *renderer) outcome(out agents.Outcome) {
	switch out.Action {
	case agents.ActionInstall:
		output.FprintStatus(r.out, "Installed", out.Name, "")
	case agents.ActionUpdate:
		output.FprintStatus(r.out, "Updated", out.Name, "")
	case agents.ActionSkip:
		output.FprintStatus(r.out, "Skipped", out.Name, "(no changes)")
	case agents.ActionRemove:
		output.FprintStatus(r.out, "Removed", out.Name, "")
	case agents.ActionOrphan:
		output.FprintStatus(r.out, "Removed", out.Name, "(no longer shipped)")
	case agents.ActionPreserve:
		detail := "(modified)"
		if out.SourceMissing {
			detail = "(no longer shipped)"
		}
		output.FprintStatus(r.out, "Preserved", out.Name, detail)
	case agents.ActionMissing:
		output.Missing.Fprintf(r.out, "⚠ Agent not found: %s\n", out.Entry)
	case agents.ActionInvalid:
		output.FprintWarning(r.out, "Invalid agent entry: %v", out.Err)
	case agents.ActionDuplicate:
		output.FprintWarning(r.out, "Duplicate agent: %v", out.Err)
	case agents.ActionFailed:
		output.FprintError(r.errOut, "%v", out.Err)
	case agents.ActionAbsent:
		logger.Debug("%s is not installed", out.Name)
	}
}

func (r *renderer) install(result *agents.InstallResult) {
	if result.DryRun {
		output.FprintInfo(r.out, "Dry run: no files will be changed")
	}
	if result.CreatedDir {
		output.FprintInfo(r.out, "Created directory: %s", result.TargetDir)
	}

	for _, out := range result.Outcomes {
		r.outcome(out)
	}

	fmt.Fprintln(r.out)
	if result.DryRun {
		output.FprintSuccess(r.out, "Dry run complete!")
	} else {
		output.FprintSuccess(r.out, "Installation complete!")
	}
	fmt.Fprintf(r.out, "  Installed: %d agents\n", result.Installed)
	fmt.Fprintf(r.out, "  Skipped: %d agents\n", result.Skipped)
	if result.Missing > 0 {
		fmt.Fprintf(r.out, "  Not found: %d agents\n", result.Missing)
	}
	if result.Duplicates > 0 {
		fmt.Fprintf(r.out, "  Duplicates: %d agents\n", result.Duplicates)
	}
	fmt.Fprintf(r.out, "  Location: %s\n", result.TargetDir)
}

func (r *renderer) uninstall(result *agents.UninstallResult) {
	if result.NoTargetDir {
		output.FprintInfo(r.out, "No agents directory found, nothing to uninstall")
		return
	}
	if result.DryRun {
		output.FprintInfo(r.out, "Dry run: no files will be changed")
	}

	for _, out := range result.Outcomes {
		r.outcome(out)
	}

	fmt.Fprintln(r.out)
	if result.DryRun {
		output.FprintSuccess(r.out, "Dry run complete!")
	} else {
		output.FprintSuccess(r.out, "Uninstallation complete!")
	}
	fmt.Fprintf(r.out, "  Removed: %d agents\n", result.Removed)
	fmt.Fprintf(r.out, "  Preserved: %d agents\n", result.Preserved)

	verb := "removing it"
	if result.DryRun {
		verb = "would remove it"
	}
	if result.RemovedTargetDir {
		output.FprintInfo(r.out, "Agents directory is empty, %s", verb)
		if result.RemovedConfigDir {
			output.FprintInfo(r.out, "Configuration directory is empty, %s", verb)
		}
	} else {
		output.FprintInfo(r.out, "Keeping agents directory (contains other files)")
	}

	for _, err := range cleanupErrors(result) {
		output.FprintError(r.errOut, "%v", err)
	}
}

// cleanupErrors returns the errors not already shown on an outcome line
func cleanupErrors(result *agents.UninstallResult) []error {
	shown := 0
	for _, out := range result.Outcomes {
		if out.Action == agents.ActionFailed {
			shown++
		}
	}
	if shown >= len(result.Errors) {
		return nil
	}
	return result.Errors[shown:]
}

func (r *renderer) catalog(infos []agents.AgentInfo) {
	if len(infos) == 0 {
		return
	}

	output.Section(r.out, "Available agents:")
	for _, info := range infos {
		fmt.Fprintf(r.out, "  - %s\n", output.FormatAgent(info.Name, info.Description))
	}
	fmt.Fprintln(r.out)
	output.FprintInfo(r.out, "Ask your assistant to use an agent by name, e.g. \"use the %s agent\"", infos[0].Name)
}
