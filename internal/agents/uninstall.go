package agents

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/obentoo/bentoo-agents/internal/common/config"
	"github.com/obentoo/bentoo-agents/internal/common/logger"
	"github.com/obentoo/bentoo-agents/internal/digest"
	"github.com/obentoo/bentoo-agents/internal/manifest"
)

// UninstallResult contains the result of an Uninstall operation
type UninstallResult struct {
	Outcomes         []Outcome // one per manifest entry, in manifest order
	Removed          int       // targets deleted, orphans included
	Orphans          int       // targets deleted because their source is gone
	Preserved        int       // targets kept because the user modified them
	Errors           []error   // per-entry and cleanup failures
	TargetDir        string
	NoTargetDir      bool // nothing was installed
	RemovedTargetDir bool // target directory was empty and removed
	RemovedConfigDir bool // its parent was then empty and removed too
	DryRun           bool
}

// HasErrors returns true if any removal failed
func (r *UninstallResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Uninstaller removes unmodified manifest agents from the target directory
type Uninstaller struct {
	cfg      *config.Config
	manifest *manifest.Manifest
	compare  CompareFunc
}

// NewUninstaller creates an Uninstaller comparing files with digest.Equal
func NewUninstaller(cfg *config.Config, m *manifest.Manifest) *Uninstaller {
	return NewUninstallerWithCompare(cfg, m, digest.Equal)
}

// NewUninstallerWithCompare creates an Uninstaller with a custom content comparison
func NewUninstallerWithCompare(cfg *config.Config, m *manifest.Manifest, compare CompareFunc) *Uninstaller {
	return &Uninstaller{cfg: cfg, manifest: m, compare: compare}
}

// Plan decides the action for every manifest entry without deleting anything
func (u *Uninstaller) Plan() []Outcome {
	outcomes := make([]Outcome, 0, u.manifest.Len())
	for _, entry := range u.manifest.Entries {
		out := u.decide(entry)
		logger.Debug("%s: %s", entry, out.Action)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (u *Uninstaller) decide(entry string) Outcome {
	out, err := resolveEntry(u.cfg.PackageRoot, u.cfg.TargetDir, entry)
	if err != nil {
		out.Action = ActionInvalid
		out.Err = err
		return out
	}

	targetExists, err := fileExists(out.Target)
	if err != nil {
		out.Action = ActionInvalid
		out.Err = err
		return out
	}
	if !targetExists {
		out.Action = ActionAbsent
		return out
	}

	sourceExists, err := fileExists(out.Source)
	if err != nil {
		out.Action = ActionFailed
		out.Err = err
		return out
	}
	if !sourceExists {
		// Nothing left to compare against. The file is assumed to be ours
		// unless the caller asked to keep such files.
		out.SourceMissing = true
		if u.cfg.KeepOrphans {
			out.Action = ActionPreserve
		} else {
			out.Action = ActionOrphan
		}
		return out
	}

	same, err := u.compare(out.Source, out.Target)
	if err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("comparing %s: %w", out.Name, err)
		return out
	}
	if same {
		out.Action = ActionRemove
	} else {
		out.Action = ActionPreserve
	}
	return out
}

// Uninstall deletes every listed agent that still matches its source, then
// removes the target directory and the .claude directory above it once
// they are empty.
func (u *Uninstaller) Uninstall() (*UninstallResult, error) {
	result := &UninstallResult{
		Outcomes:  []Outcome{},
		Errors:    []error{},
		TargetDir: u.cfg.TargetDir,
		DryRun:    u.cfg.DryRun,
	}

	info, err := os.Stat(u.cfg.TargetDir)
	switch {
	case err == nil && info.IsDir():
	case err == nil, os.IsNotExist(err), errors.Is(err, syscall.ENOTDIR):
		// A file sitting at the target path or above it means nothing of ours
		// was ever installed there.
		logger.Debug("%s is not a directory, nothing to uninstall", u.cfg.TargetDir)
		result.NoTargetDir = true
		return result, nil
	default:
		return nil, err
	}

	for _, out := range u.Plan() {
		if !u.cfg.DryRun && out.Changed() {
			if err := os.Remove(out.Target); err != nil && !os.IsNotExist(err) {
				out.Action = ActionFailed
				out.Err = fmt.Errorf("removing %s: %w", out.Name, err)
			}
		}
		result.record(out)
	}

	if u.cfg.DryRun {
		u.predictCleanup(result)
	} else {
		u.cleanup(result)
	}

	return result, nil
}

func (r *UninstallResult) record(out Outcome) {
	switch out.Action {
	case ActionRemove:
		r.Removed++
	case ActionOrphan:
		r.Removed++
		r.Orphans++
	case ActionPreserve:
		r.Preserved++
	case ActionFailed:
		r.Errors = append(r.Errors, out.Err)
	}
	r.Outcomes = append(r.Outcomes, out)
}

func (u *Uninstaller) cleanup(result *UninstallResult) {
	removed, err := removeIfEmpty(u.cfg.TargetDir)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing %s: %w", u.cfg.TargetDir, err))
		return
	}
	if !removed {
		return
	}
	result.RemovedTargetDir = true
	if !u.cfg.InConfigDir() {
		return
	}

	removed, err = removeIfEmpty(u.cfg.ConfigDir())
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing %s: %w", u.cfg.ConfigDir(), err))
		return
	}
	result.RemovedConfigDir = removed
}

// predictCleanup fills the directory fields as if the planned removals had run
func (u *Uninstaller) predictCleanup(result *UninstallResult) {
	n, err := countEntries(u.cfg.TargetDir)
	if err != nil || n-result.Removed > 0 {
		return
	}
	result.RemovedTargetDir = true
	if !u.cfg.InConfigDir() {
		return
	}

	n, err = countEntries(u.cfg.ConfigDir())
	result.RemovedConfigDir = err == nil && n == 1
}
