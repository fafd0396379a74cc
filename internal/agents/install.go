package agents

import (
	"fmt"
	"os"

	"github.com/obentoo/bentoo-agents/internal/common/config"
	"github.com/obentoo/bentoo-agents/internal/common/logger"
	"github.com/obentoo/bentoo-agents/internal/digest"
	"github.com/obentoo/bentoo-agents/internal/manifest"
)

// CompareFunc reports whether two existing files have identical content
type CompareFunc func(a, b string) (bool, error)

// InstallResult contains the result of an Install operation
type InstallResult struct {
	Outcomes   []Outcome // one per manifest entry, in manifest order
	Installed  int       // new copies plus updates
	Updated    int       // existing targets overwritten
	Skipped    int       // targets already identical to their source
	Missing    int       // entries whose source is absent or unusable
	Duplicates int       // entries whose target name was already claimed
	Errors     []error   // per-entry filesystem failures
	TargetDir  string
	CreatedDir bool // target directory was absent (and created unless DryRun)
	DryRun     bool
}

// HasErrors returns true if any entry failed
func (r *InstallResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Installer copies manifest agents into the target directory
type Installer struct {
	cfg      *config.Config
	manifest *manifest.Manifest
	compare  CompareFunc
}

// NewInstaller creates an Installer comparing files with digest.Equal
func NewInstaller(cfg *config.Config, m *manifest.Manifest) *Installer {
	return NewInstallerWithCompare(cfg, m, digest.Equal)
}

// NewInstallerWithCompare creates an Installer with a custom content comparison.
// This allows for testing with fake comparisons.
func NewInstallerWithCompare(cfg *config.Config, m *manifest.Manifest, compare CompareFunc) *Installer {
	return &Installer{cfg: cfg, manifest: m, compare: compare}
}

// Plan decides the action for every manifest entry without writing anything
func (i *Installer) Plan() []Outcome {
	outcomes := make([]Outcome, 0, i.manifest.Len())
	seen := make(map[string]string)

	for _, entry := range i.manifest.Entries {
		out := i.decide(entry, seen)
		logger.Debug("%s: %s", entry, out.Action)
		outcomes = append(outcomes, out)
	}

	return outcomes
}

func (i *Installer) decide(entry string, seen map[string]string) Outcome {
	out, err := resolveEntry(i.cfg.PackageRoot, i.cfg.TargetDir, entry)
	if err != nil {
		out.Action = ActionInvalid
		out.Err = err
		return out
	}

	sourceExists, err := fileExists(out.Source)
	if err != nil {
		out.Action = ActionInvalid
		out.Err = err
		return out
	}
	if !sourceExists {
		out.Action = ActionMissing
		return out
	}

	if first, ok := seen[out.Name]; ok {
		out.Action = ActionDuplicate
		out.Err = fmt.Errorf("%s: target %s already claimed by %s", entry, out.Name, first)
		return out
	}
	seen[out.Name] = entry

	targetExists, err := fileExists(out.Target)
	if err != nil {
		out.Action = ActionFailed
		out.Err = err
		return out
	}
	if !targetExists {
		out.Action = ActionInstall
		return out
	}

	same, err := i.compare(out.Source, out.Target)
	if err != nil {
		out.Action = ActionFailed
		out.Err = fmt.Errorf("comparing %s: %w", out.Name, err)
		return out
	}
	if same {
		out.Action = ActionSkip
	} else {
		out.Action = ActionUpdate
	}
	return out
}

// Install copies every listed agent whose target is absent or outdated.
// Only a target directory that cannot be created is fatal; every other
// problem is recorded on the entry's outcome.
func (i *Installer) Install() (*InstallResult, error) {
	result := &InstallResult{
		Outcomes:  []Outcome{},
		Errors:    []error{},
		TargetDir: i.cfg.TargetDir,
		DryRun:    i.cfg.DryRun,
	}

	created, err := i.ensureTargetDir()
	if err != nil {
		return nil, err
	}
	result.CreatedDir = created

	for _, out := range i.Plan() {
		if !i.cfg.DryRun && out.Changed() {
			if err := copyFile(out.Source, out.Target); err != nil {
				out.Action = ActionFailed
				out.Err = fmt.Errorf("copying %s: %w", out.Name, err)
			}
		}
		result.record(out)
	}

	return result, nil
}

func (r *InstallResult) record(out Outcome) {
	switch out.Action {
	case ActionInstall:
		r.Installed++
	case ActionUpdate:
		r.Installed++
		r.Updated++
	case ActionSkip:
		r.Skipped++
	case ActionMissing, ActionInvalid:
		r.Missing++
	case ActionDuplicate:
		r.Duplicates++
	case ActionFailed:
		r.Errors = append(r.Errors, out.Err)
	}
	r.Outcomes = append(r.Outcomes, out)
}

// ensureTargetDir creates the target directory when absent and reports
// whether it was missing
func (i *Installer) ensureTargetDir() (bool, error) {
	dir := i.cfg.TargetDir

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%w: %s is not a directory", ErrTargetDir, dir)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: %s: %w", ErrTargetDir, dir, err)
	}

	if i.cfg.DryRun {
		return true, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrTargetDir, dir, err)
	}
	logger.Debug("created %s", dir)
	return true, nil
}
