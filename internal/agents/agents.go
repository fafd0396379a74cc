// Package agents installs and uninstalls the agent files listed in a package
// manifest.
//
// Each manifest entry is reconciled on its own. Install copies a source file
// into the target directory unless an identical copy is already there.
// Uninstall removes a target file only while it still matches its source, so
// files edited by the user are preserved. Entries are processed in manifest
// order and per-entry problems never abort the run.
package agents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrTargetDir is returned when the target directory cannot be created
var ErrTargetDir = errors.New("failed to create target directory")

// Action is the decision taken for one manifest entry
type Action string

const (
	ActionInstall   Action = "install"   // target absent, source copied
	ActionUpdate    Action = "update"    // target differed from source, overwritten
	ActionSkip      Action = "skip"      // target identical to source
	ActionMissing   Action = "missing"   // source file not shipped
	ActionInvalid   Action = "invalid"   // entry is not a usable relative file path
	ActionDuplicate Action = "duplicate" // basename already claimed by an earlier entry
	ActionRemove    Action = "remove"    // target matched source, deleted
	ActionOrphan    Action = "orphan"    // source gone, target deleted
	ActionPreserve  Action = "preserve"  // target modified by the user, kept
	ActionAbsent    Action = "absent"    // nothing to uninstall
	ActionFailed    Action = "failed"    // filesystem error, see Outcome.Err
)

// Outcome records what happened to one manifest entry
type Outcome struct {
	Entry         string // manifest entry as listed
	Name          string // target file name
	Source        string // absolute source path, empty when invalid
	Target        string // absolute target path
	Action        Action
	SourceMissing bool  // uninstall could not compare against a source
	Err           error // set for ActionFailed and ActionInvalid
}

// Changed reports whether the outcome writes or deletes a file
func (o Outcome) Changed() bool {
	switch o.Action {
	case ActionInstall, ActionUpdate, ActionRemove, ActionOrphan:
		return true
	default:
		return false
	}
}

var errEscapesRoot = errors.New("path escapes the package root")

// resolveEntry maps a manifest entry to its source and target paths
func resolveEntry(packageRoot, targetDir, entry string) (Outcome, error) {
	rel := filepath.FromSlash(entry)
	name := filepath.Base(rel)
	out := Outcome{
		Entry:  entry,
		Name:   name,
		Target: filepath.Join(targetDir, name),
	}

	if filepath.IsAbs(rel) {
		return out, fmt.Errorf("%s: absolute paths are not allowed", entry)
	}

	source := filepath.Join(packageRoot, rel)
	within, err := filepath.Rel(packageRoot, source)
	if err != nil {
		return out, fmt.Errorf("%s: %w", entry, err)
	}
	if within == "." || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return out, fmt.Errorf("%s: %w", entry, errEscapesRoot)
	}

	out.Source = source
	return out, nil
}

// fileExists reports whether path exists; a directory counts as an error
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}
