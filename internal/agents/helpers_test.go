package agents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/obentoo/bentoo-agents/internal/common/config"
	"github.com/obentoo/bentoo-agents/internal/manifest"
)

// fixture is a consumer project with this package vendored at
// <project>/vendor/acme/claude-agents
type fixture struct {
	t           *testing.T
	projectRoot string
	cfg         *config.Config
	manifest    *manifest.Manifest
}

func newFixture(t *testing.T, entries ...string) *fixture {
	t.Helper()

	projectRoot := filepath.Join(t.TempDir(), "project")
	packageRoot := filepath.Join(projectRoot, "vendor", "acme", "claude-agents")
	if err := os.MkdirAll(packageRoot, 0755); err != nil {
		t.Fatal(err)
	}

	return &fixture{
		t:           t,
		projectRoot: projectRoot,
		cfg:         config.New(packageRoot),
		manifest:    &manifest.Manifest{Entries: entries},
	}
}

// writeSource ships an agent file inside the package
func (f *fixture) writeSource(entry, content string) string {
	f.t.Helper()
	path := filepath.Join(f.cfg.PackageRoot, filepath.FromSlash(entry))
	writeTestFile(f.t, path, content)
	return path
}

// writeTarget puts a file into the consumer's agents directory
func (f *fixture) writeTarget(name, content string) string {
	f.t.Helper()
	path := filepath.Join(f.cfg.TargetDir, name)
	writeTestFile(f.t, path, content)
	return path
}

func (f *fixture) target(name string) string {
	return filepath.Join(f.cfg.TargetDir, name)
}

func (f *fixture) readTarget(name string) string {
	f.t.Helper()
	data, err := os.ReadFile(f.target(name))
	if err != nil {
		f.t.Fatalf("reading target %s: %v", name, err)
	}
	return string(data)
}

func (f *fixture) install() *InstallResult {
	f.t.Helper()
	result, err := NewInstaller(f.cfg, f.manifest).Install()
	if err != nil {
		f.t.Fatalf("Install: %v", err)
	}
	return result
}

func (f *fixture) uninstall() *UninstallResult {
	f.t.Helper()
	result, err := NewUninstaller(f.cfg, f.manifest).Uninstall()
	if err != nil {
		f.t.Fatalf("Uninstall: %v", err)
	}
	return result
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func actions(outcomes []Outcome) []Action {
	out := make([]Action, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Action
	}
	return out
}
