package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/spf13/pflag"
)

// newLayout creates <tmp>/project/vendor/acme/agents and returns the project
// root and package root
func newLayout(t *testing.T) (projectRoot, packageRoot string) {
	t.Helper()
	projectRoot = filepath.Join(t.TempDir(), "project")
	packageRoot = filepath.Join(projectRoot, "vendor", "acme", "agents")
	if err := os.MkdirAll(filepath.Join(packageRoot, "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	return projectRoot, packageRoot
}

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	flags.Bool(KeyKeepOrphans, false, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return flags
}

func stubExecutable(t *testing.T, path string) {
	t.Helper()
	orig := executable
	executable = func() (string, error) { return path, nil }
	t.Cleanup(func() { executable = orig })
}

func TestNewUsesDefaultLayout(t *testing.T) {
	cfg := New("/srv/app/vendor/acme/agents")

	if cfg.ProjectRoot != "/srv/app" {
		t.Errorf("ProjectRoot = %q, want /srv/app", cfg.ProjectRoot)
	}
	if cfg.TargetDir != "/srv/app/.claude/agents" {
		t.Errorf("TargetDir = %q, want /srv/app/.claude/agents", cfg.TargetDir)
	}
	if cfg.ConfigDir() != "/srv/app/.claude" {
		t.Errorf("ConfigDir() = %q, want /srv/app/.claude", cfg.ConfigDir())
	}
}

func TestInConfigDir(t *testing.T) {
	tests := []struct {
		targetDir string
		want      bool
	}{
		{"/srv/app/.claude/agents", true},
		{"/srv/app/mine/agents", false},
		{"/srv/app/.claude", false},
	}

	for _, tt := range tests {
		cfg := &Config{TargetDir: tt.targetDir}
		if got := cfg.InConfigDir(); got != tt.want {
			t.Errorf("InConfigDir() for %s = %v, want %v", tt.targetDir, got, tt.want)
		}
	}
}

func TestPackageRootFromExecutable(t *testing.T) {
	got := PackageRootFromExecutable("/srv/app/vendor/acme/agents/bin/install-agents")
	if got != "/srv/app/vendor/acme/agents" {
		t.Errorf("PackageRootFromExecutable() = %q", got)
	}
}

// TestDeriveProjectRootDepth tests that walking up N levels removes exactly N path elements
func TestDeriveProjectRootDepth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genSegments := gen.SliceOfN(6, gen.Identifier())

	properties.Property("project root is the package root minus depth elements", prop.ForAll(
		func(segments []string, depth int) bool {
			if len(segments) == 0 {
				return true
			}
			if depth > len(segments) {
				depth = len(segments)
			}
			packageRoot := "/" + strings.Join(segments, "/")
			want := "/" + strings.Join(segments[:len(segments)-depth], "/")
			return DeriveProjectRoot(packageRoot, depth) == filepath.Clean(want)
		},
		genSegments,
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

func TestLoadDerivesPathsFromExecutable(t *testing.T) {
	projectRoot, packageRoot := newLayout(t)
	stubExecutable(t, filepath.Join(packageRoot, "bin", "install-agents"))

	cfg, err := Load(parseFlags(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PackageRoot != packageRoot {
		t.Errorf("PackageRoot = %q, want %q", cfg.PackageRoot, packageRoot)
	}
	if cfg.ProjectRoot != projectRoot {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, projectRoot)
	}
	if want := filepath.Join(projectRoot, ".claude", "agents"); cfg.TargetDir != want {
		t.Errorf("TargetDir = %q, want %q", cfg.TargetDir, want)
	}
	if cfg.DryRun || cfg.KeepOrphans {
		t.Error("switches should default to false")
	}
}

func TestLoadFlagsOverrideLayout(t *testing.T) {
	_, packageRoot := newLayout(t)
	otherProject := t.TempDir()
	manifestPath := filepath.Join(t.TempDir(), "agents.yaml")

	cfg, err := Load(parseFlags(t,
		"--package-root", packageRoot,
		"--project-root", otherProject,
		"--manifest", manifestPath,
		"--dry-run",
		"--keep-orphans",
	))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ProjectRoot != otherProject {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, otherProject)
	}
	if want := filepath.Join(otherProject, ".claude", "agents"); cfg.TargetDir != want {
		t.Errorf("TargetDir = %q, want %q", cfg.TargetDir, want)
	}
	if cfg.ManifestPath != manifestPath {
		t.Errorf("ManifestPath = %q, want %q", cfg.ManifestPath, manifestPath)
	}
	if !cfg.DryRun || !cfg.KeepOrphans {
		t.Error("--dry-run and --keep-orphans should be set")
	}
}

func TestLoadTargetDirFlagWins(t *testing.T) {
	_, packageRoot := newLayout(t)
	target := filepath.Join(t.TempDir(), "custom", "agents")

	cfg, err := Load(parseFlags(t, "--package-root", packageRoot, "--target-dir", target))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TargetDir != target {
		t.Errorf("TargetDir = %q, want %q", cfg.TargetDir, target)
	}
	if cfg.ConfigDir() != filepath.Dir(target) {
		t.Errorf("ConfigDir() = %q, want %q", cfg.ConfigDir(), filepath.Dir(target))
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	_, packageRoot := newLayout(t)
	otherProject := t.TempDir()

	t.Setenv("BENTOO_AGENTS_PACKAGE_ROOT", packageRoot)
	t.Setenv("BENTOO_AGENTS_PROJECT_ROOT", otherProject)
	t.Setenv("BENTOO_AGENTS_DRY_RUN", "true")

	cfg, err := Load(parseFlags(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.PackageRoot != packageRoot {
		t.Errorf("PackageRoot = %q, want %q", cfg.PackageRoot, packageRoot)
	}
	if cfg.ProjectRoot != otherProject {
		t.Errorf("ProjectRoot = %q, want %q", cfg.ProjectRoot, otherProject)
	}
	if !cfg.DryRun {
		t.Error("BENTOO_AGENTS_DRY_RUN should enable dry-run")
	}
}

func TestLoadFlagBeatsEnvironment(t *testing.T) {
	_, packageRoot := newLayout(t)
	fromFlag := t.TempDir()

	t.Setenv("BENTOO_AGENTS_PROJECT_ROOT", t.TempDir())

	cfg, err := Load(parseFlags(t, "--package-root", packageRoot, "--project-root", fromFlag))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectRoot != fromFlag {
		t.Errorf("ProjectRoot = %q, want flag value %q", cfg.ProjectRoot, fromFlag)
	}
}

func TestLoadRejectsMissingRoots(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, packageRoot := newLayout(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing package root", []string{"--package-root", missing}, ErrPackageRootNotFound},
		{"missing project root", []string{"--package-root", packageRoot, "--project-root", missing}, ErrProjectRootNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(parseFlags(t, tt.args...))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsFileAsPackageRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "composer.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(parseFlags(t, "--package-root", file))
	if !errors.Is(err, ErrPackageRootNotFound) {
		t.Errorf("Load() error = %v, want ErrPackageRootNotFound", err)
	}
}
