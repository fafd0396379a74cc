package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BENTOO_AGENTS_PROJECT_ROOT
	EnvPrefix = "BENTOO_AGENTS"

	// ConfigDirName is the reserved configuration root inside the consumer project
	ConfigDirName = ".claude"
	// AgentsDirName is the agents directory inside ConfigDirName
	AgentsDirName = "agents"

	// ProjectDepth is how far the package root sits below the project root:
	// <project>/vendor/<vendor>/<package>
	ProjectDepth = 3
)

// Flag and viper keys
const (
	KeyPackageRoot = "package-root"
	KeyProjectRoot = "project-root"
	KeyTargetDir   = "target-dir"
	KeyManifest    = "manifest"
	KeyDryRun      = "dry-run"
	KeyKeepOrphans = "keep-orphans"
)

var (
	ErrPackageRootNotFound = errors.New("package root does not exist")
	ErrProjectRootNotFound = errors.New("project root does not exist")
)

// executable is swapped in tests
var executable = os.Executable

// Config holds the paths and switches for one install or uninstall run.
// It is built once at startup and passed to every operation.
type Config struct {
	PackageRoot  string // directory holding the manifest and agent sources
	ProjectRoot  string // consumer project root
	TargetDir    string // where agents are installed
	ManifestPath string // explicit manifest document; empty means search PackageRoot
	DryRun       bool   // report decisions without touching the filesystem
	KeepOrphans  bool   // uninstall preserves targets whose source is gone
}

// New returns a Config for packageRoot using the default layout conventions
func New(packageRoot string) *Config {
	projectRoot := DeriveProjectRoot(packageRoot, ProjectDepth)
	return &Config{
		PackageRoot: packageRoot,
		ProjectRoot: projectRoot,
		TargetDir:   DefaultTargetDir(projectRoot),
	}
}

// ConfigDir returns the reserved configuration root that holds TargetDir
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.TargetDir)
}

// InConfigDir reports whether TargetDir sits directly in the reserved
// configuration root. Only then may uninstall remove ConfigDir.
func (c *Config) InConfigDir() bool {
	return filepath.Base(c.ConfigDir()) == ConfigDirName
}

// DefaultTargetDir returns <projectRoot>/.claude/agents
func DefaultTargetDir(projectRoot string) string {
	return filepath.Join(projectRoot, ConfigDirName, AgentsDirName)
}

// DeriveProjectRoot walks depth levels up from packageRoot
func DeriveProjectRoot(packageRoot string, depth int) string {
	root := filepath.Clean(packageRoot)
	for i := 0; i < depth; i++ {
		root = filepath.Dir(root)
	}
	return root
}

// PackageRootFromExecutable returns the package root for a command installed
// as <package>/bin/<command>
func PackageRootFromExecutable(exe string) string {
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}

// RegisterFlags adds the path and mode flags shared by both commands
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyPackageRoot, "", "Package root holding the manifest and agents (default: derived from the executable)")
	flags.String(KeyProjectRoot, "", "Consumer project root (default: three levels above the package root)")
	flags.String(KeyTargetDir, "", "Agents directory (default: <project-root>/.claude/agents)")
	flags.String(KeyManifest, "", "Manifest document (default: composer.json in the package root)")
	flags.Bool(KeyDryRun, false, "Show what would change without touching the filesystem")
}

// Load resolves a Config from flags, BENTOO_AGENTS_* environment variables
// and the default layout, in that order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	packageRoot := v.GetString(KeyPackageRoot)
	if packageRoot == "" {
		exe, err := executable()
		if err != nil {
			return nil, fmt.Errorf("locating executable: %w", err)
		}
		packageRoot = PackageRootFromExecutable(exe)
	}
	packageRoot, err := absDir(packageRoot, ErrPackageRootNotFound)
	if err != nil {
		return nil, err
	}

	cfg := New(packageRoot)

	if projectRoot := v.GetString(KeyProjectRoot); projectRoot != "" {
		cfg.ProjectRoot, err = absDir(projectRoot, ErrProjectRootNotFound)
		if err != nil {
			return nil, err
		}
		cfg.TargetDir = DefaultTargetDir(cfg.ProjectRoot)
	}

	if targetDir := v.GetString(KeyTargetDir); targetDir != "" {
		cfg.TargetDir, err = filepath.Abs(targetDir)
		if err != nil {
			return nil, err
		}
	}

	if manifestPath := v.GetString(KeyManifest); manifestPath != "" {
		cfg.ManifestPath, err = filepath.Abs(manifestPath)
		if err != nil {
			return nil, err
		}
	}

	cfg.DryRun = v.GetBool(KeyDryRun)
	cfg.KeepOrphans = v.GetBool(KeyKeepOrphans)

	return cfg, nil
}

// absDir makes path absolute and checks it is an existing directory
func absDir(path string, notFound error) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", notFound, abs)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", notFound, abs)
	}

	return abs, nil
}
