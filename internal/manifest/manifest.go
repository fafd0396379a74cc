// Package manifest loads the list of agent files a package ships.
//
// The list lives in a structured document at the package root, under the
// package-scoped section "claude-agents" and its "agents" key. Composer
// documents nest the section under "extra":
//
//	{"extra": {"claude-agents": {"agents": ["agents/a.md", "agents/b.md"]}}}
//
// YAML and TOML documents may use the same layout or put the section at the
// top level:
//
//	[claude-agents]
//	agents = ["agents/a.md"]
//
// Only a missing document is an error. Malformed content, a missing section
// or a missing key all yield an empty manifest.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/obentoo/bentoo-agents/internal/common/logger"
	"gopkg.in/yaml.v3"
)

const (
	// Section is the package-scoped configuration section
	Section = "claude-agents"
	// Key lists the managed files inside Section
	Key = "agents"
	// ExtraSection wraps Section in composer documents
	ExtraSection = "extra"
)

// ErrManifestNotFound is returned when the manifest document itself is missing
var ErrManifestNotFound = errors.New("manifest not found")

// Candidates are the manifest file names searched in the package root, in priority order
var Candidates = []string{"composer.json", "agents.yaml", "agents.yml", "agents.toml"}

// Manifest is the ordered list of agent paths, relative to the package root
type Manifest struct {
	Path    string   // document the entries were read from
	Entries []string // relative paths in document order
}

// Len returns the number of entries
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// Find returns the first candidate manifest present in packageRoot
func Find(packageRoot string) (string, error) {
	for _, name := range Candidates {
		path := filepath.Join(packageRoot, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrManifestNotFound, packageRoot, strings.Join(Candidates, ", "))
}

// Locate returns explicit when set, otherwise the manifest found in packageRoot
func Locate(packageRoot, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return Find(packageRoot)
}

// Load reads the manifest document at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{Path: path, Entries: []string{}}

	doc, err := decode(path, data)
	if err != nil {
		logger.Debug("manifest %s is malformed, treating as empty: %v", path, err)
		return m, nil
	}

	list, ok := lookup(doc)
	if !ok {
		logger.Debug("manifest %s has no %s.%s list", path, Section, Key)
		return m, nil
	}

	m.Entries = entries(list)
	return m, nil
}

// decode parses data according to the file extension; JSON is the default
func decode(path string, data []byte) (map[string]interface{}, error) {
	doc := map[string]interface{}{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// lookup finds extra.<Section>.<Key>, falling back to <Section>.<Key>
func lookup(doc map[string]interface{}) ([]interface{}, bool) {
	if extra, ok := asMap(doc[ExtraSection]); ok {
		if list, ok := sectionList(extra); ok {
			return list, true
		}
	}
	return sectionList(doc)
}

func sectionList(parent map[string]interface{}) ([]interface{}, bool) {
	section, ok := asMap(parent[Section])
	if !ok {
		return nil, false
	}
	switch list := section[Key].(type) {
	case []interface{}:
		return list, true
	case []map[string]interface{}:
		// TOML arrays of tables never hold paths
		return nil, true
	default:
		return nil, false
	}
}

// asMap normalizes the map shapes produced by the three decoders
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			if s, ok := k.(string); ok {
				out[s] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// entries keeps non-blank string items in order
func entries(list []interface{}) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
