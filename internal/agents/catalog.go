package agents

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/obentoo/bentoo-agents/internal/common/config"
	"github.com/obentoo/bentoo-agents/internal/manifest"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontMatter is returned when an agent file does not open with a --- block
	ErrNoFrontMatter = errors.New("no front matter")
	// ErrUnterminatedFrontMatter is returned when the closing --- line is missing
	ErrUnterminatedFrontMatter = errors.New("front matter is not terminated")
)

// Meta is the YAML front matter of an agent definition
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Model       string `yaml:"model,omitempty"`
	Tools       Tools  `yaml:"tools,omitempty"`
}

// Tools accepts both "Read, Write, Bash" and a YAML list
type Tools []string

// UnmarshalYAML implements yaml.Unmarshaler
func (t *Tools) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var out Tools
		for _, tool := range strings.Split(node.Value, ",") {
			if tool = strings.TrimSpace(tool); tool != "" {
				out = append(out, tool)
			}
		}
		*t = out
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: tools must be a string or a list", node.Line)
	}
}

// ParseFrontMatter extracts the YAML block between the leading --- lines
func ParseFrontMatter(data []byte) (*Meta, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, ErrNoFrontMatter
	}
	rest := data[len("---\n"):]

	var block []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")):
		block = nil
	default:
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return nil, ErrUnterminatedFrontMatter
		}
		tail := rest[end+len("\n---"):]
		if len(tail) > 0 && tail[0] != '\n' {
			return nil, ErrUnterminatedFrontMatter
		}
		block = rest[:end]
	}

	meta := &Meta{}
	if err := yaml.Unmarshal(block, meta); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return meta, nil
}

// AgentInfo describes an agent for the post-install usage listing
type AgentInfo struct {
	Name        string
	Description string
	Model       string
}

// Catalog describes every shipped agent listed in the manifest. Agents without
// front matter are listed by file name; missing sources are left out.
func Catalog(cfg *config.Config, m *manifest.Manifest) []AgentInfo {
	infos := make([]AgentInfo, 0, m.Len())

	for _, entry := range m.Entries {
		out, err := resolveEntry(cfg.PackageRoot, cfg.TargetDir, entry)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(out.Source)
		if err != nil {
			continue
		}

		info := AgentInfo{Name: strings.TrimSuffix(out.Name, filepath.Ext(out.Name))}
		if meta, err := ParseFrontMatter(data); err == nil {
			if meta.Name != "" {
				info.Name = meta.Name
			}
			info.Description = firstLine(meta.Description)
			info.Model = meta.Model
		}
		infos = append(infos, info)
	}

	return infos
}

// firstLine keeps listings to one line per agent
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
