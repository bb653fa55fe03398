package facet

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigSpec declares which compiled-config nodes belong to a log type:
// the producing packages and, per package, the executables whose
// parameters are worth keeping.
type ConfigSpec struct {
	Packages    []string
	Executables map[string][]string // package -> executables
}

// ConfigProvenance records the companion configuration file a data file
// was produced under, plus the parameter sets of the matching nodes.
type ConfigProvenance struct {
	Path  string
	Nodes []ConfigNode
}

// ConfigNode is one matched node entry from the compiled config.
type ConfigNode struct {
	Name       string
	Package    string
	Executable string
	Parameters map[string]any
}

// compiledConfig mirrors the on-disk layout written by the launch
// tooling: a top-level compiled_config map keyed by node name.
type compiledConfig struct {
	Nodes map[string]configNodeYAML `yaml:"compiled_config"`
}

type configNodeYAML struct {
	Package    string         `yaml:"package"`
	Executable string         `yaml:"executable"`
	Parameters map[string]any `yaml:"parameters"`
}

func extractConfig(dataPath string, spec *ConfigSpec, searchUp bool) *ConfigProvenance {
	cfgPath, ok := findCompanion(dataPath, searchUp, func(name string) bool {
		return strings.HasSuffix(name, "config.yaml")
	})
	if !ok {
		slog.Debug("no companion config file", "path", dataPath)
		return nil
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		slog.Warn("companion config unreadable", "path", cfgPath, "error", err)
		return nil
	}
	var cc compiledConfig
	if err := yaml.Unmarshal(data, &cc); err != nil {
		slog.Warn("companion config unparseable", "path", cfgPath, "error", err)
		return nil
	}

	var nodes []ConfigNode
	for name, n := range cc.Nodes {
		if !spec.owns(n.Package, n.Executable) {
			continue
		}
		nodes = append(nodes, ConfigNode{
			Name:       name,
			Package:    n.Package,
			Executable: n.Executable,
			Parameters: n.Parameters,
		})
	}
	if len(nodes) == 0 {
		slog.Debug("config file has no nodes for this log type",
			"config", cfgPath, "path", dataPath)
		return nil
	}
	// Map iteration order is random; keep scans deterministic.
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return &ConfigProvenance{Path: cfgPath, Nodes: nodes}
}

func (s *ConfigSpec) owns(pkg, executable string) bool {
	found := false
	for _, p := range s.Packages {
		if p == pkg {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for _, e := range s.Executables[pkg] {
		if e == executable {
			return true
		}
	}
	return false
}

// findCompanion looks for a sibling of the data file whose name passes
// match, skipping macOS resource forks. With searchUp it also checks
// one directory above, for logs nested below the session directory.
func findCompanion(dataPath string, searchUp bool, match func(string) bool) (string, bool) {
	dirs := []string{filepath.Dir(dataPath)}
	if searchUp {
		dirs = append(dirs, filepath.Dir(dirs[0]))
	}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, "._") {
				continue
			}
			if match(name) {
				return filepath.Join(dir, name), true
			}
		}
	}
	return "", false
}
