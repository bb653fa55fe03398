package facet

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// commitTimeLayout matches the commit_time strings the rig writes into
// its git-state files.
const commitTimeLayout = "2006-01-02 15:04:05-07:00"

// VersionPin is the newest producing-software state a log type's
// accessors have been checked against. Data produced by a commit newer
// than the pin still loads, but the mismatch is surfaced as a warning
// on the facet.
type VersionPin struct {
	Package     string
	Repo        string
	Branch      string
	Executables []string
	CommitTime  string // commitTimeLayout
}

// VersionProvenance records the git state of the software that produced
// a data file, from its companion *_git_state*.yaml.
type VersionProvenance struct {
	Path       string
	Package    string
	Executable string
	Branch     string
	Commit     string
	CommitTime time.Time

	// Warnings lists compatibility concerns against the pin: a commit
	// newer than the validated one, or an unrecognized executable.
	Warnings []string
}

type gitStateNode struct {
	Package    string `yaml:"package"`
	Executable string `yaml:"executable"`
	Branch     string `yaml:"branch"`
	CommitHash string `yaml:"commit_hash"`
	CommitTime string `yaml:"commit_time"`
}

func extractVersion(dataPath string, pin *VersionPin, searchUp bool) *VersionProvenance {
	statePath, ok := findCompanion(dataPath, searchUp, func(name string) bool {
		return strings.Contains(name, "_git_state") && strings.HasSuffix(name, ".yaml")
	})
	if !ok {
		slog.Debug("no git state file", "path", dataPath)
		return nil
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		slog.Warn("git state unreadable", "path", statePath, "error", err)
		return nil
	}
	var nodes map[string]gitStateNode
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		slog.Warn("git state unparseable", "path", statePath, "error", err)
		return nil
	}

	// Map iteration order is random; walk names sorted and prefer a
	// pinned executable so the pick is stable when a state file holds
	// several nodes from the same package.
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	pick := ""
	for _, name := range names {
		n := nodes[name]
		if n.Package != pin.Package {
			continue
		}
		if pick == "" {
			pick = name
		}
		if pin.pinned(n.Executable) {
			pick = name
			break
		}
	}
	if pick == "" {
		slog.Debug("git state has no node for this log type",
			"state", statePath, "path", dataPath)
		return nil
	}

	n := nodes[pick]
	v := &VersionProvenance{
		Path:       statePath,
		Package:    n.Package,
		Executable: n.Executable,
		Branch:     n.Branch,
		Commit:     n.CommitHash,
	}
	v.Warnings = pin.check(n, &v.CommitTime)
	return v
}

func (p *VersionPin) check(n gitStateNode, parsedTime *time.Time) []string {
	var warnings []string

	loggedTime, err := time.Parse(commitTimeLayout, n.CommitTime)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("unparseable commit_time %q", n.CommitTime))
	} else {
		*parsedTime = loggedTime
		if pinTime, err := time.Parse(commitTimeLayout, p.CommitTime); err == nil && loggedTime.After(pinTime) {
			warnings = append(warnings,
				fmt.Sprintf("data produced by commit from %s, newer than last validated commit (%s)",
					loggedTime.Format(time.RFC3339), pinTime.Format(time.RFC3339)))
		}
	}

	if !p.pinned(n.Executable) {
		warnings = append(warnings,
			fmt.Sprintf("executable %q has not been validated for this log type", n.Executable))
	}
	return warnings
}

func (p *VersionPin) pinned(executable string) bool {
	for _, e := range p.Executables {
		if e == executable {
			return true
		}
	}
	return false
}
