package facet

import (
	"strings"
	"testing"

	"github.com/crimson-sun/rigtrac/internal/testfiles"
)

func trackerConfigSpec() *ConfigSpec {
	return &ConfigSpec{
		Packages:    []string{"fictrac_ros2"},
		Executables: map[string][]string{"fictrac_ros2": {"trackmovements"}},
	}
}

func trackerPin() *VersionPin {
	return &VersionPin{
		Package:     "fictrac_ros2",
		Repo:        "fictrac_ros2",
		Branch:      "main",
		Executables: []string{"trackmovements"},
		CommitTime:  "2022-08-19 16:51:19-04:00",
	}
}

func TestHasOnEmptySet(t *testing.T) {
	var s *Set
	for _, k := range []Kind{KindConfigProvenance, KindVersionProvenance, KindTimeBase, Kind("bogus")} {
		if s.Has(k) {
			t.Fatalf("nil set must not report facet %q", k)
		}
	}
	empty := &Set{}
	if empty.Has(KindTimeBase) {
		t.Fatal("empty set must not report a time-base")
	}
	if _, ok := empty.TimeBase(); ok {
		t.Fatal("getter on empty set must report ok=false")
	}
}

func TestExtractConfigProvenance(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	testfiles.ConfigYAML(t, dir, "session_config.yaml",
		"fictrac_ros2", "trackmovements", map[string]string{"fps": "120"})

	s := Extract(data, Want{Config: trackerConfigSpec()})
	if !s.Has(KindConfigProvenance) {
		t.Fatal("expected config provenance facet")
	}
	cfg, ok := s.Config()
	if !ok {
		t.Fatal("expected config getter to succeed")
	}
	if len(cfg.Nodes) != 1 || cfg.Nodes[0].Executable != "trackmovements" {
		t.Fatalf("unexpected nodes: %+v", cfg.Nodes)
	}
	if cfg.Nodes[0].Parameters["fps"] != 120 {
		t.Fatalf("expected fps parameter, got %v", cfg.Nodes[0].Parameters)
	}
}

func TestExtractConfigMissingFileMeansAbsent(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)

	s := Extract(data, Want{Config: trackerConfigSpec(), TimeBase: true})
	if s.Has(KindConfigProvenance) {
		t.Fatal("missing companion file must leave the facet absent")
	}
	// Other wanted facets still extract.
	if !s.Has(KindTimeBase) {
		t.Fatal("time-base should be independent of config")
	}
}

func TestExtractConfigWrongPackageMeansAbsent(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	testfiles.ConfigYAML(t, dir, "session_config.yaml",
		"some_other_driver", "other_node", nil)

	s := Extract(data, Want{Config: trackerConfigSpec()})
	if s.Has(KindConfigProvenance) {
		t.Fatal("config for an unrelated package must not attach")
	}
}

func TestExtractVersionProvenance(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	testfiles.GitStateYAML(t, dir, "trac_git_state.yaml",
		"fictrac_ros2", "trackmovements", "main", "abc123", "2022-08-01 10:00:00-04:00")

	s := Extract(data, Want{Version: trackerPin()})
	v, ok := s.Version()
	if !ok {
		t.Fatal("expected version provenance facet")
	}
	if v.Commit != "abc123" {
		t.Fatalf("expected commit abc123, got %q", v.Commit)
	}
	if len(v.Warnings) != 0 {
		t.Fatalf("validated state should carry no warnings, got %v", v.Warnings)
	}
}

func TestVersionWarnsOnNewerCommit(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	testfiles.GitStateYAML(t, dir, "trac_git_state.yaml",
		"fictrac_ros2", "trackmovements", "main", "def456", "2025-01-01 00:00:00-04:00")

	s := Extract(data, Want{Version: trackerPin()})
	v, ok := s.Version()
	if !ok {
		t.Fatal("a newer commit still attaches the facet")
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "newer") {
		t.Fatalf("expected a newer-commit warning, got %v", v.Warnings)
	}
}

func TestVersionWarnsOnUnknownExecutable(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	testfiles.GitStateYAML(t, dir, "trac_git_state.yaml",
		"fictrac_ros2", "mystery_node", "main", "abc123", "2022-08-01 10:00:00-04:00")

	s := Extract(data, Want{Version: trackerPin()})
	v, ok := s.Version()
	if !ok {
		t.Fatal("expected facet despite executable mismatch")
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "not been validated") {
		t.Fatalf("expected an unknown-executable warning, got %v", v.Warnings)
	}
}

func TestConfigNodesSortedByName(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	testfiles.Write(t, dir, "session_config.yaml", `compiled_config:
  zeta:
    package: fictrac_ros2
    executable: trackmovements
    parameters:
      fps: 120
  alpha:
    package: fictrac_ros2
    executable: trackmovements
    parameters:
      fps: 60
`)

	s := Extract(data, Want{Config: trackerConfigSpec()})
	cfg, ok := s.Config()
	if !ok {
		t.Fatal("expected config provenance facet")
	}
	if len(cfg.Nodes) != 2 {
		t.Fatalf("want both nodes, got %+v", cfg.Nodes)
	}
	if cfg.Nodes[0].Name != "alpha" || cfg.Nodes[1].Name != "zeta" {
		t.Fatalf("nodes not name-sorted: %q, %q", cfg.Nodes[0].Name, cfg.Nodes[1].Name)
	}
}

func TestVersionPrefersPinnedExecutable(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 0, 3, 1_000_000)
	// Two nodes from the pinned package; the helper sorts first by
	// name, but the pinned executable must win.
	testfiles.Write(t, dir, "trac_git_state.yaml", `aaa_helper:
  package: fictrac_ros2
  executable: mystery_node
  branch: main
  commit_hash: bad999
  commit_time: "2022-08-01 10:00:00-04:00"
tracker:
  package: fictrac_ros2
  executable: trackmovements
  branch: main
  commit_hash: abc123
  commit_time: "2022-08-01 10:00:00-04:00"
`)

	s := Extract(data, Want{Version: trackerPin()})
	v, ok := s.Version()
	if !ok {
		t.Fatal("expected version provenance facet")
	}
	if v.Executable != "trackmovements" || v.Commit != "abc123" {
		t.Fatalf("picked node %q (%s), want the pinned executable", v.Executable, v.Commit)
	}
	if len(v.Warnings) != 0 {
		t.Fatalf("pinned node should carry no warnings, got %v", v.Warnings)
	}
}

func TestExtractTimeBase(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.FulltracCSV(t, dir, "trac.csv", 5_000, 10, 1_000_000)

	s := Extract(data, Want{TimeBase: true})
	tb, ok := s.TimeBase()
	if !ok {
		t.Fatal("expected time-base facet")
	}
	if tb.Start != 5_000 {
		t.Fatalf("expected start 5000, got %d", tb.Start)
	}
	if tb.End != 5_000+9*1_000_000 {
		t.Fatalf("unexpected end %d", tb.End)
	}
	if tb.Duration() != tb.End-tb.Start {
		t.Fatal("Duration should be End-Start")
	}
}

func TestSearchUpFindsCompanionAboveDataDir(t *testing.T) {
	dir := t.TempDir()
	data := testfiles.VRPosCSV(t, dir, "logs/vr.csv", 0, 3, 1_000_000)
	testfiles.ConfigYAML(t, dir, "session_config.yaml",
		"eternarig_experiment_logic", "sct_sutter_bar", nil)

	spec := &ConfigSpec{
		Packages:    []string{"eternarig_experiment_logic"},
		Executables: map[string][]string{"eternarig_experiment_logic": {"sct_sutter_bar"}},
	}

	if s := Extract(data, Want{Config: spec}); s.Has(KindConfigProvenance) {
		t.Fatal("without SearchUp the parent's config must not attach")
	}
	s := Extract(data, Want{Config: spec, SearchUp: true})
	if !s.Has(KindConfigProvenance) {
		t.Fatal("SearchUp should find the config one level above")
	}
}
