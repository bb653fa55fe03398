package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/rigtrac/internal/format"
	"github.com/crimson-sun/rigtrac/internal/format/all"
	"github.com/crimson-sun/rigtrac/internal/format/fictrac"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/format/temperature"
	"github.com/crimson-sun/rigtrac/internal/format/vrpos"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
	"github.com/crimson-sun/rigtrac/internal/testfiles"
)

func builtins(t *testing.T) *format.Catalog {
	t.Helper()
	cat, err := all.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestScanMixedDirectory(t *testing.T) {
	dir := t.TempDir()
	testfiles.FulltracCSV(t, dir, "fulltrac.csv", 5_000_000, 10, 1_000_000)
	testfiles.VRPosCSV(t, dir, "vr_position.csv", 2_000_000, 10, 1_000_000)
	testfiles.TemperatureCSV(t, dir, "warner_temperature_read.csv", 7_000_000, 5, 2.5)
	testfiles.Write(t, dir, "garbage.csv", "not,a,known\nlayout,at,all\n")

	exp, err := Scan(context.Background(), builtins(t), dir, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if exp.Partial {
		t.Fatal("complete scan must not be marked partial")
	}
	if got := len(exp.All()); got != 3 {
		t.Fatalf("want 3 interpreters, got %d: %v", got, exp.Tags())
	}
	if _, ok := exp.First(fictrac.Tag); !ok {
		t.Error("fictrac log not collected")
	}
	if _, ok := exp.First(vrpos.Tag); !ok {
		t.Error("vr position log not collected")
	}
	if _, ok := exp.First(temperature.Tag); !ok {
		t.Error("temperature log not collected")
	}

	diags := exp.Diagnostics()
	if len(diags.Unclassified) != 1 || filepath.Base(diags.Unclassified[0].Path) != "garbage.csv" {
		t.Fatalf("garbage file not reported unclassified: %+v", diags.Unclassified)
	}
	if len(diags.Ambiguous) != 0 || len(diags.Errored) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestScanAlignsToEarliestTimeBase(t *testing.T) {
	dir := t.TempDir()
	testfiles.FulltracCSV(t, dir, "fulltrac.csv", 5_000_000, 10, 1_000_000)
	testfiles.VRPosCSV(t, dir, "vr_position.csv", 2_000_000, 10, 1_000_000)

	exp, err := Scan(context.Background(), builtins(t), dir, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	epoch, ok := exp.Epoch()
	if !ok {
		t.Fatal("no epoch on a session with time-base logs")
	}
	if epoch != 2_000_000 {
		t.Fatalf("epoch = %d, want earliest start 2000000", epoch)
	}

	vr, _ := exp.First(vrpos.Tag)
	if ts := vr.AlignedTimestamps(); ts[0] != 0 {
		t.Errorf("earliest log should align to zero, got %d", ts[0])
	}
	ft, _ := exp.First(fictrac.Tag)
	if ts := ft.AlignedTimestamps(); ts[0] != 3_000_000 {
		t.Errorf("later log aligned start = %d, want 3000000", ts[0])
	}
}

func TestScanNoAlign(t *testing.T) {
	dir := t.TempDir()
	testfiles.FulltracCSV(t, dir, "fulltrac.csv", 5_000_000, 5, 1_000_000)

	exp, err := Scan(context.Background(), builtins(t), dir, Options{NoAlign: true})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, ok := exp.Epoch(); ok {
		t.Fatal("alignment disabled, no epoch expected")
	}
	ft, _ := exp.First(fictrac.Tag)
	if ts := ft.AlignedTimestamps(); ts[0] != 5_000_000 {
		t.Fatalf("timestamps shifted despite NoAlign: %d", ts[0])
	}
}

func TestScanDeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	testfiles.FulltracCSV(t, dir, "fulltrac.csv", 5_000_000, 10, 1_000_000)
	testfiles.VRPosCSV(t, dir, "vr_position.csv", 2_000_000, 10, 1_000_000)
	testfiles.Write(t, dir, "garbage.csv", "not,a,known\nlayout,at,all\n")

	cat := builtins(t)
	a, err := Scan(context.Background(), cat, dir, Options{Workers: 1})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	b, err := Scan(context.Background(), cat, dir, Options{Workers: 8})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if a.ID == b.ID {
		t.Error("distinct scans should get distinct identities")
	}

	pathsOf := func(e *Experiment) []string {
		var out []string
		for _, it := range e.All() {
			out = append(out, it.Path())
		}
		return out
	}
	pa, pb := pathsOf(a), pathsOf(b)
	if len(pa) != len(pb) {
		t.Fatalf("interpreter counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("interpreter order diverged at %d: %s vs %s", i, pa[i], pb[i])
		}
		if a.All()[i].EpochOffset() != b.All()[i].EpochOffset() {
			t.Fatalf("epoch offsets diverged for %s", pa[i])
		}
	}
	ea, _ := a.Epoch()
	eb, _ := b.Epoch()
	if ea != eb {
		t.Fatalf("epochs diverged: %d vs %d", ea, eb)
	}
	if len(a.Diagnostics().Unclassified) != len(b.Diagnostics().Unclassified) {
		t.Fatal("diagnostics diverged between runs")
	}
}

func TestScanReportsDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	// Valid fulltrac header, but the second record goes back in time.
	bad := strings.Join(fictrac.Columns, ",") + "\n" +
		"100" + strings.Repeat(",0", len(fictrac.Columns)-1) + "\n" +
		"50" + strings.Repeat(",0", len(fictrac.Columns)-1) + "\n"
	testfiles.Write(t, dir, "fulltrac.csv", bad)

	exp, err := Scan(context.Background(), builtins(t), dir, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(exp.All()) != 0 {
		t.Fatal("corrupt log must not become an interpreter")
	}
	errored := exp.Diagnostics().Errored
	if len(errored) != 1 {
		t.Fatalf("want 1 errored file, got %+v", exp.Diagnostics())
	}
	var corrupt *registry.CorruptLogError
	if !errors.As(errored[0].Err, &corrupt) {
		t.Fatalf("diagnostic error is %T, want CorruptLogError", errored[0].Err)
	}
}

// anyCSV matches every .csv file, for forcing ambiguity.
type anyCSV struct{}

func (anyCSV) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	return true, ""
}

type rawDecoder struct{}

func (rawDecoder) Decode(path string) (*model.Table, error) { return tableio.Decode(path) }

func TestScanReportsAmbiguity(t *testing.T) {
	cat, err := format.NewCatalog(
		format.Entry{Tag: "alpha", Classifier: anyCSV{}, Decoder: rawDecoder{}},
		format.Entry{Tag: "beta", Classifier: anyCSV{}, Decoder: rawDecoder{}},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	dir := t.TempDir()
	testfiles.Write(t, dir, "either.csv", "timestamp,v\n100,1\n")

	exp, err := Scan(context.Background(), cat, dir, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(exp.All()) != 0 {
		t.Fatal("ambiguous file must not be collected")
	}
	amb := exp.Diagnostics().Ambiguous
	if len(amb) != 1 || len(amb[0].Tags) != 2 {
		t.Fatalf("want one ambiguous file with two tags, got %+v", amb)
	}
}

func TestScanCancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 8; i++ {
		testfiles.FulltracCSV(t, dir, filepath.Join("part", "fulltrac_"+strings.Repeat("x", i)+".csv"), 1_000_000, 3, 1_000_000)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exp, err := Scan(ctx, builtins(t), dir, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if exp == nil || !exp.Partial {
		t.Fatal("cancelled scan must return a partial experiment")
	}
}

func TestScanProbesParentWhenRootIsEmpty(t *testing.T) {
	parent := t.TempDir()
	session := filepath.Join(parent, "session-001")
	if err := os.MkdirAll(session, 0o755); err != nil {
		t.Fatal(err)
	}
	testfiles.FulltracCSV(t, parent, "fulltrac.csv", 1_000_000, 5, 1_000_000)

	exp, err := Scan(context.Background(), builtins(t), session, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, ok := exp.First(fictrac.Tag); !ok {
		t.Fatal("sibling log beside the session root not found")
	}
}

func TestScanRootMayBeADataFile(t *testing.T) {
	dir := t.TempDir()
	path := testfiles.FulltracCSV(t, dir, "fulltrac.csv", 1_000_000, 5, 1_000_000)
	testfiles.VRPosCSV(t, dir, "vr_position.csv", 1_000_000, 5, 1_000_000)

	exp, err := Scan(context.Background(), builtins(t), path, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if exp.Root != dir {
		t.Fatalf("root = %s, want containing directory %s", exp.Root, dir)
	}
	if len(exp.All()) != 2 {
		t.Fatalf("want both logs in the containing directory, got %d", len(exp.All()))
	}
}

func TestScanTerminatesOnSymlinkCycle(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(dir, filepath.Join(sub, "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	testfiles.FulltracCSV(t, dir, "fulltrac.csv", 1_000_000, 5, 1_000_000)

	exp, err := Scan(context.Background(), builtins(t), dir, Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := len(exp.ByTag(fictrac.Tag)); got != 1 {
		t.Fatalf("file reachable through the cycle collected %d times", got)
	}
}
