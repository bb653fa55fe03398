package projector

import (
	"errors"
	"testing"

	"github.com/crimson-sun/rigtrac/internal/registry"
	"github.com/crimson-sun/rigtrac/internal/testfiles"
)

func TestClassifier(t *testing.T) {
	dir := t.TempDir()
	good := testfiles.Write(t, dir, "projector_bar_specifications.yaml", "start_bar_in_front: 1.57\n")
	if ok, reason := (Classifier{}).Valid(good); !ok {
		t.Fatalf("expected projector spec to classify, got %q", reason)
	}
	other := testfiles.Write(t, dir, "session_config.yaml", "compiled_config: {}\n")
	if ok, _ := (Classifier{}).Valid(other); ok {
		t.Fatal("unrelated yaml must not classify as a projector spec")
	}
}

func TestSpecFormatDetection(t *testing.T) {
	dir := t.TempDir()

	current := testfiles.Write(t, dir, "projector_bar_specifications.yaml",
		"start_bar_in_front: 1.57\nbar_width: 30\n")
	table, err := (Decoder{}).Decode(current)
	if err != nil {
		t.Fatal(err)
	}
	spec := View(table)
	if spec.OldFormat() {
		t.Fatal("spec with start_bar_in_front is the current format")
	}
	angle, ok := spec.StartBarInFront()
	if !ok || angle != 1.57 {
		t.Fatalf("expected start angle 1.57, got %v ok=%v", angle, ok)
	}
	if v, ok := spec.Field("bar_width"); !ok || v != 30 {
		t.Fatalf("expected bar_width field, got %v ok=%v", v, ok)
	}

	old := testfiles.Write(t, dir, "old/projector_bar_specifications.yaml", "bar_width: 30\n")
	table, err = (Decoder{}).Decode(old)
	if err != nil {
		t.Fatal(err)
	}
	if !View(table).OldFormat() {
		t.Fatal("spec without start_bar_in_front is the old format")
	}
}

func TestDecodeCorruptYAML(t *testing.T) {
	dir := t.TempDir()
	path := testfiles.Write(t, dir, "projector_bar_specifications.yaml", ":\t[not yaml\n")
	_, err := (Decoder{}).Decode(path)
	var corrupt *registry.CorruptLogError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptLogError, got %v", err)
	}
}
