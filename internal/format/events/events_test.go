package events

import (
	"testing"

	"github.com/crimson-sun/rigtrac/internal/testfiles"
)

func TestClassifier(t *testing.T) {
	dir := t.TempDir()
	good := testfiles.EventsCSV(t, dir, "events.csv", 0, [][2]string{{"BarSet", "90"}})
	if ok, reason := (Classifier{}).Valid(good); !ok {
		t.Fatalf("expected event log to classify, got %q", reason)
	}
	other := testfiles.Write(t, dir, "other.csv", "timestamp,a\n1,2\n")
	if ok, _ := (Classifier{}).Valid(other); ok {
		t.Fatal("plain csv must not classify as events")
	}
}

func TestEventFiltering(t *testing.T) {
	dir := t.TempDir()
	path := testfiles.EventsCSV(t, dir, "events.csv", 0, [][2]string{
		{"BarSet", "90"},
		{"WarnerTemperatureSet", "30"},
		{"AcquisitionPeriod", "start"},
		{"JumpOffsetDegrees", "180"},
		{"SomethingElse", "noise"},
	})

	table, err := (Decoder{}).Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	l := View(table)

	if got := len(l.All()); got != 5 {
		t.Fatalf("expected 5 events, got %d", got)
	}
	if got := len(l.Bar()); got != 2 {
		t.Fatalf("expected 2 bar events, got %d", got)
	}
	if got := len(l.TemperatureSets()); got != 1 {
		t.Fatalf("expected 1 temperature event, got %d", got)
	}
	if got := len(l.ScanImage()); got != 1 {
		t.Fatalf("expected 1 scanimage event, got %d", got)
	}
}

func TestDecoderNormalizesMessages(t *testing.T) {
	dir := t.TempDir()
	// "e" followed by a combining acute accent; NFC composes it to é.
	decomposed := "café"
	path := testfiles.EventsCSV(t, dir, "events.csv", 0, [][2]string{{"BarSet", decomposed}})

	table, err := (Decoder{}).Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	msg, ok := table.Record(0).String("Event message")
	if !ok {
		t.Fatal("expected message field")
	}
	if msg != "café" {
		t.Fatalf("expected NFC-composed message, got %q", msg)
	}
}
