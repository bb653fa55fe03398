// Package events handles the experiment event log: sparse timestamped
// markers (bar setting, temperature setpoints, imaging triggers) with
// free-text messages.
package events

import (
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies experiment event logs.
const Tag = registry.TypeTag("events")

// Columns is the required event log column set.
var Columns = []string{
	"timestamp",
	"Event type",
	"Event message",
}

// Event type groupings mirrored from the experiment logic node.
var (
	ScanImageEvents = []string{"AcquisitionPeriod", "SetPmtsScanImage", "StopAcqScanImage"}
	BarEvents       = []string{"BarSet", "JumpOffsetDegrees"}
)

// TemperatureSetEvent marks a commanded bath temperature change.
const TemperatureSetEvent = "WarnerTemperatureSet"

// Classifier accepts .csv files carrying the event columns.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	if !tableio.HasColumns(path, Columns) {
		return false, "header missing event columns"
	}
	return true, ""
}

// Decoder parses the table and NFC-normalizes the text columns, since
// event messages carry operator-entered text.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	table, err := tableio.Decode(path)
	if err != nil {
		return nil, err
	}
	records := table.Records()
	for i, r := range records {
		fields := make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			if s, ok := v.(string); ok {
				fields[k] = norm.NFC.String(s)
			} else {
				fields[k] = v
			}
		}
		records[i].Fields = fields
	}
	return model.NewTable(table.Path(), table.Columns(), records)
}

// Facets: companion files live one level above the data file. Event
// logs carry no time-base; their rows are sparse markers, not a
// session-spanning series.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages:    []string{"eternarig_experiment_logic"},
			Executables: map[string][]string{"eternarig_experiment_logic": {"sct_sutter_bar"}},
		},
		Version: &facet.VersionPin{
			Package:     "eternarig_experiment_logic",
			Repo:        "eternarig_experiment_logic",
			Branch:      "sct_eternarig_dev",
			Executables: []string{"sct_sutter_bar"},
			CommitTime:  "2024-11-17 18:06:25-05:00",
		},
		SearchUp: true,
	}
}

// Log is the typed view over an event table.
type Log struct {
	table *model.Table
}

// View wraps a decoded event table.
func View(table *model.Table) *Log { return &Log{table: table} }

// All returns every event record in order.
func (l *Log) All() []model.Record { return l.table.Records() }

func (l *Log) ofTypes(types ...string) []model.Record {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []model.Record
	for _, r := range l.table.Records() {
		if t, ok := r.String("Event type"); ok && want[t] {
			out = append(out, r)
		}
	}
	return out
}

// Bar returns bar placement and jump events.
func (l *Log) Bar() []model.Record { return l.ofTypes(BarEvents...) }

// TemperatureSets returns commanded temperature changes.
func (l *Log) TemperatureSets() []model.Record { return l.ofTypes(TemperatureSetEvent) }

// ScanImage returns imaging acquisition events.
func (l *Log) ScanImage() []model.Record { return l.ofTypes(ScanImageEvents...) }
