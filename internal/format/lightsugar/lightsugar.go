// Package lightsugar handles the light/sugar stimulus driver log:
// feeding and laser actuation state sampled over time.
package lightsugar

import (
	"path/filepath"
	"strings"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies light/sugar driver logs.
const Tag = registry.TypeTag("light-sugar")

// Stimulus state columns. The driver writes booleans, but the exact
// cell spelling varies between rig revisions (0/1 or True/False), so
// accessors go through active rather than Floats.
const (
	FeedColumn    = "sugar_feed_active"
	LaserConstCol = "laser_const_set_active"
	LaserExpCol   = "laser_exponential_set_active"
)

// Classifier accepts .csv files named for the driver.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	if !strings.Contains(filepath.Base(path), "light_sugar_driver") {
		return false, "filename lacks light_sugar_driver marker"
	}
	return true, ""
}

// Decoder parses the full table.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	return tableio.Decode(path)
}

// Facets declares light/sugar capabilities: companion config only, no
// version pin and no time-base.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages:    []string{"light_sugar_driver"},
			Executables: map[string][]string{"light_sugar_driver": {"light_sugar_driver_node"}},
		},
	}
}

// Stimulus is the typed view over a light/sugar driver table.
type Stimulus struct {
	table *model.Table
}

// View wraps a decoded light/sugar table.
func View(table *model.Table) *Stimulus { return &Stimulus{table: table} }

// Timestamps returns raw record timestamps in nanoseconds.
func (s *Stimulus) Timestamps() []int64 { return s.table.Timestamps() }

// FeedingEvents returns the records where sugar feeding was active.
func (s *Stimulus) FeedingEvents() []model.Record {
	return s.activeRows(FeedColumn)
}

// LaserEvents returns the records where either laser program was
// active.
func (s *Stimulus) LaserEvents() []model.Record {
	var out []model.Record
	for _, r := range s.table.Records() {
		if active(r, LaserConstCol) || active(r, LaserExpCol) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Stimulus) activeRows(col string) []model.Record {
	var out []model.Record
	for _, r := range s.table.Records() {
		if active(r, col) {
			out = append(out, r)
		}
	}
	return out
}

// active reads a boolean-ish cell: nonzero numbers and true/True
// spellings count as set.
func active(r model.Record, col string) bool {
	if f, ok := r.Float(col); ok {
		return f != 0
	}
	if s, ok := r.String(col); ok {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}
