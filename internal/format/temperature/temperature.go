// Package temperature handles the Warner bath temperature controller
// readback log.
package temperature

import (
	"path/filepath"
	"strings"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies Warner temperature readback logs.
const Tag = registry.TypeTag("warner-temperature")

// VoltageColumn holds the controller's analog readback.
const VoltageColumn = "Temperature (C)_0_voltage"

// Columns is the required temperature log column set.
var Columns = []string{
	"timestamp",
	"frame_id",
	"Temperature (C)_0_channel_idx",
	VoltageColumn,
}

// voltsPerDegree is the controller's monitor scaling: 100 mV per °C.
const voltsPerDegree = 0.1

// Classifier accepts readback files only ("read" in the name keeps the
// setpoint command log from matching) whose header carries the
// temperature columns.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	if !strings.Contains(filepath.Base(path), "read") {
		return false, "not a readback log"
	}
	if !tableio.HasColumns(path, Columns) {
		return false, "header missing temperature columns"
	}
	return true, ""
}

// Decoder parses the full table.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	return tableio.Decode(path)
}

// Facets declares temperature log capabilities.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages:    []string{"mcc_driver"},
			Executables: map[string][]string{"mcc_driver": {"warner_temp_control"}},
		},
		Version: &facet.VersionPin{
			Package:     "mcc_driver",
			Repo:        "mcc_driver",
			Branch:      "sct_dev",
			Executables: []string{"warner_temp_control"},
			CommitTime:  "2023-01-06 14:18:25-05:00",
		},
		TimeBase: true,
	}
}

// Readback is the typed view over a temperature table.
type Readback struct {
	table *model.Table
}

// View wraps a decoded temperature table.
func View(table *model.Table) *Readback { return &Readback{table: table} }

// Timestamps returns raw record timestamps in nanoseconds.
func (r *Readback) Timestamps() []int64 { return r.table.Timestamps() }

// Volts returns the raw analog readback series.
func (r *Readback) Volts() []float64 {
	v, _ := r.table.Floats(VoltageColumn)
	return v
}

// DegreesC returns the bath temperature in °C, converted from the
// monitor voltage.
func (r *Readback) DegreesC() []float64 {
	v := r.Volts()
	out := make([]float64, len(v))
	for i, volts := range v {
		out[i] = volts / voltsPerDegree
	}
	return out
}
