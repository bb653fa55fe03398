// Package picopump handles the MCC-driven picopump actuation log.
package picopump

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/tableio"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies picopump logs.
const Tag = registry.TypeTag("picopump")

// Classifier accepts .csv files named for the pump. The pump column
// name varies between rig revisions, so the probe stays on the
// filename and the decoder discovers the column.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".csv" {
		return false, "not a .csv file"
	}
	if !strings.Contains(filepath.Base(path), "picopump") {
		return false, "filename lacks picopump marker"
	}
	return true, ""
}

// Decoder parses the full table.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	return tableio.Decode(path)
}

// Facets declares picopump capabilities.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages: []string{"mcc_driver"},
			Executables: map[string][]string{
				"mcc_driver": {"warner_temp_control", "mcc1208fs_adio"},
			},
		},
		Version: &facet.VersionPin{
			Package:     "mcc_driver",
			Repo:        "mcc_driver",
			Branch:      "sct_dev",
			Executables: []string{"mcc1208fs_adio"},
			CommitTime:  "2024-04-14 19:00:43-04:00",
		},
		TimeBase: true,
	}
}

// Pump is the typed view over a picopump table.
type Pump struct {
	table  *model.Table
	column string
}

// View wraps a decoded picopump table, locating the pump column by its
// name marker.
func View(table *model.Table) (*Pump, error) {
	for _, c := range table.Columns() {
		if strings.Contains(c, "picopump") {
			return &Pump{table: table, column: c}, nil
		}
	}
	return nil, fmt.Errorf("picopump view: table %s has no picopump column", table.Path())
}

// Timestamps returns raw record timestamps in nanoseconds.
func (p *Pump) Timestamps() []int64 { return p.table.Timestamps() }

// Flow returns the pump actuation series.
func (p *Pump) Flow() []float64 {
	v, _ := p.table.Floats(p.column)
	return v
}
