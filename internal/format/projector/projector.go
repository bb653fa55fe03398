// Package projector handles the projector bar specification file, a
// one-shot YAML document rather than a time series. It decodes to a
// single record at timestamp zero carrying the specification fields.
package projector

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies projector bar specification files.
const Tag = registry.TypeTag("projector")

// NameMarker distinguishes the spec file among the session's YAML
// files.
const NameMarker = "projector_bar_specifications"

// startBarKey is present only in the current spec layout; its absence
// marks an old-format file.
const startBarKey = "start_bar_in_front"

// Classifier accepts .yaml files named as projector bar specs.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".yaml" {
		return false, "not a .yaml file"
	}
	if !strings.Contains(filepath.Base(path), NameMarker) {
		return false, "filename lacks projector spec marker"
	}
	return true, ""
}

// Decoder reads the spec document into a single record.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: -1, Reason: "open failed", Err: err}
	}
	var spec map[string]any
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: -1, Reason: "unparseable YAML", Err: err}
	}

	cols := make([]string, 0, len(spec))
	for k := range spec {
		cols = append(cols, k)
	}
	record := model.Record{Timestamp: 0, Fields: spec}
	return model.NewTable(path, cols, []model.Record{record})
}

// Facets declares projector capabilities. No time-base: the spec file
// is not a time series.
func Facets() facet.Want {
	return facet.Want{
		Config: &facet.ConfigSpec{
			Packages: []string{"projector_driver", "dlpc_projector_settings"},
			Executables: map[string][]string{
				"projector_driver":        {"projector_bar"},
				"dlpc_projector_settings": {"dlpc_projector_settings"},
			},
		},
		Version: &facet.VersionPin{
			Package:     "projector_driver",
			Repo:        "projector_driver",
			Branch:      "set_parameters_executable",
			Executables: []string{"projector_bar", "dlpc_projector_settings"},
			CommitTime:  "2023-01-06 14:28:51-05:00",
		},
	}
}

// Spec is the typed view over a projector spec table.
type Spec struct {
	table *model.Table
}

// View wraps a decoded projector spec.
func View(table *model.Table) *Spec { return &Spec{table: table} }

// OldFormat reports whether the file predates the current spec layout.
func (s *Spec) OldFormat() bool {
	if s.table.Len() == 0 {
		return true
	}
	_, ok := s.table.Record(0).Fields[startBarKey]
	return !ok
}

// StartBarInFront returns the configured initial bar angle in radians.
func (s *Spec) StartBarInFront() (float64, bool) {
	if s.table.Len() == 0 {
		return 0, false
	}
	return s.table.Record(0).Float(startBarKey)
}

// Field returns an arbitrary specification value.
func (s *Spec) Field(name string) (any, bool) {
	if s.table.Len() == 0 {
		return nil, false
	}
	v, ok := s.table.Record(0).Fields[name]
	return v, ok
}
