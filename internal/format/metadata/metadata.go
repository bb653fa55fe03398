// Package metadata handles the session metadata JSON file: a single
// object of free-form acquisition details, decoded to one record at
// timestamp zero.
package metadata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Tag identifies session metadata files.
const Tag = registry.TypeTag("metadata")

// Classifier accepts .json files named as metadata.
type Classifier struct{}

func (Classifier) Valid(path string) (bool, string) {
	if filepath.Ext(path) != ".json" {
		return false, "not a .json file"
	}
	if !strings.Contains(filepath.Base(path), "metadata") {
		return false, "filename lacks metadata marker"
	}
	return true, ""
}

// Decoder reads the metadata object into a single record.
type Decoder struct{}

func (Decoder) Decode(path string) (*model.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: -1, Reason: "open failed", Err: err}
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &registry.CorruptLogError{Path: path, Offset: -1, Reason: "unparseable JSON", Err: err}
	}

	cols := make([]string, 0, len(fields))
	for k := range fields {
		cols = append(cols, k)
	}
	record := model.Record{Timestamp: 0, Fields: fields}
	return model.NewTable(path, cols, []model.Record{record})
}

// Facets: metadata files carry no provenance companions and no
// time-base.
func Facets() facet.Want { return facet.Want{} }

// Doc is the typed view over a metadata table.
type Doc struct {
	table *model.Table
}

// View wraps a decoded metadata table.
func View(table *model.Table) *Doc { return &Doc{table: table} }

// Fields returns the metadata object.
func (d *Doc) Fields() map[string]any {
	if d.table.Len() == 0 {
		return nil
	}
	return d.table.Record(0).Fields
}
