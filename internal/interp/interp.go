// Package interp couples one decoded log table with its capability
// facets behind a uniform accessor surface. Concrete log formats layer
// typed, unit-converted views on top of an Interpreter; experiment
// collation code only ever touches the surface defined here.
package interp

import (
	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Interpreter owns exactly one Table and references a read-only facet
// set. Its identity (tag + source path) is fixed at construction.
type Interpreter struct {
	tag    registry.TypeTag
	path   string
	table  *model.Table
	facets *facet.Set

	// epochOffset shifts record timestamps onto the session's common
	// epoch. Written once by collation before the interpreter is
	// published; zero when the log carries no time-base.
	epochOffset int64
}

// New builds an Interpreter around a decoded table.
func New(tag registry.TypeTag, table *model.Table, facets *facet.Set) *Interpreter {
	if facets == nil {
		facets = &facet.Set{}
	}
	return &Interpreter{tag: tag, path: table.Path(), table: table, facets: facets}
}

// Tag returns the owning log type.
func (it *Interpreter) Tag() registry.TypeTag { return it.tag }

// Path returns the source file.
func (it *Interpreter) Path() string { return it.path }

// Table returns the decoded records.
func (it *Interpreter) Table() *model.Table { return it.table }

// Has reports whether a capability facet is attached. Probing an absent
// facet is always safe; only the typed getters need guarding.
func (it *Interpreter) Has(k facet.Kind) bool { return it.facets.Has(k) }

// Facets returns the attached facet set.
func (it *Interpreter) Facets() *facet.Set { return it.facets }

// SetEpochOffset records the adjustment onto the session epoch. Called
// exactly once, by collation, before the interpreter is exposed.
func (it *Interpreter) SetEpochOffset(off int64) { it.epochOffset = off }

// EpochOffset returns the session-alignment offset in nanoseconds.
func (it *Interpreter) EpochOffset() int64 { return it.epochOffset }

// AlignedTimestamps returns every record timestamp shifted onto the
// session epoch.
func (it *Interpreter) AlignedTimestamps() []int64 {
	ts := it.table.Timestamps()
	if it.epochOffset == 0 {
		return ts
	}
	for i := range ts {
		ts[i] -= it.epochOffset
	}
	return ts
}
