// Package experiment discovers, classifies, decodes, and collates every
// log file belonging to one recording session under a directory tree.
package experiment

import (
	"github.com/google/uuid"

	"github.com/crimson-sun/rigtrac/internal/interp"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// FileDiagnostic records one file the scan could not confidently place:
// unmatched, ambiguous, or failed to decode.
type FileDiagnostic struct {
	Path   string
	Reason string
	Tags   []registry.TypeTag // matching tags, for ambiguous files
	Err    error              // decode error, for errored files
}

// Diagnostics is the full report of files excluded from the main
// collection. Nothing is ever silently dropped: every candidate that
// did not become an interpreter appears in exactly one list.
type Diagnostics struct {
	Unclassified []FileDiagnostic
	Ambiguous    []FileDiagnostic
	Errored      []FileDiagnostic
}

// Experiment is the aggregate of all classified logs found under one
// root: interpreters keyed by type tag (a tag may own several files,
// e.g. split logs), diagnostics, and the session time-base epoch.
// Rebuilt by re-scanning, never persisted or mutated in place.
type Experiment struct {
	ID   uuid.UUID
	Root string

	// Partial is set when the scan was cancelled before completion.
	// A partial experiment holds only the results collected before
	// cancellation and is never merged with any other scan's results.
	Partial bool

	byTag map[registry.TypeTag][]*interp.Interpreter
	all   []*interp.Interpreter // path-sorted
	diags Diagnostics

	epoch     int64
	haveEpoch bool
}

// All returns every interpreter in path-sorted order.
func (e *Experiment) All() []*interp.Interpreter {
	return append([]*interp.Interpreter(nil), e.all...)
}

// ByTag returns the interpreters for one type, path-sorted.
func (e *Experiment) ByTag(tag registry.TypeTag) []*interp.Interpreter {
	return append([]*interp.Interpreter(nil), e.byTag[tag]...)
}

// First returns the first interpreter for tag, for the common case of
// one log per type per session.
func (e *Experiment) First(tag registry.TypeTag) (*interp.Interpreter, bool) {
	list := e.byTag[tag]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// Tags returns the matched type tags in path order of first appearance.
func (e *Experiment) Tags() []registry.TypeTag {
	seen := make(map[registry.TypeTag]bool)
	var out []registry.TypeTag
	for _, it := range e.all {
		if !seen[it.Tag()] {
			seen[it.Tag()] = true
			out = append(out, it.Tag())
		}
	}
	return out
}

// Diagnostics returns the report of files excluded from the collection.
func (e *Experiment) Diagnostics() Diagnostics { return e.diags }

// Epoch returns the session time-base epoch: the earliest start
// timestamp among interpreters carrying a time-base facet. ok is false
// when no matched log carries one.
func (e *Experiment) Epoch() (int64, bool) { return e.epoch, e.haveEpoch }
