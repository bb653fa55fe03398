package rigtrac

import (
	"context"
	"fmt"

	"github.com/crimson-sun/rigtrac/internal/experiment"
	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format/all"
	"github.com/crimson-sun/rigtrac/internal/interp"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Diagnostic describes one file the scan excluded from the collection,
// and why.
type Diagnostic struct {
	Path   string
	Reason string
	Tags   []string
}

// Experiment is a loaded recording session.
type Experiment struct {
	exp  *experiment.Experiment
	opts options
}

// Open scans dir and returns the collated experiment. Registry
// misconfiguration is the only fatal error class; per-file problems
// land in Diagnostics instead. A cancelled context returns the partial
// experiment alongside the context's error.
func Open(ctx context.Context, dir string, opts ...Option) (*Experiment, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cat, err := all.Catalog()
	if err != nil {
		return nil, fmt.Errorf("rigtrac: %w", err)
	}

	exp, err := experiment.Scan(ctx, cat, dir, experiment.Options{
		Workers: o.workers,
		NoAlign: o.noAlign,
	})
	if exp == nil {
		return nil, fmt.Errorf("rigtrac: %w", err)
	}
	return &Experiment{exp: exp, opts: o}, err
}

// ID returns the scan identity, unique per Open call.
func (e *Experiment) ID() string { return e.exp.ID.String() }

// Root returns the scanned directory.
func (e *Experiment) Root() string { return e.exp.Root }

// Partial reports whether the scan was cancelled before completing.
func (e *Experiment) Partial() bool { return e.exp.Partial }

// Tags returns the matched log types, in path order of first appearance.
func (e *Experiment) Tags() []string {
	tags := e.exp.Tags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// Interpreters returns the loaded logs of one type, path-sorted.
func (e *Experiment) Interpreters(tag string) []*Interpreter {
	list := e.exp.ByTag(registry.TypeTag(tag))
	out := make([]*Interpreter, len(list))
	for i, it := range list {
		out[i] = &Interpreter{it: it}
	}
	return out
}

// Epoch returns the session time-base epoch in nanoseconds since the
// Unix epoch; ok is false when no matched log carries a time-base.
func (e *Experiment) Epoch() (int64, bool) { return e.exp.Epoch() }

// Unclassified returns files no classifier matched.
func (e *Experiment) Unclassified() []Diagnostic {
	return diagnostics(e.exp.Diagnostics().Unclassified)
}

// Ambiguous returns files more than one classifier matched.
func (e *Experiment) Ambiguous() []Diagnostic {
	return diagnostics(e.exp.Diagnostics().Ambiguous)
}

// Errored returns matched files that failed to decode.
func (e *Experiment) Errored() []Diagnostic {
	return diagnostics(e.exp.Diagnostics().Errored)
}

func diagnostics(in []experiment.FileDiagnostic) []Diagnostic {
	out := make([]Diagnostic, len(in))
	for i, d := range in {
		reason := d.Reason
		if d.Err != nil {
			reason = fmt.Sprintf("%s: %v", d.Reason, d.Err)
		}
		tags := make([]string, len(d.Tags))
		for j, t := range d.Tags {
			tags[j] = string(t)
		}
		out[i] = Diagnostic{Path: d.Path, Reason: reason, Tags: tags}
	}
	return out
}

// Interpreter is the facade over one loaded log file.
type Interpreter struct {
	it *interp.Interpreter
}

// Tag returns the log type.
func (i *Interpreter) Tag() string { return string(i.it.Tag()) }

// Path returns the source file.
func (i *Interpreter) Path() string { return i.it.Path() }

// Len returns the record count.
func (i *Interpreter) Len() int { return i.it.Table().Len() }

// Timestamps returns raw record timestamps in nanoseconds.
func (i *Interpreter) Timestamps() []int64 { return i.it.Table().Timestamps() }

// AlignedTimestamps returns record timestamps shifted onto the session
// epoch.
func (i *Interpreter) AlignedTimestamps() []int64 { return i.it.AlignedTimestamps() }

// Record returns the timestamp and field map at index idx.
func (i *Interpreter) Record(idx int) (int64, map[string]any) {
	r := i.it.Table().Record(idx)
	return r.Timestamp, r.Fields
}

// Facet kind names for HasFacet.
const (
	FacetConfig   = string(facet.KindConfigProvenance)
	FacetVersion  = string(facet.KindVersionProvenance)
	FacetTimeBase = string(facet.KindTimeBase)
)

// HasFacet reports whether a capability facet is attached. Probing is
// always safe, whatever the log type.
func (i *Interpreter) HasFacet(kind string) bool {
	return i.it.Has(facet.Kind(kind))
}

// TimeBase returns the log's start and end timestamps in nanoseconds.
func (i *Interpreter) TimeBase() (start, end int64, ok bool) {
	tb, ok := i.it.Facets().TimeBase()
	if !ok {
		return 0, 0, false
	}
	return tb.Start, tb.End, true
}

// ConfigFile returns the companion configuration file path.
func (i *Interpreter) ConfigFile() (string, bool) {
	c, ok := i.it.Facets().Config()
	if !ok {
		return "", false
	}
	return c.Path, true
}

// Version returns the producing software's commit identifier and any
// compatibility warnings.
func (i *Interpreter) Version() (commit string, warnings []string, ok bool) {
	v, ok := i.it.Facets().Version()
	if !ok {
		return "", nil, false
	}
	return v.Commit, append([]string(nil), v.Warnings...), true
}
