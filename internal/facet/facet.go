// Package facet implements the optional cross-cutting features a log
// interpreter may carry: configuration provenance, version provenance,
// and the session time-base. Extraction logic is shared; a format opts
// in by declaring what it wants, and a missing companion file simply
// leaves the facet absent. Absence is a queryable state, not an error.
package facet

// Kind names one capability facet.
type Kind string

const (
	KindConfigProvenance  Kind = "config-provenance"
	KindVersionProvenance Kind = "version-provenance"
	KindTimeBase          Kind = "time-base"
)

// Set is the read-only facet collection attached to one interpreter.
// Probe with Has before using the typed getters; getters return ok=false
// for absent facets and never panic.
type Set struct {
	config   *ConfigProvenance
	version  *VersionProvenance
	timeBase *TimeBase
}

// Has reports whether the facet of the given kind is attached.
func (s *Set) Has(k Kind) bool {
	if s == nil {
		return false
	}
	switch k {
	case KindConfigProvenance:
		return s.config != nil
	case KindVersionProvenance:
		return s.version != nil
	case KindTimeBase:
		return s.timeBase != nil
	default:
		return false
	}
}

// Config returns the configuration-provenance facet.
func (s *Set) Config() (*ConfigProvenance, bool) {
	if s == nil || s.config == nil {
		return nil, false
	}
	return s.config, true
}

// Version returns the version-provenance facet.
func (s *Set) Version() (*VersionProvenance, bool) {
	if s == nil || s.version == nil {
		return nil, false
	}
	return s.version, true
}

// TimeBase returns the session time-base facet.
func (s *Set) TimeBase() (*TimeBase, bool) {
	if s == nil || s.timeBase == nil {
		return nil, false
	}
	return s.timeBase, true
}

// Want declares which facets a log type supports and how to extract
// them. Zero value supports nothing.
type Want struct {
	Config   *ConfigSpec
	Version  *VersionPin
	TimeBase bool

	// SearchUp widens companion-file discovery to the data file's
	// grandparent directory, for formats whose logs sit one level
	// below the session directory.
	SearchUp bool
}

// Extract builds the facet set for one data file. Each wanted facet is
// extracted independently; any failure to locate or parse a companion
// file leaves that facet absent.
func Extract(path string, want Want) *Set {
	s := &Set{}
	if want.Config != nil {
		s.config = extractConfig(path, want.Config, want.SearchUp)
	}
	if want.Version != nil {
		s.version = extractVersion(path, want.Version, want.SearchUp)
	}
	if want.TimeBase {
		s.timeBase = extractTimeBase(path)
	}
	return s
}
