package registry

// Candidate is one file under consideration during a scan. Probe
// verdicts are memoized per tag so that repeated classification passes
// (Classify for the fast path, ClassifyAll for ambiguity reporting)
// never re-read the file for the same probe.
//
// A Candidate lives only for the duration of classification: once an
// interpreter is built, or the file is confirmed unmatched, it is
// discarded. Not safe for concurrent use; each scan worker owns its
// candidates exclusively.
type Candidate struct {
	Path string
	Size int64

	verdicts map[TypeTag]bool
}

// NewCandidate wraps a discovered file.
func NewCandidate(path string, size int64) *Candidate {
	return &Candidate{Path: path, Size: size}
}

// Matches reports whether the classifier for tag accepts this file,
// probing at most once per tag.
func (c *Candidate) Matches(r *Registry, tag TypeTag) bool {
	if v, seen := c.verdicts[tag]; seen {
		return v
	}
	i, ok := r.byTag[tag]
	if !ok {
		return false
	}
	v := safeValid(tag, r.entries[i].classifier, c.Path)
	if c.verdicts == nil {
		c.verdicts = make(map[TypeTag]bool)
	}
	c.verdicts[tag] = v
	return v
}

// MatchAll probes every registered tag (memoized) and returns the
// matching set in priority order.
func (c *Candidate) MatchAll(r *Registry) []TypeTag {
	var out []TypeTag
	for _, e := range r.entries {
		if c.Matches(r, e.tag) {
			out = append(out, e.tag)
		}
	}
	return out
}
