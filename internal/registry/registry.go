// Package registry maps type tags to classifier/decoder pairs and
// answers "which log type owns this file" without fully parsing it.
package registry

import (
	"log/slog"

	"github.com/crimson-sun/rigtrac/internal/model"
)

// TypeTag identifies one log type. At most one classifier/decoder pair
// owns a given tag.
type TypeTag string

// Classifier decides cheaply whether a file could belong to its type.
// Implementations must be side-effect free, must never panic on
// malformed input, and must read at most a small fixed prefix of the
// file (never a full parse). A negative result may carry a
// human-readable reason for diagnostics.
type Classifier interface {
	Valid(path string) (ok bool, reason string)
}

// Decoder fully parses a file of its type into a Table. Decoding the
// same file twice must yield equal records, and a decoder must not
// assume any other file's presence. Parse failures are reported as
// *CorruptLogError.
type Decoder interface {
	Decode(path string) (*model.Table, error)
}

type entry struct {
	tag        TypeTag
	classifier Classifier
	decoder    Decoder
}

// Registry is an append-only mapping from TypeTag to a classifier and
// decoder. Entries are probed in registration order, so callers
// register the most specific (cheapest) probes first. A Registry is
// built once at process start and passed to Experiment construction;
// it is not safe for concurrent registration, but all read paths are.
type Registry struct {
	entries []entry
	byTag   map[TypeTag]int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byTag: make(map[TypeTag]int)}
}

// Register adds a classifier/decoder pair under tag. Registering a tag
// twice, or registering with a nil classifier or decoder, returns
// *DuplicateTagError / *BadRegistrationError: both are configuration
// errors and fatal to registry construction.
func (r *Registry) Register(tag TypeTag, c Classifier, d Decoder) error {
	if c == nil || d == nil {
		return &BadRegistrationError{Tag: tag}
	}
	if _, dup := r.byTag[tag]; dup {
		return &DuplicateTagError{Tag: tag}
	}
	r.byTag[tag] = len(r.entries)
	r.entries = append(r.entries, entry{tag: tag, classifier: c, decoder: d})
	return nil
}

// Tags returns every registered tag in priority (registration) order.
func (r *Registry) Tags() []TypeTag {
	out := make([]TypeTag, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.tag
	}
	return out
}

// Decoder returns the decoder registered for tag.
func (r *Registry) Decoder(tag TypeTag) (Decoder, bool) {
	i, ok := r.byTag[tag]
	if !ok {
		return nil, false
	}
	return r.entries[i].decoder, true
}

// Classify probes entries in priority order and returns the first tag
// whose classifier accepts the file. The second result is false when no
// classifier matched. Classifier panics are treated as "not this type":
// probes run against arbitrary bytes and must never take the scan down.
func (r *Registry) Classify(path string) (TypeTag, bool) {
	for _, e := range r.entries {
		if safeValid(e.tag, e.classifier, path) {
			return e.tag, true
		}
	}
	return "", false
}

// ClassifyAll probes every entry and returns all tags that accept the
// file, in priority order. Used by collation to detect ambiguity: a
// file matching more than one type is a configuration problem to
// report, not something priority order should paper over.
func (r *Registry) ClassifyAll(path string) []TypeTag {
	var out []TypeTag
	for _, e := range r.entries {
		if safeValid(e.tag, e.classifier, path) {
			out = append(out, e.tag)
		}
	}
	return out
}

// Explain runs the classifier for tag against path and returns its
// verdict plus the rejection reason, for diagnostics output.
func (r *Registry) Explain(tag TypeTag, path string) (ok bool, reason string) {
	i, found := r.byTag[tag]
	if !found {
		return false, "tag not registered"
	}
	defer func() {
		if v := recover(); v != nil {
			ok, reason = false, "classifier panicked"
		}
	}()
	return r.entries[i].classifier.Valid(path)
}

func safeValid(tag TypeTag, c Classifier, path string) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			slog.Warn("classifier panicked during probe",
				"tag", string(tag), "path", path, "panic", v)
			ok = false
		}
	}()
	ok, _ = c.Valid(path)
	return ok
}
