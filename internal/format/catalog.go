// Package format defines the catalog tying each log type's classifier,
// decoder, and facet declaration together. Concrete formats live in
// subpackages; the full built-in set is assembled in format/all.
package format

import (
	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Entry describes one log type: its tag, the classifier/decoder pair,
// and the capability facets the type declares support for.
type Entry struct {
	Tag        registry.TypeTag
	Classifier registry.Classifier
	Decoder    registry.Decoder
	Facets     facet.Want
}

// Catalog is a registry plus the per-tag facet declarations made at
// registration time. Entries keep their given order, which is the
// classification priority order: most specific probes first.
type Catalog struct {
	reg   *registry.Registry
	wants map[registry.TypeTag]facet.Want
}

// NewCatalog registers every entry into a fresh registry. Registration
// errors (duplicate tags, missing classifier or decoder) are fatal and
// abort catalog construction.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	reg := registry.New()
	wants := make(map[registry.TypeTag]facet.Want, len(entries))
	for _, e := range entries {
		if err := reg.Register(e.Tag, e.Classifier, e.Decoder); err != nil {
			return nil, err
		}
		wants[e.Tag] = e.Facets
	}
	return &Catalog{reg: reg, wants: wants}, nil
}

// Registry returns the underlying type registry.
func (c *Catalog) Registry() *registry.Registry { return c.reg }

// Wants returns the facet declaration for tag.
func (c *Catalog) Wants(tag registry.TypeTag) facet.Want { return c.wants[tag] }
