// Package all assembles the built-in format catalog.
package all

import (
	"github.com/crimson-sun/rigtrac/internal/format"
	"github.com/crimson-sun/rigtrac/internal/format/events"
	"github.com/crimson-sun/rigtrac/internal/format/fictrac"
	"github.com/crimson-sun/rigtrac/internal/format/lightsugar"
	"github.com/crimson-sun/rigtrac/internal/format/metadata"
	"github.com/crimson-sun/rigtrac/internal/format/picopump"
	"github.com/crimson-sun/rigtrac/internal/format/projector"
	"github.com/crimson-sun/rigtrac/internal/format/temperature"
	"github.com/crimson-sun/rigtrac/internal/format/vrpos"
)

// Entries returns every built-in format in classification priority
// order: filename-marker probes run before probes that must read a CSV
// header, so cheap signals are always tried first.
func Entries() []format.Entry {
	return []format.Entry{
		{Tag: projector.Tag, Classifier: projector.Classifier{}, Decoder: projector.Decoder{}, Facets: projector.Facets()},
		{Tag: metadata.Tag, Classifier: metadata.Classifier{}, Decoder: metadata.Decoder{}, Facets: metadata.Facets()},
		{Tag: picopump.Tag, Classifier: picopump.Classifier{}, Decoder: picopump.Decoder{}, Facets: picopump.Facets()},
		{Tag: lightsugar.Tag, Classifier: lightsugar.Classifier{}, Decoder: lightsugar.Decoder{}, Facets: lightsugar.Facets()},
		{Tag: temperature.Tag, Classifier: temperature.Classifier{}, Decoder: temperature.Decoder{}, Facets: temperature.Facets()},
		{Tag: events.Tag, Classifier: events.Classifier{}, Decoder: events.Decoder{}, Facets: events.Facets()},
		{Tag: vrpos.Tag, Classifier: vrpos.Classifier{}, Decoder: vrpos.Decoder{}, Facets: vrpos.Facets()},
		{Tag: fictrac.Tag, Classifier: fictrac.Classifier{}, Decoder: fictrac.Decoder{}, Facets: fictrac.Facets()},
	}
}

// Catalog builds the default catalog from Entries.
func Catalog() (*format.Catalog, error) {
	return format.NewCatalog(Entries()...)
}
