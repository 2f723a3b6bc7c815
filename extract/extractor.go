// Package extract resolves document sources into ordered text units.
//
// An Extractor turns a source URI into ordered (text, metadata) units, one
// per natural segment of the source (a PDF page, a web article, a raw
// text). Unit-level failures are represented in-band as an empty text with
// an "extraction_error" metadata entry so the orchestrator can apply its
// partial-success policy; whole-source failures (missing file, corrupt
// container) are returned as errors and fail the job.
package extract

import (
	"context"

	"github.com/bharatrag/bharatrag/core"
)

// MetaError is the metadata key carrying a unit-level failure cause.
const MetaError = "extraction_error"

// MetaMethod is the metadata key naming the extractor that produced a unit.
const MetaMethod = "extraction_method"

// Unit is one segment emitted by an Extractor.
type Unit struct {
	Text     string
	Metadata map[string]string
}

// Failed reports whether the unit is a unit-level failure marker.
func (u Unit) Failed() bool {
	return u.Text == "" && u.Metadata[MetaError] != ""
}

// FailedUnit builds a unit-level failure marker for the given cause,
// merging any extra metadata.
func FailedUnit(cause string, meta map[string]string) Unit {
	m := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		m[k] = v
	}
	m[MetaError] = cause
	return Unit{Metadata: m}
}

// Extractor is the capability contract for turning a source URI into
// ordered text units.
type Extractor interface {
	// Supports reports whether this extractor handles the given
	// (format, source type) pair.
	Supports(format string, sourceType core.SourceType) bool

	// Extract resolves the URI into ordered units. Unit-level failures are
	// returned in-band (Unit.Failed); an error means the whole source is
	// unreadable.
	Extract(ctx context.Context, uri string) ([]Unit, error)
}
