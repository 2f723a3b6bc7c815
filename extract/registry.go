package extract

import (
	"log/slog"

	"github.com/bharatrag/bharatrag/core"
)

// Registry resolves a (format, source type) pair to an Extractor by
// first match over an ordered list. Whether an unmatched pair falls back
// to the raw whole-text extractor is an explicit policy choice made at
// construction, not a hard-coded default.
type Registry struct {
	extractors []Extractor
	fallback   Extractor
	logger     *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFallback sets the extractor used when no registered extractor
// matches. Pass nil to make unmatched pairs an error.
func WithFallback(e Extractor) RegistryOption {
	return func(r *Registry) {
		r.fallback = e
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRegistry creates a registry over the given extractors, consulted in
// order. By default there is no fallback.
func NewRegistry(extractors []Extractor, opts ...RegistryOption) *Registry {
	r := &Registry{
		extractors: extractors,
		logger:     slog.Default().With("component", "extraction-registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry creates a registry with the built-in extractors
// (text, pdf, web, media) and the raw whole-text fallback enabled,
// matching the behavior documents expect out of the box. The media
// extractor is registered without a Transcriber, so image and audio/video
// sources resolve to it and fail with ErrNoTranscriber instead of having
// their raw bytes ingested by the fallback; pass a transcriber-backed
// registry to enable them.
func NewDefaultRegistry(opts ...RegistryOption) *Registry {
	extractors := []Extractor{
		NewText(),
		NewPDF(),
		NewWeb(),
		NewMedia(nil),
	}
	base := []RegistryOption{WithFallback(NewRaw())}
	return NewRegistry(extractors, append(base, opts...)...)
}

// Resolve returns the first extractor supporting the pair, or the
// fallback. Returns ErrUnsupportedSource when neither exists.
func (r *Registry) Resolve(format string, sourceType core.SourceType) (Extractor, error) {
	for _, e := range r.extractors {
		if e.Supports(format, sourceType) {
			return e, nil
		}
	}
	if r.fallback != nil {
		r.logger.Debug("no extractor matched, using fallback",
			"format", format, "source_type", string(sourceType))
		return r.fallback, nil
	}
	return nil, ErrUnsupportedSource
}
