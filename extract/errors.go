package extract

import "errors"

var (
	// ErrUnsupportedSource indicates no registered extractor matches the
	// (format, source type) pair and the registry has no fallback.
	ErrUnsupportedSource = errors.New("no extractor for source")

	// ErrSourceUnreadable indicates the whole source could not be read.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrNoTranscriber indicates a media source was routed to an extractor
	// with no OCR/ASR capability configured.
	ErrNoTranscriber = errors.New("no transcriber configured")
)
