package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bharatrag/bharatrag/core"
)

// Transcriber turns audio, video or image sources into text. Callers
// supply an implementation (an ASR service, an OCR engine); the module
// does not ship one.
type Transcriber interface {
	Transcribe(ctx context.Context, path, format string) (string, error)
}

var mediaFormats = map[string]string{
	"png":  "ocr",
	"jpg":  "ocr",
	"jpeg": "ocr",
	"mp3":  "asr",
	"wav":  "asr",
	"mp4":  "asr",
	"mkv":  "asr",
}

// Media extracts text from image and audio/video files through an
// injected Transcriber.
type Media struct {
	transcriber Transcriber
	logger      *slog.Logger
}

var _ Extractor = (*Media)(nil)

// NewMedia creates a media extractor. The transcriber may be nil, in
// which case Extract fails for every source.
func NewMedia(transcriber Transcriber) *Media {
	return &Media{
		transcriber: transcriber,
		logger:      slog.Default().With("component", "media-extractor"),
	}
}

// Supports reports true for known image, audio and video formats.
func (m *Media) Supports(format string, sourceType core.SourceType) bool {
	if sourceType != core.SourceTypeFile {
		return false
	}
	_, ok := mediaFormats[strings.ToLower(format)]
	return ok
}

// Extract transcribes the media file into a single unit.
func (m *Media) Extract(ctx context.Context, uri string) ([]Unit, error) {
	if m.transcriber == nil {
		return nil, ErrNoTranscriber
	}

	path := resolvePath(uri)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	method := mediaFormats[format]

	text, err := m.transcriber.Transcribe(ctx, path, format)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", path, err)
	}

	m.logger.Debug("transcribed media", "path", path, "method", method, "text_len", len(text))

	return []Unit{{
		Text: text,
		Metadata: map[string]string{
			"source":    "media",
			"file_path": path,
			MetaMethod:  method,
		},
	}}, nil
}
