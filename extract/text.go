package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bharatrag/bharatrag/core"
)

// Text handles plain text formats: txt and md files, and raw content
// carried in the request URI.
type Text struct{}

var _ Extractor = (*Text)(nil)

// NewText creates a plain text extractor.
func NewText() *Text {
	return &Text{}
}

// Supports reports true for raw text sources and for txt/md files.
func (t *Text) Supports(format string, sourceType core.SourceType) bool {
	if sourceType == core.SourceTypeText {
		return true
	}
	return sourceType == core.SourceTypeFile && (format == "txt" || format == "md")
}

// Extract reads the file when the URI resolves to one; otherwise the URI
// itself is the content.
func (t *Text) Extract(_ context.Context, uri string) ([]Unit, error) {
	if uri == "" {
		return []Unit{{Text: "", Metadata: map[string]string{
			"source":   "raw_text",
			MetaMethod: "text",
		}}}, nil
	}

	path := resolvePath(uri)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
		}
		return []Unit{{Text: string(data), Metadata: map[string]string{
			"source":    "file",
			"file_path": path,
			MetaMethod:  "text",
		}}}, nil
	}

	// Not a file: the URI is the content.
	return []Unit{{Text: uri, Metadata: map[string]string{
		"source":   "raw_text",
		MetaMethod: "text",
	}}}, nil
}

// Raw is the degenerate whole-text fallback: it accepts any pair and
// treats the URI as raw file bytes or raw content.
type Raw struct {
	text *Text
}

var _ Extractor = (*Raw)(nil)

// NewRaw creates the fallback extractor.
func NewRaw() *Raw {
	return &Raw{text: NewText()}
}

// Supports always reports true; Raw only ever runs as a registry fallback.
func (r *Raw) Supports(string, core.SourceType) bool {
	return true
}

// Extract delegates to the plain text extractor's file-or-raw behavior.
func (r *Raw) Extract(ctx context.Context, uri string) ([]Unit, error) {
	units, err := r.text.Extract(ctx, uri)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		u.Metadata[MetaMethod] = "raw"
	}
	return units, nil
}

func resolvePath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
