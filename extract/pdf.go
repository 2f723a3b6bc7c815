package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/bharatrag/bharatrag/core"
)

// PDF extracts text from PDF files page by page. Each page becomes one
// unit; a page that fails to decode becomes a unit-level failure so the
// rest of the document still ingests.
type PDF struct {
	logger *slog.Logger
}

var _ Extractor = (*PDF)(nil)

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{logger: slog.Default().With("component", "pdf-extractor")}
}

// Supports reports true for pdf files.
func (p *PDF) Supports(format string, sourceType core.SourceType) bool {
	return sourceType == core.SourceTypeFile && format == "pdf"
}

// Extract reads the PDF and emits one unit per page in page order.
func (p *PDF) Extract(_ context.Context, uri string) ([]Unit, error) {
	path := resolvePath(uri)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf %s: %v", ErrSourceUnreadable, path, err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	units := make([]Unit, 0, totalPages)
	failed := 0

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		meta := map[string]string{
			"page_number": strconv.Itoa(pageNum),
			"total_pages": strconv.Itoa(totalPages),
			MetaMethod:    "pdf",
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			failed++
			units = append(units, FailedUnit("page unreadable", meta))
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			failed++
			p.logger.Warn("failed to extract page", "page_number", pageNum, "err", err)
			units = append(units, FailedUnit(err.Error(), meta))
			continue
		}

		units = append(units, Unit{Text: cleanPageText(text), Metadata: meta})
	}

	if failed > 0 {
		p.logger.Warn("pdf extraction completed with page-level errors",
			"total_pages", totalPages, "failed_pages", failed)
	}

	return units, nil
}

func cleanPageText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
