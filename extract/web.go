package extract

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/bharatrag/bharatrag/core"
)

const (
	webFetchTimeout = 30 * time.Second
	webUserAgent    = "bharatrag/1.0 (+https://github.com/bharatrag/bharatrag)"
	webMaxBodyBytes = 10 << 20
)

var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	blockElement = regexp.MustCompile(`(?i)</?(p|div|br|h[1-6]|li|tr|section|article|header|footer|blockquote|pre)[^>]*>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	multiSpaces  = regexp.MustCompile(`[ \t]+`)
	multiLines   = regexp.MustCompile(`\n{3,}`)
)

// Web fetches a URL and extracts readable text from the HTML response.
type Web struct {
	client *http.Client
	logger *slog.Logger
}

var _ Extractor = (*Web)(nil)

// NewWeb creates a web extractor with a bounded-timeout HTTP client.
func NewWeb() *Web {
	return &Web{
		client: &http.Client{Timeout: webFetchTimeout},
		logger: slog.Default().With("component", "web-extractor"),
	}
}

// Supports reports true for url sources regardless of format.
func (w *Web) Supports(_ string, sourceType core.SourceType) bool {
	return sourceType == core.SourceTypeURL
}

// Extract fetches the page and returns a single unit with the stripped
// text content and page metadata.
func (w *Web) Extract(ctx context.Context, uri string) ([]Unit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", ErrSourceUnreadable, uri, err)
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnreadable, uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrSourceUnreadable, uri, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, webMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %v", ErrSourceUnreadable, uri, err)
	}

	raw := string(body)
	meta := map[string]string{
		"canonical_url": uri,
		"fetched_at":    time.Now().UTC().Format(time.RFC3339),
		MetaMethod:      "web",
	}
	if title := extractTitle(raw); title != "" {
		meta["title"] = title
	}

	text := stripHTML(raw)
	w.logger.Debug("fetched page", "url", uri, "bytes", len(body), "text_len", len(text))

	return []Unit{{Text: text, Metadata: meta}}, nil
}

func extractTitle(content string) string {
	m := titleTag.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	title := html.UnescapeString(strings.TrimSpace(m[1]))
	return multiSpaces.ReplaceAllString(title, " ")
}

// stripHTML reduces an HTML document to plain text. Block-level tags
// become newlines so paragraph boundaries survive the strip.
func stripHTML(content string) string {
	content = htmlComments.ReplaceAllString(content, "")
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = blockElement.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)

	content = multiSpaces.ReplaceAllString(content, " ")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
