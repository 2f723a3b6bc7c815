package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatrag/bharatrag/core"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Release &amp; Notes  </title>
  <style>body { color: red; }</style>
  <script>console.log("noise");</script>
</head>
<body>
  <!-- navigation -->
  <h1>Release Notes</h1>
  <p>First paragraph with a <a href="/x">link</a>.</p>
  <p>Second &lt;escaped&gt; paragraph.</p>
  <noscript>enable javascript</noscript>
</body>
</html>`

func TestWebExtract(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	units, err := NewWeb().Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, units, 1)

	u := units[0]
	assert.Contains(t, u.Text, "Release Notes")
	assert.Contains(t, u.Text, "First paragraph with a link")
	assert.Contains(t, u.Text, "Second <escaped> paragraph.")
	assert.NotContains(t, u.Text, "console.log")
	assert.NotContains(t, u.Text, "color: red")
	assert.NotContains(t, u.Text, "enable javascript")
	assert.NotContains(t, u.Text, "navigation")

	assert.Equal(t, "Release & Notes", u.Metadata["title"])
	assert.Equal(t, srv.URL, u.Metadata["canonical_url"])
	assert.NotEmpty(t, u.Metadata["fetched_at"])
	assert.Equal(t, "web", u.Metadata[MetaMethod])
	assert.Contains(t, gotAgent, "bharatrag")
}

func TestWebExtractNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewWeb().Extract(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrSourceUnreadable)
}

func TestWebExtractUnreachable(t *testing.T) {
	_, err := NewWeb().Extract(context.Background(), "http://127.0.0.1:1/nope")
	assert.ErrorIs(t, err, ErrSourceUnreadable)
}

func TestWebSupports(t *testing.T) {
	w := NewWeb()
	assert.True(t, w.Supports("html", core.SourceTypeURL))
	assert.True(t, w.Supports("", core.SourceTypeURL))
	assert.False(t, w.Supports("html", core.SourceTypeFile))
}

func TestStripHTMLCollapsesWhitespace(t *testing.T) {
	got := stripHTML("<div>a</div>\n\n\n\n<div>b</div>")
	assert.Equal(t, "a\n\nb", got)
}
