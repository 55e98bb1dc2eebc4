package docs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshUpdatesSectionsFromSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sketch.html":
			fmt.Fprint(w, "<html><body><h1>Sketch</h1><p>Fetched sketch reference text.</p></body></html>")
		case "/extrude.html":
			fmt.Fprint(w, "<html><body><p>Fetched extrude reference text.</p></body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	r := NewRetriever(WithSourceBase(server.URL))
	cache := NewCache(filepath.Join(t.TempDir(), "docs_cache.json"), 14)

	require.NoError(t, r.Refresh(context.Background(), cache))

	assert.Contains(t, r.Digest("sketch"), "Fetched sketch reference text")
	assert.Contains(t, r.Digest("extrude"), "Fetched extrude reference text")
	// 404 sections keep their built-in description
	assert.Contains(t, r.Digest("revolve"), "revolving closed profiles")

	// the refreshed table is persisted
	fresh := NewRetriever()
	require.True(t, fresh.Restore(cache))
	assert.Contains(t, fresh.Digest("sketch"), "Fetched sketch reference text")
}

func TestRefreshWithoutSourcesLeavesBuiltins(t *testing.T) {
	r := NewRetriever()
	cache := NewCache(filepath.Join(t.TempDir(), "docs_cache.json"), 14)

	require.NoError(t, r.Refresh(context.Background(), cache))
	assert.Contains(t, r.Digest("extrude"), "extruding closed profiles")
}

func TestCutAtRune(t *testing.T) {
	s := "日本語のテキスト"
	for max := 0; max <= len(s); max++ {
		got := cutAtRune(s, max)
		assert.True(t, utf8.ValidString(got), "max=%d produced invalid UTF-8", max)
		assert.LessOrEqual(t, len(got), len(s))
	}
	assert.Equal(t, "abc", cutAtRune("abc", 10))
	assert.Equal(t, "ab", cutAtRune("abcd", 2))
}
