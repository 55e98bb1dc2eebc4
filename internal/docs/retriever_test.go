package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		contains []string
		empty    bool
	}{
		{
			name:     "extrude query matches extrude section",
			query:    "how do I extrude a profile?",
			contains: []string{"SCRIPTING API REFERENCE:", "## extrude", "## sketch"},
		},
		{
			name:     "revolve query matches revolve section",
			query:    "revolve this around the axis",
			contains: []string{"## revolve", "ASM_PATH_TANGENT"},
		},
		{
			name:     "cube routes to extrude",
			query:    "create a 10mm cube",
			contains: []string{"## extrude"},
		},
		{
			name:  "no keyword yields no digest",
			query: "hello there",
			empty: true,
		},
		{
			name:     "duplicate keywords yield one section",
			query:    "boolean combine cut",
			contains: []string{"## boolean"},
		},
	}

	r := NewRetriever()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Digest(tt.query)
			if tt.empty {
				assert.Empty(t, got)
				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestDigestSectionAppearsOnce(t *testing.T) {
	r := NewRetriever()
	got := r.Digest("boolean combine join cut intersect")
	assert.Equal(t, 1, strings.Count(got, "## boolean"))
}

func TestDigestTokenBudget(t *testing.T) {
	full := NewRetriever().Digest("sketch extrude revolve boolean")
	capped := NewRetriever(WithTokenBudget(50)).Digest("sketch extrude revolve boolean")

	require.NotEmpty(t, capped)
	assert.Less(t, len(capped), len(full))
}

func TestRemedy(t *testing.T) {
	tests := []struct {
		name    string
		errText string
		found   bool
		want    string
	}{
		{
			name:    "tangent axis code",
			errText: "revolve failed: ASM_PATH_TANGENT: the axis is tangent to the profile",
			found:   true,
			want:    "not tangent",
		},
		{
			name:    "open profile description",
			errText: "extrude failed: no closed profile",
			found:   true,
			want:    "closed profiles",
		},
		{
			name:    "missing body",
			errText: "boolean combine failed: target body does not exist",
			found:   true,
			want:    "bodies exist",
		},
		{
			name:    "unknown error",
			errText: "something else went wrong",
			found:   false,
		},
	}

	r := NewRetriever()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Remedy(tt.errText)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Contains(t, got, tt.want)
			}
		})
	}
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs_cache.json")
	cache := NewCache(path, 14)

	r := NewRetriever()
	require.NoError(t, cache.Save(r.snapshotSections()))

	loaded, ok := cache.Load()
	require.True(t, ok)
	assert.Len(t, loaded, len(builtinSections()))

	fresh := NewRetriever()
	require.True(t, fresh.Restore(cache))
	assert.Contains(t, fresh.Digest("extrude"), "## extrude")
}

func TestCacheExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs_cache.json")
	cache := NewCache(path, 14)

	require.NoError(t, cache.Save(builtinSections()))

	stale := time.Now().Add(-15 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(path, stale, stale))

	_, ok := cache.Load()
	assert.False(t, ok)
}

func TestCacheMissing(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "absent.json"), 14)
	_, ok := cache.Load()
	assert.False(t, ok)
}
