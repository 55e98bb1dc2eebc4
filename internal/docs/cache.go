package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// snapshot is the on-disk form of the documentation table.
type snapshot struct {
	Sections   []Section        `json:"sections"`
	Signatures []ErrorSignature `json:"signatures"`
	FetchedAt  time.Time        `json:"fetched_at"`
}

type Cache struct {
	path   string
	maxAge time.Duration
}

func NewCache(path string, maxAgeDays int) *Cache {
	return &Cache{
		path:   path,
		maxAge: time.Duration(maxAgeDays) * 24 * time.Hour,
	}
}

// Load returns the cached sections when the file exists and its mtime is
// within maxAge. An absent, expired or unreadable cache reports ok=false and
// the caller rebuilds from the built-in table.
func (c *Cache) Load() ([]Section, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.maxAge {
		return nil, false
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	if len(snap.Sections) == 0 {
		return nil, false
	}
	return snap.Sections, true
}

func (c *Cache) Save(sections []Section) error {
	snap := snapshot{
		Sections:   sections,
		Signatures: builtinErrorSignatures(),
		FetchedAt:  time.Now(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal docs cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write docs cache: %w", err)
	}
	return nil
}

// Restore seeds the retriever from a fresh cache file, when one exists.
func (r *Retriever) Restore(cache *Cache) bool {
	sections, ok := cache.Load()
	if !ok {
		return false
	}
	r.replaceSections(sections)
	return true
}
