package docs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/cadpilot/internal/core"
	"github.com/sandevgo/cadpilot/pkg/log"
)

const (
	fetchTimeout = 30 * time.Second
	maxPageBytes = 1 << 20
	maxDescChars = 2000
)

// Refresh re-fetches section reference pages and updates their descriptions,
// then persists the result to cache. Sections without a SourceURL keep their
// built-in text. Failures are logged per section and never fatal; the
// built-in table always remains usable.
func (r *Retriever) Refresh(ctx context.Context, cache *Cache) error {
	client := &http.Client{Timeout: fetchTimeout}
	logger := log.FromCtx(ctx)

	sections := r.snapshotSections()
	updated := 0
	for i, section := range sections {
		if section.SourceURL == "" {
			continue
		}

		text, err := fetchPageText(ctx, client, section.SourceURL)
		if err != nil {
			logger.Warn().Err(err).Str("section", section.Name).Msg("docs refresh failed")
			continue
		}

		sections[i].Description = text
		updated++
	}

	if updated > 0 {
		r.replaceSections(sections)
	}

	if err := cache.Save(r.snapshotSections()); err != nil {
		return err
	}

	logger.Info().Int("updated", updated).Msg("documentation refreshed")
	return nil
}

func fetchPageText(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", core.AppUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text, err := html2text.FromString(string(body), html2text.Options{TextOnly: true})
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}

	return cutAtRune(strings.TrimSpace(text), maxDescChars), nil
}
