package session

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// Entry is one remembered script with a short label taken from the request
// that produced it.
type Entry struct {
	Code  string
	Label string
}

// Tracker keeps two bounded per-session lists, newest first: the recent
// scripts and the recent execution errors. It backs "execute the previous
// code", fix-intent prompt enrichment and the /history command.
type Tracker struct {
	mu        sync.Mutex
	max       int
	bySession map[string][]Entry
	errors    map[string][]string
}

func NewTracker(max int) *Tracker {
	return &Tracker{
		max:       max,
		bySession: make(map[string][]Entry),
		errors:    make(map[string][]string),
	}
}

func (t *Tracker) Add(sessionID, code, label string) {
	if code == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := append([]Entry{{Code: code, Label: shorten(label)}}, t.bySession[sessionID]...)
	if len(entries) > t.max {
		entries = entries[:t.max]
	}
	t.bySession[sessionID] = entries
}

// Latest returns the most recent script for the session.
func (t *Tracker) Latest(sessionID string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.bySession[sessionID]
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}

// All returns the remembered scripts, newest first.
func (t *Tracker) All(sessionID string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.bySession[sessionID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (t *Tracker) AddError(sessionID, errText string) {
	if errText == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	errs := append([]string{errText}, t.errors[sessionID]...)
	if len(errs) > t.max {
		errs = errs[:t.max]
	}
	t.errors[sessionID] = errs
}

// LatestError returns the most recent execution error for the session.
func (t *Tracker) LatestError(sessionID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	errs := t.errors[sessionID]
	if len(errs) == 0 {
		return "", false
	}
	return errs[0], true
}

func (t *Tracker) Clear(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.bySession, sessionID)
	delete(t.errors, sessionID)
}

func shorten(label string) string {
	label = strings.TrimSpace(strings.Split(label, "\n")[0])
	const maxLabel = 80
	if len(label) <= maxLabel {
		return label
	}
	cut := maxLabel
	for cut > 0 && !utf8.RuneStart(label[cut]) {
		cut--
	}
	return label[:cut] + "..."
}
