// Package docs is a fixed lookup table over scripting-API facts: section
// digests keyed by keyword presence and canned remedies keyed by error
// signature substring. It is not a search index and does no ranking.
package docs

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

type Retriever struct {
	mu          sync.RWMutex
	sections    map[string]Section
	signatures  []ErrorSignature
	terms       []string
	tokenBudget int
}

type Option func(*Retriever)

// WithTokenBudget caps the rendered digest. Zero disables the cap.
func WithTokenBudget(budget int) Option {
	return func(r *Retriever) {
		r.tokenBudget = budget
	}
}

// WithSourceBase points every section at its reference page under baseURL,
// making it eligible for Refresh. Empty leaves the built-in text authoritative.
func WithSourceBase(baseURL string) Option {
	return func(r *Retriever) {
		if baseURL == "" {
			return
		}
		baseURL = strings.TrimSuffix(baseURL, "/")
		for name, section := range r.sections {
			section.SourceURL = baseURL + "/" + name + ".html"
			r.sections[name] = section
		}
	}
}

func NewRetriever(opts ...Option) *Retriever {
	r := &Retriever{
		sections:   make(map[string]Section),
		signatures: builtinErrorSignatures(),
		terms:      keyTerms(),
	}
	for _, s := range builtinSections() {
		r.sections[s.Name] = s
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Digest returns a bounded reference digest for the sections whose keywords
// appear in query, or "" when nothing matches.
func (r *Retriever) Digest(query string) string {
	matched := r.matchSections(query)
	if len(matched) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("SCRIPTING API REFERENCE:\n")
	for _, section := range matched {
		sb.WriteString(fmt.Sprintf("\n## %s\n%s\n", section.Name, section.Description))
		for _, m := range section.Methods {
			sb.WriteString(fmt.Sprintf("### %s\n%s\nSignature: %s\nExample: %s\n",
				m.Name, m.Description, m.Signature, m.Example))
		}
		if len(section.CommonErrors) > 0 {
			sb.WriteString("Common errors:\n")
			for _, e := range section.CommonErrors {
				sb.WriteString("- " + e + "\n")
			}
		}
		if len(section.BestPractices) > 0 {
			sb.WriteString("Best practices:\n")
			for _, p := range section.BestPractices {
				sb.WriteString("- " + p + "\n")
			}
		}
	}

	return r.capTokens(sb.String())
}

// Remedy finds a canned solution whose signature appears in errText.
func (r *Retriever) Remedy(errText string) (string, bool) {
	lower := strings.ToLower(errText)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sig := range r.signatures {
		if strings.Contains(lower, strings.ToLower(sig.Code)) ||
			strings.Contains(lower, strings.ToLower(sig.Description)) {
			return sig.Solution, true
		}
	}
	return "", false
}

func (r *Retriever) matchSections(query string) []Section {
	lower := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var matched []Section
	for _, term := range r.terms {
		if !strings.Contains(lower, term) {
			continue
		}
		name := sectionForTerm(term)
		if name == "" || seen[name] {
			continue
		}
		if section, ok := r.sections[name]; ok {
			seen[name] = true
			matched = append(matched, section)
		}
	}
	return matched
}

func (r *Retriever) replaceSections(sections []Section) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sections = make(map[string]Section, len(sections))
	for _, s := range sections {
		r.sections[s.Name] = s
	}
}

func (r *Retriever) snapshotSections() []Section {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Section, 0, len(r.sections))
	for _, s := range r.sections {
		out = append(out, s)
	}
	return out
}

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		// Tokenizer load can fail offline; capTokens falls back to a
		// character estimate in that case.
		tk, _ = tiktoken.GetEncoding("cl100k_base")
	})
	return tk
}

func (r *Retriever) capTokens(text string) string {
	if r.tokenBudget <= 0 {
		return text
	}

	enc := getTokenizer()
	if enc == nil {
		// ~4 chars per token estimate
		return cutAtRune(text, r.tokenBudget*4)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= r.tokenBudget {
		return text
	}
	return enc.Decode(tokens[:r.tokenBudget])
}

// cutAtRune caps s at max bytes without splitting a multi-byte rune.
func cutAtRune(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
