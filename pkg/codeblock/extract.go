// Package codeblock pulls fenced code out of model replies.
package codeblock

import "strings"

const (
	taggedFence = "```go"
	bareFence   = "```"
)

// Extract returns the trimmed interior of the first complete fenced block in
// message. A language-tagged fence wins over a bare one when both are
// present. ok is false when no fence closes.
func Extract(message string) (string, bool) {
	if code, ok := between(message, taggedFence); ok {
		return code, true
	}
	return between(message, bareFence)
}

func between(message, open string) (string, bool) {
	start := strings.Index(message, open)
	if start < 0 {
		return "", false
	}
	rest := message[start+len(open):]

	end := strings.Index(rest, bareFence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
