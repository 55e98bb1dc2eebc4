package codeblock

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantCode string
		wantOk   bool
	}{
		{
			name:     "tagged_fence",
			message:  "Here you go:\n```go\nfunc Run() {}\n```\nEnjoy.",
			wantCode: "func Run() {}",
			wantOk:   true,
		},
		{
			name:     "bare_fence",
			message:  "Result:\n```\nsome output\n```",
			wantCode: "some output",
			wantOk:   true,
		},
		{
			name:     "tagged_preferred_over_bare",
			message:  "```\nfirst bare\n```\ntext\n```go\ntagged code\n```",
			wantCode: "tagged code",
			wantOk:   true,
		},
		{
			name:     "no_fence",
			message:  "just prose, no code here",
			wantCode: "",
			wantOk:   false,
		},
		{
			name:     "unclosed_fence",
			message:  "```go\nfunc Run() {}",
			wantCode: "",
			wantOk:   false,
		},
		{
			name:     "empty_message",
			message:  "",
			wantCode: "",
			wantOk:   false,
		},
		{
			name:     "interior_is_trimmed",
			message:  "```go\n\n  x := 1\n\n```",
			wantCode: "x := 1",
			wantOk:   true,
		},
		{
			name:     "only_first_block_returned",
			message:  "```go\nfirst\n```\n```go\nsecond\n```",
			wantCode: "first",
			wantOk:   true,
		},
		{
			name:     "empty_block",
			message:  "```go\n```",
			wantCode: "",
			wantOk:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Extract(tt.message)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}
