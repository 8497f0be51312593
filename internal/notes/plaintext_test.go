package notes

import (
	"strings"
	"testing"
)

func TestPlainTextStripsMarkdown(t *testing.T) {
	input := "# Heading\n\nSome **bold** and *italic* text with [a link](https://example.com).\n"

	got := PlainText(input)

	if strings.Contains(got, "#") || strings.Contains(got, "**") || strings.Contains(got, "](") {
		t.Errorf("markdown syntax leaked into plain text: %q", got)
	}
	for _, want := range []string{"Heading", "bold", "italic", "a link"} {
		if !strings.Contains(got, want) {
			t.Errorf("plain text missing %q: %q", want, got)
		}
	}
}

func TestPlainTextKeepsCodeBlocks(t *testing.T) {
	input := "Intro.\n\n```go\nfunc main() {}\n```\n"

	got := PlainText(input)
	if !strings.Contains(got, "func main() {}") {
		t.Errorf("code content missing: %q", got)
	}
	if strings.Contains(got, "```") {
		t.Errorf("code fence leaked: %q", got)
	}
}

func TestPlainTextEmpty(t *testing.T) {
	if got := PlainText(""); got != "" {
		t.Errorf("PlainText(\"\") = %q, want empty", got)
	}
}
