package notes

import "testing"

func TestSplitFrontMatter(t *testing.T) {
	input := `---
title: Meeting Notes
tags:
  - work
  - planning
---
Discussed the roadmap.`

	fm, body := splitFrontMatter([]byte(input))

	if fm.Title != "Meeting Notes" {
		t.Errorf("Title = %q, want %q", fm.Title, "Meeting Notes")
	}
	if fm.Tags != "work, planning" {
		t.Errorf("Tags = %q, want %q", fm.Tags, "work, planning")
	}
	if body != "Discussed the roadmap." {
		t.Errorf("body = %q", body)
	}
}

func TestSplitFrontMatterStringTags(t *testing.T) {
	input := `---
title: Ideas
tags: ml, ai
---
Body.`

	fm, _ := splitFrontMatter([]byte(input))
	if fm.Tags != "ml, ai" {
		t.Errorf("Tags = %q, want %q", fm.Tags, "ml, ai")
	}
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	input := "Just a plain note.\nNo header here."

	fm, body := splitFrontMatter([]byte(input))
	if fm.Title != "" || fm.Tags != "" {
		t.Errorf("expected empty front-matter, got %+v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestSplitFrontMatterInvalidYAML(t *testing.T) {
	input := `---
title: [unclosed
---
Body text.`

	fm, body := splitFrontMatter([]byte(input))
	if fm.Title != "" {
		t.Errorf("expected no title from invalid YAML, got %q", fm.Title)
	}
	if body != input {
		t.Errorf("invalid YAML should leave the whole content as body, got %q", body)
	}
}

func TestSplitFrontMatterUnterminated(t *testing.T) {
	input := `---
title: Dangling
no closing delimiter`

	_, body := splitFrontMatter([]byte(input))
	if body != input {
		t.Errorf("unterminated front-matter should be treated as body, got %q", body)
	}
}

func TestCanonicalTagsCoercion(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "a, b", "a, b"},
		{"list", []any{"a", "b"}, "a, b"},
		{"list with blanks", []any{"a", " ", "b"}, "a, b"},
		{"number", 42, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canonicalTags(tc.in); got != tc.want {
				t.Errorf("canonicalTags(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNoteIDStable(t *testing.T) {
	a := NoteID("/notes/alpha.md")
	b := NoteID("/notes/alpha.md")
	if a != b {
		t.Errorf("same path produced different ids: %q vs %q", a, b)
	}
	if len(a) != 32 {
		t.Errorf("id length = %d, want 32 hex chars", len(a))
	}
	if NoteID("/notes/beta.md") == a {
		t.Error("different paths produced the same id")
	}
}

func TestSplitJoinTags(t *testing.T) {
	got := SplitTags(" ml, ai , ,")
	if len(got) != 2 || got[0] != "ml" || got[1] != "ai" {
		t.Errorf("SplitTags = %v, want [ml ai]", got)
	}
	if SplitTags("   ") != nil {
		t.Error("blank tag string should split to nil")
	}
	if joined := JoinTags([]string{" ml", "", "ai "}); joined != "ml, ai" {
		t.Errorf("JoinTags = %q, want %q", joined, "ml, ai")
	}
}
