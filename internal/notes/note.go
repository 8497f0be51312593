// Package notes loads markdown notes from a directory tree, parsing
// optional YAML front-matter into structured fields.
package notes

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Note represents a single markdown note: front-matter fields plus body.
type Note struct {
	ID         string
	Title      string
	Path       string
	Tags       string // canonical comma-joined tag string, "" = untagged
	Content    string // body text with front-matter stripped
	CreatedAt  float64
	ModifiedAt float64
}

// NoteID derives the stable identifier for a note from its path.
// Identity is a pure function of the path: re-indexing the same file
// always maps to the same record, moving it creates a new one.
func NoteID(path string) string {
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

// SplitTags derives the set view of a comma-joined tag string.
// Empty segments are dropped.
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags canonicalizes a tag list into the stored comma-joined form.
func JoinTags(tags []string) string {
	var clean []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ", ")
}
