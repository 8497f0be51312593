package notes

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Loader scans a directory tree for markdown notes.
type Loader struct {
	root    string
	include []string
	exclude []string
}

// NewLoader creates a Loader rooted at dir. Include and exclude are
// doublestar glob patterns matched against root-relative paths; an
// empty include list matches every .md file.
func NewLoader(dir string, include, exclude []string) *Loader {
	return &Loader{root: dir, include: include, exclude: exclude}
}

// Root returns the directory this loader scans.
func (l *Loader) Root() string { return l.root }

// LoadAll walks the note directory recursively and returns one Note per
// readable markdown file. A single unreadable or malformed file is
// skipped with a warning; it never aborts the whole scan.
func (l *Loader) LoadAll() ([]Note, error) {
	root, err := filepath.Abs(l.root)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve root: %w", err)
	}

	var loaded []Note

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !l.matches(relPath) {
			return nil
		}

		note, err := l.loadFile(path)
		if err != nil {
			log.Printf("warning: skipping note %s: %v", relPath, err)
			return nil
		}

		loaded = append(loaded, *note)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: traversal: %w", err)
	}

	return loaded, nil
}

// GetByID resolves a note by its id with a full rescan. O(n) over the
// corpus; fine at personal scale, don't call it in a hot loop.
func (l *Loader) GetByID(id string) (*Note, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// loadFile reads and parses a single note file.
func (l *Loader) loadFile(path string) (*Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	fm, body := splitFrontMatter(data)

	title := fm.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	mtime := float64(info.ModTime().UnixNano()) / 1e9

	return &Note{
		ID:         NoteID(path),
		Title:      title,
		Path:       path,
		Tags:       fm.Tags,
		Content:    body,
		CreatedAt:  mtime,
		ModifiedAt: mtime,
	}, nil
}

// matches applies include/exclude globs to a root-relative path.
func (l *Loader) matches(relPath string) bool {
	if len(l.include) > 0 {
		included := false
		for _, pattern := range l.include {
			if ok, _ := doublestar.Match(pattern, relPath); ok {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}
	for _, pattern := range l.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}
	return true
}
