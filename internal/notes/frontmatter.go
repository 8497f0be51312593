package notes

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter holds the parsed YAML header fields a note may carry.
type frontMatter struct {
	Title string
	Tags  string
}

// splitFrontMatter separates a YAML front-matter block (between leading
// --- delimiters) from the markdown body. If no front-matter is found,
// or the YAML is invalid, the entire content is treated as body.
func splitFrontMatter(data []byte) (frontMatter, string) {
	const delim = "---"
	var fm frontMatter

	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return fm, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return fm, string(data)
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")

	var raw map[string]any
	if err := yaml.Unmarshal(yamlBlock, &raw); err != nil {
		return fm, string(data)
	}

	if t, ok := raw["title"].(string); ok {
		fm.Title = t
	}
	fm.Tags = canonicalTags(raw["tags"])

	return fm, body
}

// canonicalTags coerces a front-matter tags value to the stored
// comma-joined string form. Lists are joined; scalar strings pass
// through; anything else is stringified.
func canonicalTags(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		var parts []string
		for _, item := range v {
			s := strings.TrimSpace(fmt.Sprint(item))
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
