package synth

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/notebase/internal/retriever"
)

// maxConnectionsShown caps the connections listed in the narrative.
const maxConnectionsShown = 5

// Analyze retrieves notes for the query and maps how they relate:
// every unordered pair sharing at least one tag becomes a connection,
// and each individual tag becomes a theme listing the notes carrying
// it. Purely local; no generation call is involved.
func (e *Engine) Analyze(ctx context.Context, query string, topK int) (*AnalysisResult, error) {
	results, err := e.retriever.Search(ctx, query, retriever.SearchOptions{TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("analysis retrieval: %w", err)
	}
	if len(results) == 0 {
		return &AnalysisResult{
			Summary:     fmt.Sprintf("No notes found for %q.", query),
			Connections: []Connection{},
			Themes:      map[string][]string{},
		}, nil
	}

	themes := buildThemes(results)
	connections := buildConnections(results)

	return &AnalysisResult{
		Summary:     renderAnalysis(query, results, themes, connections),
		Connections: connections,
		Themes:      themes,
		NoteCount:   len(results),
	}, nil
}

// buildThemes maps each individual tag to the titles of retrieved
// notes carrying it, preserving retrieval order within each theme.
func buildThemes(results []retriever.Result) map[string][]string {
	themes := make(map[string][]string)
	for _, r := range results {
		for _, tag := range r.Tags {
			themes[tag] = append(themes[tag], r.Title)
		}
	}
	return themes
}

// buildConnections computes tag intersections over every unordered
// pair of results. A pair appears at most once, in retrieval order.
func buildConnections(results []retriever.Result) []Connection {
	connections := []Connection{}
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			shared := intersectTags(results[i].Tags, results[j].Tags)
			if len(shared) == 0 {
				continue
			}
			connections = append(connections, Connection{
				Note1:      results[i].Title,
				Note2:      results[j].Title,
				SharedTags: shared,
				Strength:   len(shared),
			})
		}
	}
	return connections
}

// intersectTags returns the sorted intersection of two tag sets.
func intersectTags(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}

	var shared []string
	seen := make(map[string]struct{})
	for _, tag := range b {
		if _, ok := set[tag]; !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		shared = append(shared, tag)
	}
	sort.Strings(shared)
	return shared
}

// renderAnalysis produces the combined narrative: theme breakdown,
// top notes by relevance, and the strongest connections.
func renderAnalysis(query string, results []retriever.Result, themes map[string][]string, connections []Connection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of notes about %q (%d notes):\n", query, len(results))

	if len(themes) > 0 {
		b.WriteString("\n## Themes\n")
		tags := make([]string, 0, len(themes))
		for tag := range themes {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Fprintf(&b, "- **%s**: %s\n", tag, strings.Join(themes[tag], ", "))
		}
	}

	b.WriteString("\n## Most Relevant Notes\n")
	top := results
	if len(top) > 3 {
		top = top[:3]
	}
	for _, r := range top {
		fmt.Fprintf(&b, "- %s (relevance: %.2f)\n", r.Title, r.RelevanceScore)
	}

	if len(connections) > 0 {
		// Strongest connections first; ties keep pair order.
		ranked := make([]Connection, len(connections))
		copy(ranked, connections)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Strength > ranked[j].Strength
		})
		if len(ranked) > maxConnectionsShown {
			ranked = ranked[:maxConnectionsShown]
		}

		b.WriteString("\n## Connections\n")
		for _, c := range ranked {
			fmt.Fprintf(&b, "- %s <-> %s (shared: %s)\n", c.Note1, c.Note2, strings.Join(c.SharedTags, ", "))
		}
	}

	return b.String()
}
