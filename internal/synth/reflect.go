package synth

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ziadkadry99/notebase/internal/metadata"
	"github.com/ziadkadry99/notebase/internal/notes"
)

// maxReflectionNotes caps the notes listed in a reflection report.
const maxReflectionNotes = 10

// Reflect reviews all notes modified within the last `days` days.
// This is a pure metadata-range operation; no vector search runs.
func (e *Engine) Reflect(ctx context.Context, days int) (*ReflectionResult, error) {
	if days <= 0 {
		days = 7
	}

	now := e.now()
	start := float64(now.Add(-time.Duration(days)*24*time.Hour).UnixNano()) / 1e9
	end := float64(now.UnixNano()) / 1e9

	recs, err := e.meta.FindByDateRange(ctx, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("reflection query: %w", err)
	}
	if len(recs) == 0 {
		return &ReflectionResult{
			Summary:  fmt.Sprintf("No notes modified in the last %d days.", days),
			Themes:   map[string]int{},
			Insights: []string{},
		}, nil
	}

	themes := tagFrequencies(recs)
	insights := deriveInsights(recs, themes)

	res := &ReflectionResult{
		NoteCount: len(recs),
		Themes:    themes,
		Insights:  insights,
	}

	period := fmt.Sprintf("the last %d days", days)
	if e.provider != nil {
		generated, err := e.generate(ctx, answerSystemPrompt,
			fmt.Sprintf(reflectionPromptTemplate, period, recordsContext(recs)))
		if err == nil {
			res.Summary = generated
			res.AIPowered = true
			return res, nil
		}
		log.Printf("warning: generation failed, using local reflection: %v", err)
	}

	res.Summary = templateReflection(period, recs, themes, insights)
	return res, nil
}

// TrendingTopics counts tag occurrences over notes modified in the
// last `days` days, most frequent first. Ties sort by tag name so the
// ordering is deterministic.
func (e *Engine) TrendingTopics(ctx context.Context, days, topK int) ([]TagCount, error) {
	start := float64(e.now().Add(-time.Duration(days)*24*time.Hour).UnixNano()) / 1e9

	recs, err := e.meta.FindByDateRange(ctx, &start, nil)
	if err != nil {
		return nil, fmt.Errorf("trending query: %w", err)
	}

	counts := tagFrequencies(recs)
	trending := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		trending = append(trending, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].Tag < trending[j].Tag
	})

	if topK > 0 && len(trending) > topK {
		trending = trending[:topK]
	}
	return trending, nil
}

// OrphanNotes returns every note carrying no tags.
func (e *Engine) OrphanNotes(ctx context.Context) ([]OrphanNote, error) {
	recs, err := e.meta.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("orphan query: %w", err)
	}

	var orphans []OrphanNote
	for _, rec := range recs {
		if strings.TrimSpace(rec.Tags) != "" {
			continue
		}
		orphans = append(orphans, OrphanNote{ID: rec.ID, Title: rec.Title, Path: rec.Path})
	}
	return orphans, nil
}

// SuggestTopics proposes what to explore next based on notes from the
// last `days` days.
func (e *Engine) SuggestTopics(ctx context.Context, days int) (*SuggestionsResult, error) {
	if days <= 0 {
		days = 7
	}
	start := float64(e.now().Add(-time.Duration(days)*24*time.Hour).UnixNano()) / 1e9

	recs, err := e.meta.FindByDateRange(ctx, &start, nil)
	if err != nil {
		return nil, fmt.Errorf("suggestions query: %w", err)
	}
	if len(recs) == 0 {
		return &SuggestionsResult{Suggestions: []string{}}, nil
	}
	if len(recs) > maxReflectionNotes {
		recs = recs[:maxReflectionNotes]
	}

	res := &SuggestionsResult{RecentCount: len(recs)}

	if e.provider != nil {
		generated, err := e.generate(ctx, answerSystemPrompt,
			fmt.Sprintf(suggestionsPromptTemplate, recordsContext(recs)))
		if err == nil {
			res.Suggestions = splitLines(generated)
			res.AIPowered = true
			return res, nil
		}
		log.Printf("warning: generation failed, using local suggestions: %v", err)
	}

	for _, tc := range topTags(tagFrequencies(recs), 5) {
		res.Suggestions = append(res.Suggestions,
			fmt.Sprintf("Explore more about: %s (mentioned %d times)", tc.Tag, tc.Count))
	}
	return res, nil
}

// tagFrequencies counts individual tags across records.
func tagFrequencies(recs []metadata.Record) map[string]int {
	counts := make(map[string]int)
	for _, rec := range recs {
		for _, tag := range notes.SplitTags(rec.Tags) {
			counts[tag]++
		}
	}
	return counts
}

// topTags returns the k most frequent tags, ties broken by name.
func topTags(counts map[string]int, k int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// deriveInsights builds the headline observations for a reflection.
func deriveInsights(recs []metadata.Record, themes map[string]int) []string {
	insights := []string{
		fmt.Sprintf("%d notes touched in this period", len(recs)),
	}
	if top := topTags(themes, 1); len(top) > 0 {
		insights = append(insights,
			fmt.Sprintf("Most active topic: %s (%d notes)", top[0].Tag, top[0].Count))
	}
	if len(themes) > 3 {
		insights = append(insights,
			fmt.Sprintf("Wide focus: %d distinct topics in play", len(themes)))
	}
	return insights
}

// templateReflection renders the local reflection report.
func templateReflection(period string, recs []metadata.Record, themes map[string]int, insights []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Reflection for %s\n", period)

	b.WriteString("\n## Insights\n")
	for _, insight := range insights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}

	if len(themes) > 0 {
		b.WriteString("\n## Topics\n")
		for _, tc := range topTags(themes, len(themes)) {
			fmt.Fprintf(&b, "- %s (%d)\n", tc.Tag, tc.Count)
		}
	}

	b.WriteString("\n## Recent Notes\n")
	shown := recs
	if len(shown) > maxReflectionNotes {
		shown = shown[:maxReflectionNotes]
	}
	for _, rec := range shown {
		day := time.Unix(int64(rec.ModifiedAt), 0).Format("2006-01-02")
		fmt.Fprintf(&b, "- [%s] %s\n", day, rec.Title)
	}
	return b.String()
}

// recordsContext renders metadata records as generation context.
func recordsContext(recs []metadata.Record) string {
	var b strings.Builder
	for i, rec := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s**", rec.Title)
		if rec.Tags != "" {
			fmt.Fprintf(&b, "\nTags: %s", rec.Tags)
		}
	}
	return b.String()
}

// splitLines breaks generated list output into individual entries.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
