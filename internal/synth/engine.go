// Package synth turns retrieval results into user-facing answers,
// summaries, cross-note analyses, and reflections. Every operation
// has a local templated rendering; when a generation provider is
// configured it is preferred, with the template as fallback so a
// provider outage never fails the request.
package synth

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ziadkadry99/notebase/internal/llm"
	"github.com/ziadkadry99/notebase/internal/metadata"
	"github.com/ziadkadry99/notebase/internal/retriever"
)

// snippetLen bounds per-note content shown in templated answers.
const snippetLen = 300

// Engine runs synthesis operations. All operations are stateless
// between calls; each is a function of its inputs plus current store
// contents.
type Engine struct {
	retriever *retriever.Retriever
	meta      *metadata.Store
	provider  llm.Provider
	model     string

	now func() time.Time
}

// New creates an Engine. provider may be nil, in which case every
// operation uses its local templated rendering.
func New(r *retriever.Retriever, meta *metadata.Store, provider llm.Provider, model string) *Engine {
	return &Engine{
		retriever: r,
		meta:      meta,
		provider:  provider,
		model:     model,
		now:       time.Now,
	}
}

// Retriever exposes the engine's retriever for callers that need raw
// search alongside synthesis.
func (e *Engine) Retriever() *retriever.Retriever { return e.retriever }

// Answer retrieves the notes most relevant to the question and
// composes an answer from them. Confidence is the highest relevance
// score among retrieved notes, a retrieval proxy rather than a
// correctness guarantee.
func (e *Engine) Answer(ctx context.Context, question string, topK int) (*AnswerResult, error) {
	results, err := e.retriever.Search(ctx, question, retriever.SearchOptions{TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("answer retrieval: %w", err)
	}
	if len(results) == 0 {
		return &AnswerResult{Answer: NoResultsAnswer, Sources: []retriever.Result{}}, nil
	}

	res := &AnswerResult{
		Sources:    results,
		Confidence: results[0].RelevanceScore,
	}

	if e.provider != nil {
		generated, err := e.generate(ctx, answerSystemPrompt,
			fmt.Sprintf("Question: %s\n\nRelevant notes:\n\n%s", question, notesContext(results, snippetLen)))
		if err == nil {
			res.Answer = generated
			res.AIPowered = true
			return res, nil
		}
		log.Printf("warning: generation failed, using local answer: %v", err)
	}

	res.Answer = templateAnswer(results)
	return res, nil
}

// Summarize retrieves notes about the topic and renders one section
// per distinct raw tag string. The grouping key is the exact
// comma-joined tag field, not the individual tags.
func (e *Engine) Summarize(ctx context.Context, topic string, topK int) (*SummaryResult, error) {
	results, err := e.retriever.Search(ctx, topic, retriever.SearchOptions{TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("summary retrieval: %w", err)
	}
	if len(results) == 0 {
		return &SummaryResult{
			Summary: fmt.Sprintf("No notes found about %q.", topic),
			Sources: []retriever.Result{},
		}, nil
	}

	res := &SummaryResult{Sources: results, NoteCount: len(results)}

	if e.provider != nil {
		generated, err := e.generate(ctx, summarySystemPrompt,
			fmt.Sprintf("Topic: %s\n\nNotes:\n\n%s", topic, notesContext(results, 500)))
		if err == nil {
			res.Summary = generated
			res.AIPowered = true
			return res, nil
		}
		log.Printf("warning: generation failed, using local summary: %v", err)
	}

	res.Summary = templateSummary(topic, results)
	return res, nil
}

// RelatedNotes finds notes similar to the given note, excluding the
// note itself and weak matches below minSimilarity.
func (e *Engine) RelatedNotes(ctx context.Context, noteID string, topK int, minSimilarity float64) ([]retriever.Result, error) {
	content, err := e.retriever.NoteContent(noteID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, nil
	}

	results, err := e.retriever.Search(ctx, truncate(content, 500), retriever.SearchOptions{TopK: topK + 1})
	if err != nil {
		return nil, fmt.Errorf("related search: %w", err)
	}

	var related []retriever.Result
	for _, r := range results {
		if r.ID == noteID || r.RelevanceScore < minSimilarity {
			continue
		}
		related = append(related, r)
		if len(related) == topK {
			break
		}
	}
	return related, nil
}

// generate sends one system+user exchange to the provider.
func (e *Engine) generate(ctx context.Context, system, user string) (string, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

// templateAnswer renders the local multi-note answer: title plus a
// truncated snippet for the top three results.
func templateAnswer(results []retriever.Result) string {
	var b strings.Builder
	b.WriteString("Based on your notes, here's what I found:\n")

	shown := results
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for i, r := range shown {
		fmt.Fprintf(&b, "\n%d. **%s** (relevance: %.2f)\n", i+1, r.Title, r.RelevanceScore)
		fmt.Fprintf(&b, "   %s\n", truncate(r.Content, snippetLen))
	}
	return b.String()
}

// templateSummary renders one section per distinct raw tag string.
func templateSummary(topic string, results []retriever.Result) string {
	groups := make(map[string][]retriever.Result)
	var order []string
	for _, r := range results {
		key := strings.Join(r.Tags, ", ")
		if key == "" {
			key = "untagged"
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	sort.Strings(order)

	var b strings.Builder
	fmt.Fprintf(&b, "Summary of notes about %q:\n", topic)
	for _, key := range order {
		fmt.Fprintf(&b, "\n**Tagged with: %s**\n", key)
		for _, r := range groups[key] {
			fmt.Fprintf(&b, "  - %s (relevance: %.2f)\n", r.Title, r.RelevanceScore)
		}
	}
	return b.String()
}

// notesContext renders retrieved notes as context for a generation
// call, bounding per-note content.
func notesContext(results []retriever.Result, maxContent int) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s**", r.Title)
		if len(r.Tags) > 0 {
			fmt.Fprintf(&b, "\nTags: %s", strings.Join(r.Tags, ", "))
		}
		fmt.Fprintf(&b, "\n%s", truncate(r.Content, maxContent))
	}
	return b.String()
}

// truncate cuts s to at most n bytes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
