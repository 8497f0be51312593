package synth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/notebase/internal/db"
	"github.com/ziadkadry99/notebase/internal/llm"
	"github.com/ziadkadry99/notebase/internal/metadata"
	"github.com/ziadkadry99/notebase/internal/notes"
	"github.com/ziadkadry99/notebase/internal/retriever"
	"github.com/ziadkadry99/notebase/internal/vectordb"
)

// stubEmbedder maps known topic words onto fixed axes, giving tests
// full control over similarity.
type stubEmbedder struct{}

var topicAxes = map[string]int{
	"alpha": 0,
	"beta":  1,
	"gamma": 2,
}

func (stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, 4)
		lower := strings.ToLower(text)
		for word, axis := range topicAxes {
			if strings.Contains(lower, word) {
				v[axis] = 1
			}
		}
		v[3] = 0.1
		out[i] = v
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int { return 4 }
func (stubEmbedder) Name() string    { return "stub" }

// stubProvider returns a fixed response or error.
type stubProvider struct {
	response string
	err      error
}

func (p *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.response, Model: req.Model}, nil
}

func (p *stubProvider) Name() string { return "stub" }

type fixture struct {
	engine *Engine
	meta   *metadata.Store
	dir    string
}

func newFixture(t *testing.T, provider llm.Provider) *fixture {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	index, err := vectordb.NewMemory(stubEmbedder{})
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}

	dir := t.TempDir()
	meta := metadata.NewStore(database)
	loader := notes.NewLoader(dir, nil, nil)
	rtr := retriever.New(loader, meta, index, stubEmbedder{}, 5)

	return &fixture{
		engine: New(rtr, meta, provider, "test-model"),
		meta:   meta,
		dir:    dir,
	}
}

func (f *fixture) addNote(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(f.dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func (f *fixture) index(t *testing.T) {
	t.Helper()
	if _, err := f.engine.Retriever().IndexAll(context.Background(), nil); err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
}

func (f *fixture) addScenarioNotes(t *testing.T) {
	t.Helper()
	f.addNote(t, "alpha.md", "---\ntitle: Alpha\ntags: ml, ai\n---\nAbout alpha.")
	f.addNote(t, "beta.md", "---\ntitle: Beta\ntags: ai, productivity\n---\nAbout beta.")
	f.addNote(t, "gamma.md", "---\ntitle: Gamma\n---\nAbout gamma.")
	f.index(t)
}

func TestAnswerEmptyIndex(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.engine.Answer(context.Background(), "unanswerable question", 5)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if res.Answer != NoResultsAnswer {
		t.Errorf("answer = %q, want the fixed no-results message", res.Answer)
	}
	if len(res.Sources) != 0 {
		t.Errorf("sources = %v, want empty", res.Sources)
	}
	if res.Confidence != 0 {
		t.Errorf("confidence = %f, want 0", res.Confidence)
	}
}

func TestAnswerLocalTemplate(t *testing.T) {
	f := newFixture(t, nil)
	f.addScenarioNotes(t)

	res, err := f.engine.Answer(context.Background(), "what do I know about alpha", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	if !strings.Contains(res.Answer, "Alpha") {
		t.Errorf("answer does not mention the top note: %q", res.Answer)
	}
	if res.Confidence <= 0 {
		t.Errorf("confidence = %f, want > 0", res.Confidence)
	}
	if res.Confidence != res.Sources[0].RelevanceScore {
		t.Errorf("confidence %f != top relevance %f", res.Confidence, res.Sources[0].RelevanceScore)
	}
	if res.AIPowered {
		t.Error("local answer flagged as AI-powered")
	}
}

func TestAnswerUsesProvider(t *testing.T) {
	f := newFixture(t, &stubProvider{response: "Synthesized answer [Note: \"Alpha\"]"})
	f.addScenarioNotes(t)

	res, err := f.engine.Answer(context.Background(), "alpha", 3)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !res.AIPowered {
		t.Error("expected AI-powered answer")
	}
	if res.Answer != "Synthesized answer [Note: \"Alpha\"]" {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.Confidence <= 0 {
		t.Errorf("confidence = %f, want retrieval confidence even with provider", res.Confidence)
	}
}

func TestAnswerFallsBackOnProviderError(t *testing.T) {
	f := newFixture(t, &stubProvider{err: errors.New("rate limited")})
	f.addScenarioNotes(t)

	res, err := f.engine.Answer(context.Background(), "alpha", 3)
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if res.AIPowered {
		t.Error("failed generation flagged as AI-powered")
	}
	if !strings.Contains(res.Answer, "Based on your notes") {
		t.Errorf("expected templated fallback, got %q", res.Answer)
	}
}

func TestSummarizeGroupsByRawTagString(t *testing.T) {
	f := newFixture(t, nil)
	f.addScenarioNotes(t)

	res, err := f.engine.Summarize(context.Background(), "everything", 5)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.NoteCount != 3 {
		t.Fatalf("note count = %d, want 3", res.NoteCount)
	}

	// One section per distinct raw tag string, plus untagged.
	for _, section := range []string{"Tagged with: ml, ai", "Tagged with: ai, productivity", "Tagged with: untagged"} {
		if !strings.Contains(res.Summary, section) {
			t.Errorf("summary missing section %q:\n%s", section, res.Summary)
		}
	}
}

func TestSummarizeNoMatches(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.engine.Summarize(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.NoteCount != 0 || !strings.Contains(res.Summary, "No notes found") {
		t.Errorf("unexpected empty-corpus summary: %+v", res)
	}
}

func TestAnalyzeScenario(t *testing.T) {
	f := newFixture(t, nil)
	f.addScenarioNotes(t)

	res, err := f.engine.Analyze(context.Background(), "ai", 3)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.NoteCount != 3 {
		t.Fatalf("note count = %d, want 3", res.NoteCount)
	}

	if len(res.Connections) != 1 {
		t.Fatalf("connections = %v, want exactly one (Alpha-Beta)", res.Connections)
	}
	conn := res.Connections[0]
	pair := map[string]bool{conn.Note1: true, conn.Note2: true}
	if !pair["Alpha"] || !pair["Beta"] {
		t.Errorf("connection pair = %s/%s, want Alpha/Beta", conn.Note1, conn.Note2)
	}
	if conn.Strength != 1 || len(conn.SharedTags) != 1 || conn.SharedTags[0] != "ai" {
		t.Errorf("connection = %+v, want shared [ai] strength 1", conn)
	}

	wantThemes := map[string][]string{
		"ml":           {"Alpha"},
		"ai":           {"Alpha", "Beta"},
		"productivity": {"Beta"},
	}
	if len(res.Themes) != len(wantThemes) {
		t.Fatalf("themes = %v, want %v", res.Themes, wantThemes)
	}
	for tag, wantTitles := range wantThemes {
		got := res.Themes[tag]
		if len(got) != len(wantTitles) {
			t.Errorf("theme %q = %v, want %v", tag, got, wantTitles)
			continue
		}
		members := make(map[string]bool, len(got))
		for _, title := range got {
			members[title] = true
		}
		for _, title := range wantTitles {
			if !members[title] {
				t.Errorf("theme %q missing %q: %v", tag, title, got)
			}
		}
	}
}

func TestConnectionSymmetry(t *testing.T) {
	results := []retriever.Result{
		{Title: "A", Tags: []string{"x", "y"}},
		{Title: "B", Tags: []string{"y", "z"}},
		{Title: "C", Tags: []string{"x", "z"}},
	}

	connections := buildConnections(results)
	seen := make(map[string]bool)
	for _, c := range connections {
		forward := c.Note1 + "|" + c.Note2
		reverse := c.Note2 + "|" + c.Note1
		if seen[forward] || seen[reverse] {
			t.Errorf("pair %s/%s reported twice", c.Note1, c.Note2)
		}
		seen[forward] = true
	}
	if len(connections) != 3 {
		t.Errorf("got %d connections, want 3 distinct pairs", len(connections))
	}
}

func TestReflectWindow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f.engine.now = func() time.Time { return now }

	ts := func(daysAgo int) float64 {
		return float64(now.AddDate(0, 0, -daysAgo).UnixNano()) / 1e9
	}

	f.meta.Upsert(ctx, metadata.Record{ID: "in1", Title: "Recent", Tags: "ml", ModifiedAt: ts(2)})
	f.meta.Upsert(ctx, metadata.Record{ID: "in2", Title: "Edge", Tags: "ml, ai", ModifiedAt: ts(6)})
	f.meta.Upsert(ctx, metadata.Record{ID: "out", Title: "Ancient", Tags: "history", ModifiedAt: ts(30)})

	res, err := f.engine.Reflect(ctx, 7)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}

	if res.NoteCount != 2 {
		t.Fatalf("note count = %d, want exactly the 2 notes inside the window", res.NoteCount)
	}
	if res.Themes["ml"] != 2 || res.Themes["ai"] != 1 {
		t.Errorf("themes = %v, want ml:2 ai:1", res.Themes)
	}
	if _, ok := res.Themes["history"]; ok {
		t.Error("out-of-window note leaked into themes")
	}
	if strings.Contains(res.Summary, "Ancient") {
		t.Errorf("out-of-window note listed in summary:\n%s", res.Summary)
	}
	if !strings.Contains(res.Summary, "Recent") {
		t.Errorf("in-window note missing from summary:\n%s", res.Summary)
	}
}

func TestReflectEmptyWindow(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.engine.Reflect(context.Background(), 7)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if res.NoteCount != 0 || !strings.Contains(res.Summary, "No notes modified") {
		t.Errorf("unexpected empty reflection: %+v", res)
	}
}

func TestTrendingTopics(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	now := time.Now()
	f.engine.now = func() time.Time { return now }
	recent := float64(now.AddDate(0, 0, -1).UnixNano()) / 1e9
	old := float64(now.AddDate(0, 0, -90).UnixNano()) / 1e9

	f.meta.Upsert(ctx, metadata.Record{ID: "a", Title: "A", Tags: "ml, ai", ModifiedAt: recent})
	f.meta.Upsert(ctx, metadata.Record{ID: "b", Title: "B", Tags: "ml", ModifiedAt: recent})
	f.meta.Upsert(ctx, metadata.Record{ID: "c", Title: "C", Tags: "forgotten", ModifiedAt: old})

	topics, err := f.engine.TrendingTopics(ctx, 30, 10)
	if err != nil {
		t.Fatalf("TrendingTopics: %v", err)
	}

	if len(topics) != 2 {
		t.Fatalf("topics = %v, want ml and ai only", topics)
	}
	if topics[0].Tag != "ml" || topics[0].Count != 2 {
		t.Errorf("top topic = %+v, want ml:2", topics[0])
	}
	if topics[1].Tag != "ai" || topics[1].Count != 1 {
		t.Errorf("second topic = %+v, want ai:1", topics[1])
	}
}

func TestOrphanNotes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.meta.Upsert(ctx, metadata.Record{ID: "tagged", Title: "Tagged", Tags: "ml", ModifiedAt: 1})
	f.meta.Upsert(ctx, metadata.Record{ID: "bare", Title: "Bare", Tags: "", ModifiedAt: 2})
	f.meta.Upsert(ctx, metadata.Record{ID: "blank", Title: "Blank", Tags: "   ", ModifiedAt: 3})

	orphans, err := f.engine.OrphanNotes(ctx)
	if err != nil {
		t.Fatalf("OrphanNotes: %v", err)
	}

	if len(orphans) != 2 {
		t.Fatalf("orphans = %v, want Bare and Blank", orphans)
	}
	for _, o := range orphans {
		if o.ID == "tagged" {
			t.Error("tagged note reported as orphan")
		}
	}
}

func TestSuggestTopicsFallback(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	now := time.Now()
	f.engine.now = func() time.Time { return now }
	recent := float64(now.AddDate(0, 0, -1).UnixNano()) / 1e9

	f.meta.Upsert(ctx, metadata.Record{ID: "a", Title: "A", Tags: "robotics, ml", ModifiedAt: recent})
	f.meta.Upsert(ctx, metadata.Record{ID: "b", Title: "B", Tags: "robotics", ModifiedAt: recent})

	res, err := f.engine.SuggestTopics(ctx, 7)
	if err != nil {
		t.Fatalf("SuggestTopics: %v", err)
	}
	if res.AIPowered {
		t.Error("fallback suggestions flagged as AI-powered")
	}
	if len(res.Suggestions) == 0 {
		t.Fatal("no suggestions from tag fallback")
	}
	if !strings.Contains(res.Suggestions[0], "robotics") {
		t.Errorf("top suggestion = %q, want the most frequent tag", res.Suggestions[0])
	}
}

func TestRelatedNotesExcludesSelf(t *testing.T) {
	f := newFixture(t, nil)
	f.addNote(t, "alpha1.md", "---\ntitle: Alpha One\ntags: ml\n---\nalpha everywhere")
	f.addNote(t, "alpha2.md", "---\ntitle: Alpha Two\ntags: ml\n---\nmore alpha content")
	f.addNote(t, "gamma.md", "---\ntitle: Gamma\n---\ngamma only")
	f.index(t)

	sourceID := notes.NoteID(filepath.Join(f.dir, "alpha1.md"))
	related, err := f.engine.RelatedNotes(context.Background(), sourceID, 5, 0.5)
	if err != nil {
		t.Fatalf("RelatedNotes: %v", err)
	}

	for _, r := range related {
		if r.ID == sourceID {
			t.Error("source note returned as its own relation")
		}
		if r.RelevanceScore < 0.5 {
			t.Errorf("weak match %q (%.2f) not filtered", r.Title, r.RelevanceScore)
		}
	}

	var foundTwin bool
	for _, r := range related {
		if r.Title == "Alpha Two" {
			foundTwin = true
		}
	}
	if !foundTwin {
		t.Errorf("related = %v, want Alpha Two", related)
	}
}
