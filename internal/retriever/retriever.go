// Package retriever ties the note loader, metadata store, and vector
// index together into the indexing and semantic-search workflow.
package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/ziadkadry99/notebase/internal/embeddings"
	"github.com/ziadkadry99/notebase/internal/metadata"
	"github.com/ziadkadry99/notebase/internal/notes"
	"github.com/ziadkadry99/notebase/internal/progress"
	"github.com/ziadkadry99/notebase/internal/vectordb"
)

// DefaultTopK is the result count used when a search does not specify one.
const DefaultTopK = 5

// overFetchFactor widens a filtered vector query so that enough
// neighbors survive the metadata filter to fill the requested k.
const overFetchFactor = 3

// keywordScoreFloor is the relevance assigned to hybrid results found
// only by keyword match, so they rank below strong semantic hits but
// above weak ones.
const keywordScoreFloor = 0.5

// SearchOptions narrows a semantic search.
type SearchOptions struct {
	// TopK caps the result count; zero means DefaultTopK.
	TopK int
	// FilterTags keeps only notes whose tags contain any of these
	// values (OR semantics, substring match).
	FilterTags []string
	// Start and End bound the modified time in Unix seconds. Either
	// may be nil.
	Start *float64
	End   *float64
}

func (o SearchOptions) filtered() bool {
	return len(o.FilterTags) > 0 || o.Start != nil || o.End != nil
}

// Result is one retrieved note with its similarity scoring.
type Result struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Path           string   `json:"path"`
	Tags           []string `json:"tags"`
	Content        string   `json:"content"`
	Distance       float64  `json:"distance"`
	RelevanceScore float64  `json:"relevance_score"`
	CreatedAt      float64  `json:"created_at"`
	ModifiedAt     float64  `json:"modified_at"`
}

// Stats summarizes the state of the knowledge base.
type Stats struct {
	TotalNotes   int      `json:"total_notes"`
	IndexedNotes int      `json:"indexed_notes"`
	Tags         []string `json:"tags"`
}

// Retriever runs indexing and retrieval over one note directory.
type Retriever struct {
	loader   *notes.Loader
	meta     *metadata.Store
	index    *vectordb.Index
	embedder embeddings.Embedder
	topK     int
}

// New creates a Retriever. topK <= 0 falls back to DefaultTopK.
func New(loader *notes.Loader, meta *metadata.Store, index *vectordb.Index, embedder embeddings.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		loader:   loader,
		meta:     meta,
		index:    index,
		embedder: embedder,
		topK:     topK,
	}
}

// IndexResult summarizes one IndexAll run.
type IndexResult struct {
	NotesLoaded  int
	NotesStored  int
	NotesEmbedded int
}

// IndexAll loads every note, upserts its metadata, and (re)embeds its
// plain-text content into the vector index. Re-running over unchanged
// notes is an idempotent overwrite, never a duplicate. reporter may be
// nil.
func (r *Retriever) IndexAll(ctx context.Context, reporter progress.Reporter) (*IndexResult, error) {
	if reporter == nil {
		reporter = progress.Silent()
	}

	loaded, err := r.loader.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading notes: %w", err)
	}
	result := &IndexResult{NotesLoaded: len(loaded)}
	if len(loaded) == 0 {
		return result, nil
	}

	recs := make([]metadata.Record, len(loaded))
	texts := make([]string, len(loaded))
	for i, n := range loaded {
		recs[i] = metadata.Record{
			ID:         n.ID,
			Title:      n.Title,
			Path:       n.Path,
			Tags:       n.Tags,
			CreatedAt:  n.CreatedAt,
			ModifiedAt: n.ModifiedAt,
		}
		// Embed title alongside the body so title-only notes still
		// land near queries about their subject.
		texts[i] = n.Title + "\n" + notes.PlainText(n.Content)
	}

	stored, err := r.meta.UpsertAll(ctx, recs)
	if err != nil {
		return nil, fmt.Errorf("storing metadata: %w", err)
	}
	result.NotesStored = stored

	reporter.Start(len(loaded))
	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding notes: %w", err)
	}
	if len(vectors) != len(loaded) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d notes", len(vectors), len(loaded))
	}

	entries := make([]vectordb.Entry, len(loaded))
	for i, n := range loaded {
		entries[i] = vectordb.Entry{
			ID:        n.ID,
			Embedding: vectors[i],
			Document:  texts[i],
			Metadata: map[string]string{
				"title": n.Title,
				"path":  n.Path,
				"tags":  n.Tags,
			},
		}
		reporter.Update(i+1, n.Title)
	}

	if err := r.index.UpsertMany(ctx, entries); err != nil {
		return nil, fmt.Errorf("indexing notes: %w", err)
	}
	result.NotesEmbedded = len(entries)
	reporter.Finish()

	return result, nil
}

// Search embeds the query and returns the top-k nearest notes,
// optionally narrowed by tag and date filters. Results are ordered by
// ascending distance. An empty index yields an empty result set.
func (r *Retriever) Search(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	k := opts.TopK
	if k <= 0 {
		k = r.topK
	}

	var allowed map[string]struct{}
	if opts.filtered() {
		ids, err := r.meta.Filter(ctx, opts.FilterTags, opts.Start, opts.End)
		if err != nil {
			return nil, fmt.Errorf("applying filters: %w", err)
		}
		// Nothing survives the filter, so skip the embedding call.
		if len(ids) == 0 {
			return nil, nil
		}
		allowed = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			allowed[id] = struct{}{}
		}
	}

	vector, err := embeddings.EmbedOne(ctx, r.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	fetch := k
	if allowed != nil {
		fetch = k * overFetchFactor
	}

	hits, err := r.index.Query(ctx, vector, fetch)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	var results []Result
	for _, hit := range hits {
		if allowed != nil {
			if _, ok := allowed[hit.ID]; !ok {
				continue
			}
		}
		results = append(results, r.toResult(ctx, hit))
		if len(results) == k {
			break
		}
	}
	return results, nil
}

// SearchByKeyword returns notes whose title or tags contain the term,
// most-recently-modified first. No embeddings are involved.
func (r *Retriever) SearchByKeyword(ctx context.Context, term string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = r.topK
	}

	recs, err := r.meta.FindByKeyword(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	var results []Result
	for _, rec := range recs {
		results = append(results, recordResult(rec))
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// SearchHybrid merges semantic and keyword matches for the same query.
// A note found both ways keeps its semantic score; a keyword-only match
// enters with keywordScoreFloor. Results are sorted by descending
// relevance.
func (r *Retriever) SearchHybrid(ctx context.Context, query string, opts SearchOptions) ([]Result, error) {
	k := opts.TopK
	if k <= 0 {
		k = r.topK
	}
	opts.TopK = k

	semantic, err := r.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	keyword, err := r.SearchByKeyword(ctx, query, k)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(semantic))
	merged := make([]Result, 0, len(semantic)+len(keyword))
	for _, res := range semantic {
		seen[res.ID] = struct{}{}
		merged = append(merged, res)
	}
	for _, res := range keyword {
		if _, ok := seen[res.ID]; ok {
			continue
		}
		res.RelevanceScore = keywordScoreFloor
		res.Distance = 1 - keywordScoreFloor
		merged = append(merged, res)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].RelevanceScore > merged[j].RelevanceScore
	})
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged, nil
}

// NoteContent returns the full markdown body of a note by id, or empty
// string when the note no longer exists on disk.
func (r *Retriever) NoteContent(id string) (string, error) {
	note, err := r.loader.GetByID(id)
	if err != nil {
		return "", fmt.Errorf("loading note %s: %w", id, err)
	}
	if note == nil {
		return "", nil
	}
	return note.Content, nil
}

// GetStats reports corpus and index sizes plus the tag vocabulary.
func (r *Retriever) GetStats(ctx context.Context) (*Stats, error) {
	total, err := r.meta.Count(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := r.meta.DistinctTags(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalNotes:   total,
		IndexedNotes: r.index.Count(),
		Tags:         tags,
	}, nil
}

// toResult builds a Result from an index hit, preferring the metadata
// store's record for timestamps and canonical fields.
func (r *Retriever) toResult(ctx context.Context, hit vectordb.Hit) Result {
	res := Result{
		ID:             hit.ID,
		Title:          hit.Metadata["title"],
		Path:           hit.Metadata["path"],
		Tags:           notes.SplitTags(hit.Metadata["tags"]),
		Content:        hit.Document,
		Distance:       hit.Distance,
		RelevanceScore: 1 - hit.Distance,
	}

	if rec, err := r.meta.Get(ctx, hit.ID); err == nil && rec != nil {
		res.Title = rec.Title
		res.Path = rec.Path
		res.Tags = notes.SplitTags(rec.Tags)
		res.CreatedAt = rec.CreatedAt
		res.ModifiedAt = rec.ModifiedAt
	}
	return res
}

func recordResult(rec metadata.Record) Result {
	return Result{
		ID:         rec.ID,
		Title:      rec.Title,
		Path:       rec.Path,
		Tags:       notes.SplitTags(rec.Tags),
		CreatedAt:  rec.CreatedAt,
		ModifiedAt: rec.ModifiedAt,
		Distance:   1,
	}
}
