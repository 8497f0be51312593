// Package vectordb persists note embeddings and serves nearest-neighbor
// queries, backed by chromem-go.
package vectordb

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/notebase/internal/embeddings"
)

const collectionName = "notes"

// Entry is one stored tuple: note id, its embedding, the document text,
// and flat string metadata.
type Entry struct {
	ID        string
	Embedding []float32
	Document  string
	Metadata  map[string]string
}

// Hit is a single nearest-neighbor match. Distance is 1 − cosine
// similarity, so lower is better and the range is bounded.
type Hit struct {
	ID       string
	Document string
	Metadata map[string]string
	Distance float64
}

// Index implements the vector index using chromem-go.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// NewMemory creates an in-memory Index (useful for testing).
func NewMemory(embedder embeddings.Embedder) (*Index, error) {
	return newIndex(chromem.NewDB(), embedder)
}

// NewPersistent creates an Index persisted under the given directory.
func NewPersistent(path string, embedder embeddings.Embedder) (*Index, error) {
	db, err := chromem.NewPersistentDB(path, true)
	if err != nil {
		return nil, fmt.Errorf("opening vector db at %s: %w", path, err)
	}
	return newIndex(db, embedder)
}

func newIndex(db *chromem.DB, embedder embeddings.Embedder) (*Index, error) {
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

// UpsertMany adds or replaces entries by id. Entries carry precomputed
// embeddings; chromem's map storage makes re-adding an id an overwrite.
func (ix *Index) UpsertMany(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Document,
			Embedding: e.Embedding,
			Metadata:  e.Metadata,
		}
	}

	if err := ix.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

// Query returns up to k nearest entries by ascending distance. A query
// against an empty index returns an empty result set, not an error.
func (ix *Index) Query(ctx context.Context, embedding []float32, k int) ([]Hit, error) {
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := ix.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			ID:       r.ID,
			Document: r.Content,
			Metadata: r.Metadata,
			Distance: 1 - float64(r.Similarity),
		}
	}
	return hits, nil
}

// Delete removes the entry with the given id. Deleting an absent id is
// a no-op.
func (ix *Index) Delete(ctx context.Context, id string) error {
	if ix.collection.Count() == 0 {
		return nil
	}
	return ix.collection.Delete(ctx, nil, nil, id)
}

// Clear drops every entry by recreating the collection.
func (ix *Index) Clear(ctx context.Context) error {
	if err := ix.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	col, err := ix.db.GetOrCreateCollection(collectionName, nil, ix.embedFunc)
	if err != nil {
		return fmt.Errorf("recreating collection: %w", err)
	}
	ix.collection = col
	return nil
}

// Count returns the number of stored entries.
func (ix *Index) Count() int {
	return ix.collection.Count()
}
