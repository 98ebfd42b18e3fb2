package driven

import (
	"context"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

// VectorIndex provides nearest-neighbour lookup over article embeddings.
// The index is filter-blind: relational filtering happens after retrieval.
//
// Records are created once when an article is first persisted and never
// updated in place; re-embedding an article is a delete followed by a
// fresh upsert.
type VectorIndex interface {
	// Upsert inserts or replaces the record at its key.
	Upsert(ctx context.Context, rec VectorRecord) error

	// Delete removes the record at key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Query returns the k nearest records to the query embedding, ranked
	// by descending similarity.
	Query(ctx context.Context, embedding []float32, k int) ([]VectorHit, error)

	// Reset drops and recreates the collection, for full rebuilds.
	Reset(ctx context.Context) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorRecord is one embedding record in the collection. The metadata
// snapshot duplicates article provenance so filterless lookups never touch
// the relational store.
type VectorRecord struct {
	// Key is the record key: article id plus a fixed suffix.
	Key string

	// Metadata is the provenance snapshot taken at ingest time.
	Metadata domain.ResultMetadata

	// Content is the full article text.
	Content string

	// Embedding is the fixed-dimension vector for the content.
	Embedding []float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	Record VectorRecord

	// Similarity is 1 - distance under the configured metric. With the
	// default cosine metric this lies in [0,1].
	Similarity float64
}
