// Package memory provides an in-memory vector index for tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex using an
// exhaustive cosine scan.
type Index struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
}

// NewIndex creates a new in-memory vector index.
func NewIndex() *Index {
	return &Index{records: make(map[string]driven.VectorRecord)}
}

// Upsert inserts or replaces the record at its key.
func (i *Index) Upsert(_ context.Context, rec driven.VectorRecord) error {
	if rec.Key == "" {
		return fmt.Errorf("%w: vector record key is required", domain.ErrValidation)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records[rec.Key] = rec
	return nil
}

// Delete removes the record at key.
func (i *Index) Delete(_ context.Context, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.records, key)
	return nil
}

// Query returns the k nearest records by cosine similarity.
func (i *Index) Query(_ context.Context, embedding []float32, k int) ([]driven.VectorHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(i.records))
	for _, rec := range i.records {
		hits = append(hits, driven.VectorHit{
			Record:     rec,
			Similarity: cosineSimilarity(embedding, rec.Embedding),
		})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Reset removes all records.
func (i *Index) Reset(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records = make(map[string]driven.VectorRecord)
	return nil
}

// Count returns the number of stored records.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records), nil
}

// Close is a no-op for the in-memory index.
func (i *Index) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
