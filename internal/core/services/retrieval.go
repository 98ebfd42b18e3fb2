package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driving"
	"github.com/nikolarss0n/legal-assistant/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultLimit is the number of results returned when the caller passes a
// non-positive k.
const DefaultLimit = 5

// RetrievalService performs hybrid retrieval: nearest-neighbour vector
// search followed by relational filtering over exactly the retrieved
// candidate set.
//
// Filtering happens after vector retrieval, so recall under filters is
// bounded by k: if all k nearest articles fail the filters, the result is
// empty even when matching articles exist further down the ranking. This
// is a deliberate tradeoff, not a bug.
type RetrievalService struct {
	store    driven.LegalStore
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	store driven.LegalStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
) *RetrievalService {
	return &RetrievalService{
		store:    store,
		vectors:  vectors,
		embedder: embedder,
	}
}

// Search embeds the query, retrieves the top-k articles from the vector
// index and applies the filters via the relational store.
//
// Failures are never converted into empty results: an embedding failure
// surfaces as domain.ErrEmbedding, a relational failure during a filtered
// search surfaces as domain.ErrStoreUnavailable. There is no fallback to
// unfiltered results; filters are a caller contract, not a hint.
func (s *RetrievalService) Search(
	ctx context.Context, query string, k int, f domain.Filters,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if k <= 0 {
		k = DefaultLimit
	}
	logger.Debug("Limit: %d, filters set: %t", k, !f.IsZero())

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	// The vector index is filter-blind: always the plain top-k.
	hits, err := s.vectors.Query(ctx, embedding, k)
	if err != nil {
		logger.Warn("Vector query failed: %v", err)
		return nil, fmt.Errorf("vector query: %w", err)
	}
	logger.Debug("Vector hits: %d", len(hits))

	if f.IsZero() {
		return rankResults(hits), nil
	}

	candidates := make([]string, len(hits))
	for i, hit := range hits {
		candidates[i] = hit.Record.Metadata.ArticleID
	}

	matched, err := s.store.FilterArticles(ctx, candidates, f)
	if err != nil {
		logger.Warn("Relational filter failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("Candidates surviving filters: %d of %d", len(matched), len(hits))

	// Hits outside the filtered set are dropped entirely: no re-ranking,
	// no backfilling with further vector candidates.
	kept := hits[:0]
	for _, hit := range hits {
		if _, ok := matched[hit.Record.Metadata.ArticleID]; ok {
			kept = append(kept, hit)
		}
	}

	results := rankResults(kept)
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// rankResults converts vector hits into search results ordered by
// descending similarity. The sort is stable, so exact ties keep the
// index-reported order.
func rankResults(hits []driven.VectorHit) []domain.SearchResult {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	results := make([]domain.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.SearchResult{
			Content:    hit.Record.Content,
			Metadata:   hit.Record.Metadata,
			Similarity: hit.Similarity,
		}
	}
	return results
}
