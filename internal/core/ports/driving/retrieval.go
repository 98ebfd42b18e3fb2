package driving

import (
	"context"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

// RetrievalService answers natural-language questions with ranked,
// filtered article passages.
type RetrievalService interface {
	// Search embeds the query, retrieves the k nearest articles from the
	// vector index, and applies the relational filters to exactly that
	// candidate set. Results are ranked by descending similarity. An empty
	// result always means "no matches", never a swallowed failure.
	Search(ctx context.Context, query string, k int, f domain.Filters) ([]domain.SearchResult, error)
}
