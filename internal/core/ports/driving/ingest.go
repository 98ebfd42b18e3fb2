package driving

import (
	"context"
	"io"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

// IngestService writes legal documents and amendments into both stores and
// keeps the vector collection in step with the relational store.
type IngestService interface {
	// IngestDocument validates and persists a document: relational rows
	// first in one transaction, then one embedding record per article.
	// Returns the document id.
	IngestDocument(ctx context.Context, doc *domain.Document) (string, error)

	// IngestAmendment validates and persists an amendment.
	// Returns the amendment id.
	IngestAmendment(ctx context.Context, amendment *domain.Amendment) (string, error)

	// ImportJSON ingests an array of scraped law records as produced by
	// the fetcher pipeline. Records carrying an "error" key are skipped.
	// Returns the ids of the ingested documents.
	ImportJSON(ctx context.Context, r io.Reader) ([]string, error)

	// Reindex rebuilds the entire vector collection from the relational
	// store. Returns the number of articles re-embedded.
	Reindex(ctx context.Context) (int, error)

	// ReembedArticle recomputes a single article's embedding record by
	// deleting and recreating it.
	ReembedArticle(ctx context.Context, articleID string) error
}
