package driven

import (
	"context"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
)

// LegalStore persists documents, articles, tags and amendments.
// It is the single source of truth for document/article relationships;
// the vector collection is a derived, disposable projection of it.
//
// Implementations must make each single-document write transactionally
// atomic: all rows for one document commit or none do. Concurrent writes to
// different documents may interleave freely; racing writes to the same
// document id resolve as last-commit-wins with no torn state.
type LegalStore interface {
	// PutDocument writes the document row, its tag rows and all article
	// rows in one atomic unit, assigning ids where absent. It returns the
	// document id. On any failure nothing is persisted.
	PutDocument(ctx context.Context, doc *domain.Document) (string, error)

	// PutAmendment writes the amendment row and its affected-article join
	// rows atomically. It returns domain.ErrReferentialIntegrity if any
	// affected article id does not exist.
	PutAmendment(ctx context.Context, amendment *domain.Amendment) (string, error)

	// GetDocument retrieves a document with its tags and articles.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetArticle retrieves an article joined with its parent document's
	// metadata. Returns domain.ErrNotFound when absent.
	GetArticle(ctx context.Context, id string) (*domain.ArticleDetail, error)

	// FilterArticles returns the subset of candidate article ids whose
	// documents satisfy every supplied filter predicate, each joined with
	// document metadata. A zero Filters value is a pure pass-through: all
	// candidates are returned unchanged without consulting the store.
	FilterArticles(ctx context.Context, candidateIDs []string, f domain.Filters) (map[string]domain.ArticleDetail, error)

	// ListArticles returns every stored article joined with document
	// metadata, ordered by law then article id. Used to rebuild the
	// vector collection.
	ListArticles(ctx context.Context) ([]domain.ArticleDetail, error)

	// SetArticleEmbeddingID records the article's key in the vector
	// collection after the embedding record has been written.
	SetArticleEmbeddingID(ctx context.Context, articleID, embeddingID string) error

	// Clear destroys all rows. Idempotent; for tests and full rebuilds.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
