package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.LegalStore = (*Store)(nil)

// Store is an in-memory implementation of driven.LegalStore.
type Store struct {
	mu         sync.RWMutex
	documents  map[string]domain.Document
	amendments map[string]domain.Amendment
	// articleLaw maps article id to owning document id for fast lookups.
	articleLaw map[string]string
}

// NewStore creates a new in-memory legal store.
func NewStore() *Store {
	return &Store{
		documents:  make(map[string]domain.Document),
		amendments: make(map[string]domain.Amendment),
		articleLaw: make(map[string]string),
	}
}

// PutDocument stores or replaces a document with its articles and tags.
func (s *Store) PutDocument(_ context.Context, doc *domain.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	// Replacing a document drops its previous article index entries.
	if prev, ok := s.documents[doc.ID]; ok {
		for _, a := range prev.Articles {
			delete(s.articleLaw, a.ID)
		}
	}

	for i := range doc.Articles {
		a := &doc.Articles[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.LawID = doc.ID
		s.articleLaw[a.ID] = doc.ID
	}

	s.documents[doc.ID] = *doc
	return doc.ID, nil
}

// PutAmendment stores an amendment after checking every affected article
// exists.
func (s *Store) PutAmendment(_ context.Context, amendment *domain.Amendment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, articleID := range amendment.AffectedArticles {
		if _, ok := s.articleLaw[articleID]; !ok {
			return "", fmt.Errorf("%w: affected article %q does not exist",
				domain.ErrReferentialIntegrity, articleID)
		}
	}

	if amendment.ID == "" {
		amendment.ID = uuid.NewString()
	} else if _, ok := s.amendments[amendment.ID]; ok {
		return "", fmt.Errorf("%w: amendment %q", domain.ErrAlreadyExists, amendment.ID)
	}
	s.amendments[amendment.ID] = *amendment
	return amendment.ID, nil
}

// GetDocument retrieves a document by id.
func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetArticle retrieves an article joined with its document metadata.
func (s *Store) GetArticle(_ context.Context, id string) (*domain.ArticleDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lawID, ok := s.articleLaw[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.documents[lawID]
	for _, a := range doc.Articles {
		if a.ID == id {
			detail := joinArticle(a, doc)
			return &detail, nil
		}
	}
	return nil, domain.ErrNotFound
}

// FilterArticles returns the candidates whose documents satisfy every
// filter predicate. A zero filter passes every candidate through
// unchanged.
func (s *Store) FilterArticles(_ context.Context, candidateIDs []string, f domain.Filters) (map[string]domain.ArticleDetail, error) {
	if f.IsZero() {
		matched := make(map[string]domain.ArticleDetail, len(candidateIDs))
		for _, id := range candidateIDs {
			matched[id] = domain.ArticleDetail{Article: domain.Article{ID: id}}
		}
		return matched, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make(map[string]domain.ArticleDetail)
	for _, id := range candidateIDs {
		lawID, ok := s.articleLaw[id]
		if !ok {
			continue
		}
		doc := s.documents[lawID]
		if !matchesFilters(doc, f) {
			continue
		}
		for _, a := range doc.Articles {
			if a.ID == id {
				matched[id] = joinArticle(a, doc)
				break
			}
		}
	}
	return matched, nil
}

// ListArticles returns every stored article joined with document metadata.
func (s *Store) ListArticles(_ context.Context) ([]domain.ArticleDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var details []domain.ArticleDetail
	for _, doc := range s.documents {
		for _, a := range doc.Articles {
			details = append(details, joinArticle(a, doc))
		}
	}
	return details, nil
}

// SetArticleEmbeddingID records the article's vector collection key.
func (s *Store) SetArticleEmbeddingID(_ context.Context, articleID, embeddingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lawID, ok := s.articleLaw[articleID]
	if !ok {
		return domain.ErrNotFound
	}
	doc := s.documents[lawID]
	for i := range doc.Articles {
		if doc.Articles[i].ID == articleID {
			doc.Articles[i].EmbeddingID = embeddingID
			s.documents[lawID] = doc
			return nil
		}
	}
	return domain.ErrNotFound
}

// Clear removes all stored rows.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]domain.Document)
	s.amendments = make(map[string]domain.Amendment)
	s.articleLaw = make(map[string]string)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

func joinArticle(a domain.Article, doc domain.Document) domain.ArticleDetail {
	return domain.ArticleDetail{
		Article:       a,
		LawTitle:      doc.Title,
		DocumentType:  doc.Type,
		Category:      doc.Category,
		Subcategory:   doc.Subcategory,
		DatePublished: doc.DatePublished,
	}
}

func matchesFilters(doc domain.Document, f domain.Filters) bool {
	if f.DocumentType != "" && string(doc.Type) != f.DocumentType {
		return false
	}
	if f.Category != "" && doc.Category != f.Category {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(doc.Tags, f.Tags) {
		return false
	}
	if f.DateAfter != nil {
		if doc.DatePublished == nil || doc.DatePublished.Before(*f.DateAfter) {
			return false
		}
	}
	if f.DateBefore != nil {
		if doc.DatePublished == nil || doc.DatePublished.After(*f.DateBefore) {
			return false
		}
	}
	return true
}

func hasAnyTag(docTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range docTags {
			if t == w {
				return true
			}
		}
	}
	return false
}
