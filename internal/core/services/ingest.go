package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driving"
	"github.com/nikolarss0n/legal-assistant/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// EmbeddingKeySuffix is appended to an article id to form its key in the
// vector collection.
const EmbeddingKeySuffix = "_embedding"

// IngestService writes documents and amendments, keeping the vector
// collection in step with the relational store.
//
// The canonical write order is relational rows first (one transaction),
// embedding records second. There is no cross-store transaction:
// consistency between the stores is eventual, and a concurrent query may
// observe an article that is not yet embedded. Reindex repairs any gap by
// rebuilding the collection from the relational store.
type IngestService struct {
	store    driven.LegalStore
	vectors  driven.VectorIndex
	embedder driven.EmbeddingService

	importCategory string
	importTags     []string
}

// Option configures the ingest service.
type Option func(*IngestService)

// WithImportDefaults sets the category and tags applied to documents
// imported from scraped JSON, which carries neither.
func WithImportDefaults(category string, tags ...string) Option {
	return func(s *IngestService) {
		s.importCategory = category
		s.importTags = tags
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	store driven.LegalStore,
	vectors driven.VectorIndex,
	embedder driven.EmbeddingService,
	opts ...Option,
) *IngestService {
	s := &IngestService{
		store:    store,
		vectors:  vectors,
		embedder: embedder,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestDocument validates and persists a document, then embeds each of
// its articles. Validation failures reject the whole document before any
// write. An embedding failure after the relational commit leaves the
// vector collection behind the relational store; the error is surfaced
// and Reindex closes the gap.
func (s *IngestService) IngestDocument(ctx context.Context, doc *domain.Document) (string, error) {
	logger.Section("Document Ingest")

	if err := doc.Validate(); err != nil {
		return "", err
	}

	// Phase one: relational rows, atomically.
	id, err := s.store.PutDocument(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("put document: %w", err)
	}
	logger.Debug("Stored document %s with %d articles", id, len(doc.Articles))

	// Phase two: one embedding record per article.
	for i := range doc.Articles {
		if err := s.embedArticle(ctx, &doc.Articles[i], doc.Title); err != nil {
			return id, err
		}
	}

	logger.Info("Ingested %q (%d articles)", doc.Title, len(doc.Articles))
	return id, nil
}

// embedArticle creates the article's embedding record and records its key
// in the relational store.
func (s *IngestService) embedArticle(ctx context.Context, a *domain.Article, lawTitle string) error {
	embedding, err := s.embedder.Embed(ctx, a.Content)
	if err != nil {
		return fmt.Errorf("%w: article %q: %w", domain.ErrEmbedding, a.Number, err)
	}

	key := a.ID + EmbeddingKeySuffix
	rec := driven.VectorRecord{
		Key: key,
		Metadata: domain.ResultMetadata{
			ArticleID:     a.ID,
			LawID:         a.LawID,
			LawTitle:      lawTitle,
			ArticleNumber: a.Number,
		},
		Content:   a.Content,
		Embedding: embedding,
	}
	if err := s.vectors.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("upsert vector %s: %w", key, err)
	}

	if err := s.store.SetArticleEmbeddingID(ctx, a.ID, key); err != nil {
		return fmt.Errorf("record embedding id: %w", err)
	}
	a.EmbeddingID = key
	return nil
}

// IngestAmendment validates and persists an amendment.
func (s *IngestService) IngestAmendment(ctx context.Context, amendment *domain.Amendment) (string, error) {
	if err := amendment.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.PutAmendment(ctx, amendment)
	if err != nil {
		return "", fmt.Errorf("put amendment: %w", err)
	}
	logger.Info("Ingested amendment %s for law %s", id, amendment.LawID)
	return id, nil
}

// scrapedLaw mirrors one entry of the fetcher pipeline's JSON output.
type scrapedLaw struct {
	Title         string           `json:"title"`
	URL           string           `json:"url"`
	DatePublished string           `json:"date_published"`
	ScrapedDate   string           `json:"scraped_date"`
	Error         string           `json:"error"`
	Articles      []scrapedArticle `json:"articles"`
}

type scrapedArticle struct {
	Number  string `json:"number"`
	Content string `json:"content"`
}

// ImportJSON ingests an array of scraped law records. Entries that carry
// an "error" key are scraping failures and are skipped, as are articles
// with empty content.
func (s *IngestService) ImportJSON(ctx context.Context, r io.Reader) ([]string, error) {
	var laws []scrapedLaw
	if err := json.NewDecoder(r).Decode(&laws); err != nil {
		return nil, fmt.Errorf("%w: decoding scraped laws: %v", domain.ErrValidation, err)
	}

	var ids []string
	for _, law := range laws {
		if law.Error != "" {
			logger.Warn("Skipping %q: scrape error: %s", law.URL, law.Error)
			continue
		}

		doc := &domain.Document{
			Title:       law.Title,
			Type:        domain.DocumentTypeLaw,
			SourceURL:   law.URL,
			DateScraped: parseScrapedDate(law.ScrapedDate),
			IsCurrent:   true,
			Category:    s.importCategory,
			Tags:        s.importTags,
		}
		for _, a := range law.Articles {
			if a.Content == "" {
				continue
			}
			doc.Articles = append(doc.Articles, domain.Article{
				Number:  a.Number,
				Content: a.Content,
			})
		}

		id, err := s.IngestDocument(ctx, doc)
		if err != nil {
			return ids, fmt.Errorf("import %q: %w", law.Title, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// parseScrapedDate parses the fetcher's ISO timestamp, falling back to
// the current time when absent or malformed.
func parseScrapedDate(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	logger.Warn("Unparseable scraped date %q, using current time", s)
	return time.Now().UTC()
}

// Reindex rebuilds the entire vector collection from the relational
// store: the collection is a disposable projection, so it is dropped,
// recreated and repopulated from every stored article.
func (s *IngestService) Reindex(ctx context.Context) (int, error) {
	logger.Section("Vector Reindex")

	if err := s.vectors.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset collection: %w", err)
	}

	articles, err := s.store.ListArticles(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list articles: %w", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("Re-embedding %d articles", len(articles))

	texts := make([]string, len(articles))
	for i := range articles {
		texts[i] = articles[i].Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	for i := range articles {
		a := &articles[i]
		key := a.ID + EmbeddingKeySuffix
		rec := driven.VectorRecord{
			Key: key,
			Metadata: domain.ResultMetadata{
				ArticleID:     a.ID,
				LawID:         a.LawID,
				LawTitle:      a.LawTitle,
				ArticleNumber: a.Number,
			},
			Content:   a.Content,
			Embedding: embeddings[i],
		}
		if err := s.vectors.Upsert(ctx, rec); err != nil {
			return i, fmt.Errorf("upsert vector %s: %w", key, err)
		}
		if err := s.store.SetArticleEmbeddingID(ctx, a.ID, key); err != nil {
			return i, fmt.Errorf("record embedding id: %w", err)
		}
	}

	logger.Info("Reindex complete: %d articles", len(articles))
	return len(articles), nil
}

// ReembedArticle recomputes one article's embedding record. Records are
// never updated in place: the old record is deleted and a fresh one
// created under the same key.
func (s *IngestService) ReembedArticle(ctx context.Context, articleID string) error {
	detail, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return fmt.Errorf("get article: %w", err)
	}

	key := detail.EmbeddingID
	if key == "" {
		key = detail.ID + EmbeddingKeySuffix
	}
	if err := s.vectors.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete vector %s: %w", key, err)
	}

	article := detail.Article
	return s.embedArticle(ctx, &article, detail.LawTitle)
}
