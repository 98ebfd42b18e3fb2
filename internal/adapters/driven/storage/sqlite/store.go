package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.LegalStore = (*Store)(nil)

// Store is the SQLite-backed relational store for documents, articles,
// tags and amendments. It is the single source of truth for their
// relationships; the vector collection is rebuilt from it.
//
// The database is opened in WAL mode with a busy timeout, so concurrent
// readers and writers from multiple callers are safe. Writes racing on the
// same document id resolve as last-commit-wins.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.legal-assistant/data/legal.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".legal-assistant", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "legal.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// PutDocument writes the document row, tag rows and article rows in one
// transaction. Ids are assigned where absent; article back-references are
// set to the document id. On any failure the transaction rolls back and
// nothing is observable.
func (s *Store) PutDocument(ctx context.Context, doc *domain.Document) (string, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.DateScraped.IsZero() {
		doc.DateScraped = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents
			(id, title, document_type, source_url, date_published,
			 date_modified, date_scraped, is_current, category, subcategory)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			document_type = excluded.document_type,
			source_url = excluded.source_url,
			date_published = excluded.date_published,
			date_modified = excluded.date_modified,
			date_scraped = excluded.date_scraped,
			is_current = excluded.is_current,
			category = excluded.category,
			subcategory = excluded.subcategory
	`, doc.ID, doc.Title, string(doc.Type), doc.SourceURL,
		nullTime(doc.DatePublished), nullTime(doc.DateModified),
		doc.DateScraped, doc.IsCurrent,
		nullString(doc.Category), nullString(doc.Subcategory))
	if err != nil {
		return "", fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_tags WHERE document_id = ?", doc.ID); err != nil {
		return "", fmt.Errorf("clearing tags: %w", err)
	}
	for _, tag := range doc.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO document_tags (document_id, tag) VALUES (?, ?)",
			doc.ID, tag); err != nil {
			return "", fmt.Errorf("saving tag %q: %w", tag, err)
		}
	}

	for i := range doc.Articles {
		a := &doc.Articles[i]
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		a.LawID = doc.ID

		_, err := tx.ExecContext(ctx, `
			INSERT INTO articles (id, law_id, number, content, embedding_id)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				law_id = excluded.law_id,
				number = excluded.number,
				content = excluded.content,
				embedding_id = excluded.embedding_id
		`, a.ID, a.LawID, a.Number, a.Content, nullString(a.EmbeddingID))
		if err != nil {
			return "", fmt.Errorf("saving article %q: %w", a.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return doc.ID, nil
}

// PutAmendment writes the amendment row and affected-article join rows in
// one transaction. Every affected article id must already exist; otherwise
// the write is rejected as an atomic no-op with ErrReferentialIntegrity.
func (s *Store) PutAmendment(ctx context.Context, amendment *domain.Amendment) (string, error) {
	if amendment.ID == "" {
		amendment.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, articleID := range amendment.AffectedArticles {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM articles WHERE id = ?", articleID).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking article %s: %w", articleID, err)
		}
		if exists == 0 {
			return "", fmt.Errorf("%w: affected article %s does not exist",
				domain.ErrReferentialIntegrity, articleID)
		}
	}

	var dup int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM amendments WHERE id = ?", amendment.ID).Scan(&dup)
	if err != nil {
		return "", fmt.Errorf("checking amendment id: %w", err)
	}
	if dup > 0 {
		return "", fmt.Errorf("%w: amendment %s", domain.ErrAlreadyExists, amendment.ID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO amendments
			(id, law_id, amendment_date, description, amendment_text, source_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`, amendment.ID, amendment.LawID, amendment.Date,
		amendment.Description, amendment.Text, amendment.SourceURL)
	if err != nil {
		return "", fmt.Errorf("saving amendment: %w", err)
	}

	for _, articleID := range amendment.AffectedArticles {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO amendment_affected_articles
				(amendment_id, article_id) VALUES (?, ?)
		`, amendment.ID, articleID); err != nil {
			return "", fmt.Errorf("saving affected article %s: %w", articleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return amendment.ID, nil
}

// GetDocument retrieves a document with its tags and articles.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, document_type, source_url, date_published,
		       date_modified, date_scraped, is_current, category, subcategory
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	tagRows, err := s.db.QueryContext(ctx,
		"SELECT tag FROM document_tags WHERE document_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		doc.Tags = append(doc.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	articleRows, err := s.db.QueryContext(ctx, `
		SELECT id, law_id, number, content, embedding_id
		FROM articles WHERE law_id = ? ORDER BY rowid
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer articleRows.Close()
	for articleRows.Next() {
		var a domain.Article
		var embeddingID sql.NullString
		if err := articleRows.Scan(&a.ID, &a.LawID, &a.Number, &a.Content, &embeddingID); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.EmbeddingID = embeddingID.String
		doc.Articles = append(doc.Articles, a)
	}
	if err := articleRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}

	return doc, nil
}

// GetArticle retrieves an article joined with its document metadata.
func (s *Store) GetArticle(ctx context.Context, id string) (*domain.ArticleDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.law_id, a.number, a.content, a.embedding_id,
		       d.title, d.document_type, d.category, d.subcategory, d.date_published
		FROM articles a
		JOIN documents d ON a.law_id = d.id
		WHERE a.id = ?
	`, id)

	detail, err := scanArticleDetail(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

// FilterArticles returns the subset of candidate article ids whose parent
// documents satisfy every supplied predicate, joined with document
// metadata. Tag filters are any-of. A zero filter is a pure pass-through:
// every candidate id is returned unchanged without touching the database.
func (s *Store) FilterArticles(
	ctx context.Context, candidateIDs []string, f domain.Filters,
) (map[string]domain.ArticleDetail, error) {
	result := make(map[string]domain.ArticleDetail, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return result, nil
	}

	if f.IsZero() {
		for _, id := range candidateIDs {
			result[id] = domain.ArticleDetail{Article: domain.Article{ID: id}}
		}
		return result, nil
	}

	query := &strings.Builder{}
	query.WriteString(`
		SELECT a.id, a.law_id, a.number, a.content, a.embedding_id,
		       d.title, d.document_type, d.category, d.subcategory, d.date_published
		FROM articles a
		JOIN documents d ON a.law_id = d.id
		WHERE a.id IN (`)
	query.WriteString(placeholders(len(candidateIDs)))
	query.WriteString(")")

	params := make([]any, 0, len(candidateIDs)+4)
	for _, id := range candidateIDs {
		params = append(params, id)
	}

	if f.DocumentType != "" {
		query.WriteString(" AND d.document_type = ?")
		params = append(params, f.DocumentType)
	}
	if f.Category != "" {
		query.WriteString(" AND d.category = ?")
		params = append(params, f.Category)
	}
	if len(f.Tags) > 0 {
		query.WriteString(` AND EXISTS (
			SELECT 1 FROM document_tags dt
			WHERE dt.document_id = d.id AND dt.tag IN (`)
		query.WriteString(placeholders(len(f.Tags)))
		query.WriteString("))")
		for _, tag := range f.Tags {
			params = append(params, tag)
		}
	}
	if f.DateAfter != nil {
		query.WriteString(" AND d.date_published >= ?")
		params = append(params, *f.DateAfter)
	}
	if f.DateBefore != nil {
		query.WriteString(" AND d.date_published <= ?")
		params = append(params, *f.DateBefore)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("querying filtered articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		detail, err := scanArticleDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		result[detail.ID] = *detail
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating filtered articles: %w", err)
	}

	return result, nil
}

// ListArticles returns every stored article joined with document metadata.
func (s *Store) ListArticles(ctx context.Context) ([]domain.ArticleDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.law_id, a.number, a.content, a.embedding_id,
		       d.title, d.document_type, d.category, d.subcategory, d.date_published
		FROM articles a
		JOIN documents d ON a.law_id = d.id
		ORDER BY a.law_id, a.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var details []domain.ArticleDetail //nolint:prealloc // size unknown from query
	for rows.Next() {
		detail, err := scanArticleDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}

	return details, nil
}

// SetArticleEmbeddingID records the article's vector collection key.
func (s *Store) SetArticleEmbeddingID(ctx context.Context, articleID, embeddingID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE articles SET embedding_id = ? WHERE id = ?", embeddingID, articleID)
	if err != nil {
		return fmt.Errorf("setting embedding id: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Clear deletes all rows from all tables. Idempotent: clearing an empty
// store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Children before parents to satisfy foreign keys.
	tables := []string{
		"amendment_affected_articles",
		"amendments",
		"document_tags",
		"articles",
		"documents",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var docType string
	var datePublished, dateModified sql.NullTime
	var category, subcategory sql.NullString

	if err := row.Scan(&doc.ID, &doc.Title, &docType, &doc.SourceURL,
		&datePublished, &dateModified, &doc.DateScraped, &doc.IsCurrent,
		&category, &subcategory); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Type = domain.DocumentType(docType)
	if datePublished.Valid {
		doc.DatePublished = &datePublished.Time
	}
	if dateModified.Valid {
		doc.DateModified = &dateModified.Time
	}
	doc.Category = category.String
	doc.Subcategory = subcategory.String

	return &doc, nil
}

// scanArticleDetail scans an article joined with document metadata using
// the given scan function, which works for both *sql.Row and *sql.Rows.
func scanArticleDetail(scan func(...any) error) (*domain.ArticleDetail, error) {
	var detail domain.ArticleDetail
	var embeddingID, category, subcategory sql.NullString
	var docType string
	var datePublished sql.NullTime

	if err := scan(&detail.ID, &detail.LawID, &detail.Number, &detail.Content,
		&embeddingID, &detail.LawTitle, &docType, &category, &subcategory,
		&datePublished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning article detail: %w", err)
	}

	detail.EmbeddingID = embeddingID.String
	detail.DocumentType = domain.DocumentType(docType)
	detail.Category = category.String
	detail.Subcategory = subcategory.String
	if datePublished.Valid {
		detail.DatePublished = &datePublished.Time
	}

	return &detail, nil
}
