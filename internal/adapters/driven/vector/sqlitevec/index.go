// Package sqlitevec provides a persistent vector collection backed by its
// own SQLite file, separate from the relational store. Records hold the
// embedding, the article text and a provenance metadata snapshot, so
// filterless lookups never touch the relational store.
//
// Queries are an exhaustive cosine scan over the collection. That is exact
// rather than approximate and entirely adequate at statute scale (a few
// thousand articles per code).
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
	"github.com/nikolarss0n/legal-assistant/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultCollection is the default collection (table) name.
const DefaultCollection = "legal_articles"

// Index is a SQLite-backed vector collection with cosine similarity
// queries. Similarity is reported as 1 - cosine distance, which lies in
// [0,1] for the non-negative embeddings produced by the bundled providers.
// Swapping in a metric or embedder that yields scores outside that range
// is a configuration error; scores are never clamped.
type Index struct {
	db         *sql.DB
	path       string
	collection string
	dimension  int
}

// Config holds configuration for the vector collection.
type Config struct {
	// DataDir is where the collection file lives
	// (default: ~/.legal-assistant/data).
	DataDir string

	// Collection is the collection name (default: legal_articles).
	Collection string

	// Dimension is the embedding vector size (default: 768). Records with
	// a different dimension are rejected at upsert time.
	Dimension int
}

// DefaultDimension matches the bundled embedding providers.
const DefaultDimension = 768

// New opens (or transparently creates) a vector collection.
// A missing collection is not an error: it is created and the fact logged,
// so a fresh install and a rebuild look the same to callers.
func New(cfg Config) (*Index, error) {
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".legal-assistant", "data")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "vectors.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}

	idx := &Index{
		db:         db,
		path:       dbPath,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
	}

	if err := idx.ensureCollection(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// ensureCollection creates the collection table if it does not exist.
func (idx *Index) ensureCollection(ctx context.Context) error {
	_, err := idx.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			key TEXT PRIMARY KEY,
			article_id TEXT NOT NULL,
			law_id TEXT NOT NULL,
			article_number TEXT NOT NULL,
			law_title TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL
		)
	`, idx.collection))
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", idx.collection, err)
	}
	logger.Debug("Vector collection ready: %s", idx.collection)
	return nil
}

// Upsert inserts or replaces the record at its key.
func (idx *Index) Upsert(ctx context.Context, rec driven.VectorRecord) error {
	if rec.Key == "" {
		return errors.New("sqlitevec: record key cannot be empty")
	}
	if len(rec.Embedding) != idx.dimension {
		return fmt.Errorf("sqlitevec: embedding dimension %d, collection expects %d",
			len(rec.Embedding), idx.dimension)
	}

	_, err := idx.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %q
			(key, article_id, law_id, article_number, law_title, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			article_id = excluded.article_id,
			law_id = excluded.law_id,
			article_number = excluded.article_number,
			law_title = excluded.law_title,
			content = excluded.content,
			embedding = excluded.embedding
	`, idx.collection), rec.Key, rec.Metadata.ArticleID, rec.Metadata.LawID,
		rec.Metadata.ArticleNumber, rec.Metadata.LawTitle, rec.Content,
		float32SliceToBytes(rec.Embedding))
	if err != nil {
		return fmt.Errorf("upserting record %s: %w", rec.Key, err)
	}
	return nil
}

// Delete removes the record at key. Absent keys are not an error.
func (idx *Index) Delete(ctx context.Context, key string) error {
	_, err := idx.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %q WHERE key = ?", idx.collection), key)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", key, err)
	}
	return nil
}

// Query returns the k nearest records by cosine similarity, ranked
// descending. Exact ties keep scan order, which is stable across calls.
func (idx *Index) Query(ctx context.Context, embedding []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(embedding) != idx.dimension {
		return nil, fmt.Errorf("sqlitevec: query dimension %d, collection expects %d",
			len(embedding), idx.dimension)
	}

	rows, err := idx.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT key, article_id, law_id, article_number, law_title, content, embedding
		FROM %q ORDER BY rowid
	`, idx.collection))
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec driven.VectorRecord
		var blob []byte
		if err := rows.Scan(&rec.Key, &rec.Metadata.ArticleID, &rec.Metadata.LawID,
			&rec.Metadata.ArticleNumber, &rec.Metadata.LawTitle, &rec.Content, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.Embedding = bytesToFloat32Slice(blob)

		hits = append(hits, driven.VectorHit{
			Record:     rec,
			Similarity: cosineSimilarity(embedding, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Reset drops and recreates the collection, for full rebuilds.
func (idx *Index) Reset(ctx context.Context) error {
	if _, err := idx.db.ExecContext(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %q", idx.collection)); err != nil {
		return fmt.Errorf("dropping collection %s: %w", idx.collection, err)
	}
	logger.Info("Vector collection %s dropped, recreating", idx.collection)
	return idx.ensureCollection(ctx)
}

// Count returns the number of stored records.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := idx.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %q", idx.collection)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Close closes the collection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Path returns the collection file path.
func (idx *Index) Path() string {
	return idx.path
}

// cosineSimilarity computes the cosine of the angle between two vectors of
// equal length. Zero vectors yield zero similarity.
func cosineSimilarity(a, b []float32) float64 {
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

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
