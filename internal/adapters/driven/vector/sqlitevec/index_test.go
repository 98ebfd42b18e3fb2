package sqlitevec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
)

func setupTestIndex(t *testing.T) (*Index, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "legal-vec-test-*")
	require.NoError(t, err)

	idx, err := New(Config{DataDir: tempDir, Dimension: 3})
	require.NoError(t, err)
	require.NotNil(t, idx)

	cleanup := func() {
		assert.NoError(t, idx.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return idx, cleanup
}

func testRecord(key string, embedding []float32) driven.VectorRecord {
	return driven.VectorRecord{
		Key: key,
		Metadata: domain.ResultMetadata{
			ArticleID:     key,
			LawID:         "law-1",
			LawTitle:      "Кодекс на труда",
			ArticleNumber: "Чл. " + key,
		},
		Content:   "текст на " + key,
		Embedding: embedding,
	}
}

func TestNew_CreatesCollectionTransparently(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "legal-vec-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	idx, err := New(Config{DataDir: tempDir})
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, filepath.Join(tempDir, "vectors.db"), idx.Path())

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNew_Defaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "legal-vec-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	idx, err := New(Config{DataDir: tempDir})
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, DefaultCollection, idx.collection)
	assert.Equal(t, DefaultDimension, idx.dimension)
}

func TestIndex_UpsertAndCount(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testRecord("a1", []float32{1, 0, 0})))
	require.NoError(t, idx.Upsert(ctx, testRecord("a2", []float32{0, 1, 0})))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Same key replaces, not duplicates.
	require.NoError(t, idx.Upsert(ctx, testRecord("a1", []float32{0, 0, 1})))
	n, err = idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIndex_Upsert_DimensionMismatch(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()

	err := idx.Upsert(context.Background(), testRecord("a1", []float32{1, 0}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestIndex_Upsert_EmptyKey(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()

	err := idx.Upsert(context.Background(), testRecord("", []float32{1, 0, 0}))

	assert.Error(t, err)
}

func TestIndex_Query_RanksByCosineSimilarity(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testRecord("exact", []float32{1, 0, 0})))
	require.NoError(t, idx.Upsert(ctx, testRecord("close", []float32{1, 1, 0})))
	require.NoError(t, idx.Upsert(ctx, testRecord("orthogonal", []float32{0, 0, 1})))

	hits, err := idx.Query(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "exact", hits[0].Record.Key)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, "close", hits[1].Record.Key)
	assert.Equal(t, "orthogonal", hits[2].Record.Key)
	assert.InDelta(t, 0.0, hits[2].Similarity, 1e-6)
}

func TestIndex_Query_TruncatesToK(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testRecord("a1", []float32{1, 0, 0})))
	require.NoError(t, idx.Upsert(ctx, testRecord("a2", []float32{0, 1, 0})))
	require.NoError(t, idx.Upsert(ctx, testRecord("a3", []float32{0, 0, 1})))

	hits, err := idx.Query(ctx, []float32{1, 1, 1}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndex_Query_RoundTripsRecord(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	rec := testRecord("a1", []float32{0.25, -0.5, 0.75})
	require.NoError(t, idx.Upsert(ctx, rec))

	hits, err := idx.Query(ctx, []float32{0.25, -0.5, 0.75}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, rec.Key, hits[0].Record.Key)
	assert.Equal(t, rec.Metadata, hits[0].Record.Metadata)
	assert.Equal(t, rec.Content, hits[0].Record.Content)
	assert.Equal(t, rec.Embedding, hits[0].Record.Embedding)
}

func TestIndex_Delete_AbsentKeyIsNoError(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()

	assert.NoError(t, idx.Delete(context.Background(), "no-such-key"))
}

func TestIndex_DeleteRemovesRecord(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testRecord("a1", []float32{1, 0, 0})))
	require.NoError(t, idx.Delete(ctx, "a1"))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIndex_Reset(t *testing.T) {
	idx, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, testRecord("a1", []float32{1, 0, 0})))
	require.NoError(t, idx.Reset(ctx))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The collection stays usable after a reset.
	assert.NoError(t, idx.Upsert(ctx, testRecord("a2", []float32{0, 1, 0})))
}

func TestIndex_PersistsAcrossReopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "legal-vec-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)
	ctx := context.Background()

	idx, err := New(Config{DataDir: tempDir, Dimension: 3})
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, testRecord("a1", []float32{1, 0, 0})))
	require.NoError(t, idx.Close())

	idx, err = New(Config{DataDir: tempDir, Dimension: 3})
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a1", hits[0].Record.Key)
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.5, 3.1415927}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
