// Package lexical provides a deterministic hashed bag-of-words embedding
// service. It is the default placeholder provider: it captures lexical
// overlap only and is NOT a semantic embedding model, never a quality
// baseline. Its determinism makes retrieval tests exact and lets the
// system run with no external inference service.
package lexical

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions matches the vector collection default.
const DefaultDimensions = 768

// ModelName identifies this provider in logs and configs.
const ModelName = "lexical-hash"

// EmbeddingService hashes lowercase tokens into a fixed number of buckets
// and L2-normalises the counts. Identical texts produce identical unit
// vectors; texts sharing tokens get positive cosine similarity; disjoint
// texts score zero. All component values are non-negative, so cosine
// similarity stays in [0,1].
type EmbeddingService struct {
	dimensions int
}

// New creates a lexical embedding service. Non-positive dimensions fall
// back to the default.
func New(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token)) //nolint:errcheck // never fails
		vec[h.Sum32()%uint32(s.dimensions)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * inv)
		}
	}

	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds: the provider is in-process.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// tokenize lowercases the text and splits on anything that is not a letter
// or digit, so Cyrillic legal text and Latin queries tokenize alike.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
