package domain

// EmbeddingProvider identifies an embedding backend.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderLexical is the deterministic offline hash embedder.
	EmbeddingProviderLexical EmbeddingProvider = "lexical"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderLexical, EmbeddingProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// EmbeddingSettings configures the embedding backend.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider EmbeddingProvider

	// Model is the model name for network providers.
	Model string

	// BaseURL is the endpoint for network providers.
	BaseURL string

	// Dimensions is the embedding vector size. Must match the vector
	// collection's configured dimension.
	Dimensions int

	// TimeoutSeconds bounds each embedding request for network providers.
	TimeoutSeconds int
}

// VectorSettings configures the vector collection.
type VectorSettings struct {
	// Collection is the collection name.
	Collection string
}

// SearchSettings configures retrieval behaviour.
type SearchSettings struct {
	// DefaultLimit is the result count used when the caller does not
	// specify one.
	DefaultLimit int
}

// AppSettings holds all application configuration.
type AppSettings struct {
	// DataDir is where the relational store and vector collection live.
	// Empty means the per-user default.
	DataDir string

	Embedding EmbeddingSettings
	Vector    VectorSettings
	Search    SearchSettings
}

// DefaultAppSettings returns settings with sensible defaults: the offline
// lexical embedder and the standard collection.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Embedding: EmbeddingSettings{
			Provider:       EmbeddingProviderLexical,
			Model:          "nomic-embed-text",
			BaseURL:        "http://localhost:11434",
			Dimensions:     768,
			TimeoutSeconds: 30,
		},
		Vector: VectorSettings{
			Collection: "legal_articles",
		},
		Search: SearchSettings{
			DefaultLimit: 5,
		},
	}
}
