// Package embedding provides factory functions for creating embedding
// service adapters from configuration.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/embedding/lexical"
	"github.com/nikolarss0n/legal-assistant/internal/adapters/driven/embedding/ollama"
	"github.com/nikolarss0n/legal-assistant/internal/core/domain"
	"github.com/nikolarss0n/legal-assistant/internal/core/ports/driven"
)

// Recognised provider names.
const (
	ProviderLexical = "lexical"
	ProviderOllama  = "ollama"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// Settings selects and configures an embedding provider.
type Settings struct {
	// Provider is "lexical" (default) or "ollama".
	Provider string

	// BaseURL and Model apply to network providers.
	BaseURL string
	Model   string

	// Dimensions is the embedding vector size; defaults per provider.
	Dimensions int

	// Timeout bounds each embedding request for network providers.
	Timeout time.Duration
}

// New creates an embedding service for the configured provider and
// validates connectivity for network providers.
func New(cfg Settings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "", ProviderLexical:
		return lexical.New(cfg.Dimensions), nil

	case ProviderOllama:
		svc := ollama.New(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			Dimensions: cfg.Dimensions,
		})

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			svc.Close()
			return nil, fmt.Errorf("%w: ollama unreachable: %w", domain.ErrEmbedding, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrValidation, cfg.Provider)
	}
}
